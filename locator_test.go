package ledgerseal

import (
	"testing"
)

// stubHandler is a fixed-answer handler for locator tests.
type stubHandler struct {
	name    string
	matches bool
}

func (s *stubHandler) Name() string { return s.name }

func (s *stubHandler) CanHandle(path string, peek []byte, cfg *Config) bool { return s.matches }

func (s *stubHandler) DecryptContent(data []byte, cfg *Config, keys *Keyring) (string, error) {
	return "", nil
}

func TestHandlerForFile_PriorityOrder(t *testing.T) {
	tests := []struct {
		name     string
		first    bool
		second   bool
		wantName string
	}{
		{"both match: first wins", true, true, "first"},
		{"only second matches", false, true, "second"},
		{"only first matches", true, false, "first"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			locator := NewHandlerLocator(WithHandlers(
				&stubHandler{name: "first", matches: tt.first},
				&stubHandler{name: "second", matches: tt.second},
			))

			h := locator.HandlerForFile("ledger.dat", nil, DefaultConfig())
			if h == nil {
				t.Fatal("HandlerForFile() = nil, want a handler")
			}
			if h.Name() != tt.wantName {
				t.Errorf("HandlerForFile() = %q, want %q", h.Name(), tt.wantName)
			}
		})
	}
}

func TestHandlerForFile_NoMatch(t *testing.T) {
	locator := NewHandlerLocator(WithHandlers(
		&stubHandler{name: "first"},
		&stubHandler{name: "second"},
	))

	if h := locator.HandlerForFile("ledger.dat", nil, DefaultConfig()); h != nil {
		t.Errorf("HandlerForFile() = %v, want nil", h.Name())
	}
}

func TestHandlerForFile_ShortCircuits(t *testing.T) {
	probed := []string{}
	first := &probeRecorder{name: "first", matches: true, probed: &probed}
	second := &probeRecorder{name: "second", matches: true, probed: &probed}

	locator := NewHandlerLocator(WithHandlers(first, second))
	locator.HandlerForFile("ledger.dat", nil, DefaultConfig())

	if len(probed) != 1 || probed[0] != "first" {
		t.Errorf("probed handlers = %v, want [first]", probed)
	}
}

type probeRecorder struct {
	name    string
	matches bool
	probed  *[]string
}

func (p *probeRecorder) Name() string { return p.name }

func (p *probeRecorder) CanHandle(path string, peek []byte, cfg *Config) bool {
	*p.probed = append(*p.probed, p.name)
	return p.matches
}

func (p *probeRecorder) DecryptContent(data []byte, cfg *Config, keys *Keyring) (string, error) {
	return "", nil
}

func TestHandlerForFile_DefaultOrder_PQCBeatsGPG(t *testing.T) {
	cfg := DefaultConfig()
	locator := NewHandlerLocator()

	// A .gpg-suffixed path whose content is a PQC bundle: the PQC handler is
	// probed first and wins on the header sniff.
	keys, err := GenerateKeyring(mustActiveSuite(t, cfg))
	if err != nil {
		t.Fatalf("GenerateKeyring() error = %v", err)
	}
	defer keys.Zeroize()

	handler := locator.PQCEncryptHandler(mustActiveSuite(t, cfg), cfg)
	if handler == nil {
		t.Fatal("PQCEncryptHandler() = nil")
	}
	data, err := handler.EncryptContent("x", cfg, keys)
	if err != nil {
		t.Fatalf("EncryptContent() error = %v", err)
	}

	h := locator.HandlerForFile("ledger.gpg", data[:PeekSize], cfg)
	if h == nil || h.Name() != "hybrid-pqc" {
		t.Errorf("HandlerForFile() = %v, want hybrid-pqc", h)
	}
}

func TestPQCEncryptHandler_Gate(t *testing.T) {
	locator := NewHandlerLocator()

	enabled := DefaultConfig()
	if h := locator.PQCEncryptHandler(mustActiveSuite(t, enabled), enabled); h == nil {
		t.Error("PQCEncryptHandler() = nil with PQC enabled")
	}

	disabled := DefaultConfig()
	disabled.PQCDataAtRestEnabled = false
	if h := locator.PQCEncryptHandler(mustActiveSuite(t, disabled), disabled); h != nil {
		t.Error("PQCEncryptHandler() != nil with PQC disabled")
	}

	if h := locator.PQCEncryptHandler(SuiteConfig{}, nil); h != nil {
		t.Error("PQCEncryptHandler() != nil with nil config")
	}
}

func TestHandlers_ReturnsCopy(t *testing.T) {
	locator := NewHandlerLocator()
	handlers := locator.Handlers()
	if len(handlers) != 2 {
		t.Fatalf("Handlers() returned %d handlers, want 2", len(handlers))
	}
	handlers[0] = nil
	if locator.Handlers()[0] == nil {
		t.Error("mutating the returned slice changed the locator's handler set")
	}
}

func mustActiveSuite(t *testing.T, cfg *Config) SuiteConfig {
	t.Helper()
	suite, err := cfg.ActiveSuite()
	if err != nil {
		t.Fatalf("ActiveSuite() error = %v", err)
	}
	return suite
}
