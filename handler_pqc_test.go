package ledgerseal

import (
	"errors"
	"strings"
	"testing"
)

// fastSuiteConfig keeps test derivations cheap by lowering Argon2 costs.
func fastSuiteConfig() SuiteConfig {
	suite := DefaultSuites()[SuiteX25519Kyber768AES256GCM]
	suite.Argon2 = Argon2Params{Time: 1, MemoryKiB: 64, Threads: 1}
	return suite
}

func fastConfig() *Config {
	cfg := DefaultConfig()
	cfg.PQCSuites[SuiteX25519Kyber768AES256GCM] = fastSuiteConfig()
	return cfg
}

func TestHybridPQCHandler_EncryptDecrypt(t *testing.T) {
	cfg := fastConfig()
	handler := NewHybridPQCHandler()

	keys, err := GenerateKeyring(mustActiveSuite(t, cfg))
	if err != nil {
		t.Fatalf("GenerateKeyring() error = %v", err)
	}
	defer keys.Zeroize()

	const plaintext = "1970-01-01 open Assets:Cash"
	data, err := handler.EncryptContent(plaintext, cfg, keys)
	if err != nil {
		t.Fatalf("EncryptContent() error = %v", err)
	}

	got, err := handler.DecryptContent(data, cfg, keys)
	if err != nil {
		t.Fatalf("DecryptContent() error = %v", err)
	}
	if got != plaintext {
		t.Errorf("DecryptContent() = %q, want %q", got, plaintext)
	}
}

func TestHybridPQCHandler_WrongKeys(t *testing.T) {
	cfg := fastConfig()
	handler := NewHybridPQCHandler()

	keys, err := GenerateKeyring(mustActiveSuite(t, cfg))
	if err != nil {
		t.Fatalf("GenerateKeyring() error = %v", err)
	}
	otherKeys, err := GenerateKeyring(mustActiveSuite(t, cfg))
	if err != nil {
		t.Fatalf("GenerateKeyring() error = %v", err)
	}

	data, err := handler.EncryptContent("secret ledger", cfg, keys)
	if err != nil {
		t.Fatalf("EncryptContent() error = %v", err)
	}

	_, err = handler.DecryptContent(data, cfg, otherKeys)
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("DecryptContent() error = %v, want ErrDecryptionFailed", err)
	}
}

func TestHybridPQCHandler_SuiteMismatch(t *testing.T) {
	cfg := fastConfig()
	handler := NewHybridPQCHandler()

	keys, err := GenerateKeyring(mustActiveSuite(t, cfg))
	if err != nil {
		t.Fatalf("GenerateKeyring() error = %v", err)
	}

	data, err := handler.EncryptContent("cross-suite", cfg, keys)
	if err != nil {
		t.Fatalf("EncryptContent() error = %v", err)
	}

	// Same bytes decrypted under a config whose active suite differs.
	otherCfg := fastConfig()
	otherCfg.PQCActiveSuiteID = SuiteX25519MLKEM1024ChaCha20

	_, err = handler.DecryptContent(data, otherCfg, keys)
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("DecryptContent() error = %v, want ErrDecryptionFailed", err)
	}
	if !strings.Contains(err.Error(), SuiteX25519Kyber768AES256GCM) {
		t.Errorf("error %q does not name the bundle suite", err)
	}
}

func TestHybridPQCHandler_MalformedData(t *testing.T) {
	cfg := fastConfig()
	handler := NewHybridPQCHandler()

	keys, err := GenerateKeyring(mustActiveSuite(t, cfg))
	if err != nil {
		t.Fatalf("GenerateKeyring() error = %v", err)
	}

	_, err = handler.DecryptContent([]byte("not a bundle"), cfg, keys)
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("DecryptContent() error = %v, want ErrDecryptionFailed", err)
	}
}

func TestHybridPQCHandler_MissingKeys(t *testing.T) {
	cfg := fastConfig()
	handler := NewHybridPQCHandler()

	if _, err := handler.DecryptContent([]byte("x"), cfg, nil); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("DecryptContent(nil keys) error = %v, want ErrDecryptionFailed", err)
	}
	if _, err := handler.EncryptContent("x", cfg, nil); !errors.Is(err, ErrEncryptionFailed) {
		t.Errorf("EncryptContent(nil keys) error = %v, want ErrEncryptionFailed", err)
	}
}

func TestHybridPQCHandler_NilConfig(t *testing.T) {
	handler := NewHybridPQCHandler()

	keys, err := GenerateKeyring(fastSuiteConfig())
	if err != nil {
		t.Fatalf("GenerateKeyring() error = %v", err)
	}

	if _, err := handler.DecryptContent([]byte("x"), nil, keys); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("DecryptContent(nil cfg) error = %v, want ErrDecryptionFailed", err)
	}
	if _, err := handler.EncryptContent("x", nil, keys); !errors.Is(err, ErrEncryptionFailed) {
		t.Errorf("EncryptContent(nil cfg) error = %v, want ErrEncryptionFailed", err)
	}
}

func TestHybridPQCHandler_CanHandle(t *testing.T) {
	cfg := fastConfig()
	handler := NewHybridPQCHandler()

	keys, err := GenerateKeyring(mustActiveSuite(t, cfg))
	if err != nil {
		t.Fatalf("GenerateKeyring() error = %v", err)
	}
	data, err := handler.EncryptContent("probe", cfg, keys)
	if err != nil {
		t.Fatalf("EncryptContent() error = %v", err)
	}

	disabled := fastConfig()
	disabled.PQCDataAtRestEnabled = false

	tests := []struct {
		name string
		path string
		peek []byte
		cfg  *Config
		want bool
	}{
		{"bundle peek", "anything.bin", data[:PeekSize], cfg, true},
		{"extension fallback without peek", "ledger.pqc_hybrid_fava", nil, cfg, true},
		{"extension case-insensitive", "LEDGER.PQC_HYBRID_FAVA", nil, cfg, true},
		{"foreign content", "ledger.txt", []byte("plain text ledger"), cfg, false},
		{"empty peek decides no", "ledger.pqc_hybrid_fava", []byte{}, cfg, false},
		{"pqc disabled", "ledger.pqc_hybrid_fava", nil, disabled, false},
		{"nil everything", "", nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := handler.CanHandle(tt.path, tt.peek, tt.cfg); got != tt.want {
				t.Errorf("CanHandle(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestHybridPQCHandler_Inspect(t *testing.T) {
	cfg := fastConfig()
	handler := NewHybridPQCHandler()

	keys, err := GenerateKeyring(mustActiveSuite(t, cfg))
	if err != nil {
		t.Fatalf("GenerateKeyring() error = %v", err)
	}
	data, err := handler.EncryptContent("inspect me", cfg, keys)
	if err != nil {
		t.Fatalf("EncryptContent() error = %v", err)
	}

	info, err := handler.Inspect(data)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if info.FormatIdentifier != FormatIdentifier {
		t.Errorf("FormatIdentifier = %q, want %q", info.FormatIdentifier, FormatIdentifier)
	}
	if info.SuiteID != SuiteX25519Kyber768AES256GCM {
		t.Errorf("SuiteID = %q, want %q", info.SuiteID, SuiteX25519Kyber768AES256GCM)
	}
	if info.CiphertextSize != len("inspect me") {
		t.Errorf("CiphertextSize = %d, want %d", info.CiphertextSize, len("inspect me"))
	}
}

func TestHybridPQCHandler_InspectLimits(t *testing.T) {
	handler := NewHybridPQCHandler(WithBundleLimits(16, 64))

	_, err := handler.Inspect([]byte{0xFF, 0xFF, 0xFF, 0xFF})
	if !errors.Is(err, ErrMemoryLimitExceeded) {
		t.Fatalf("Inspect() error = %v, want ErrMemoryLimitExceeded", err)
	}
	// Memory-limit violations are also validation failures.
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Inspect() error = %v, want it to also match ErrValidation", err)
	}

	_, err = handler.Inspect([]byte{0x01, 0x02})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Inspect() error = %v, want ErrValidation", err)
	}
}
