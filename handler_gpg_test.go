package ledgerseal

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGPGHandler_CanHandle(t *testing.T) {
	cfg := DefaultConfig()
	noFallback := DefaultConfig()
	noFallback.PQCFallbackToClassicalGPG = false

	armored := []byte("-----BEGIN PGP MESSAGE-----\n\nhQEMA...")

	tests := []struct {
		name string
		path string
		peek []byte
		cfg  *Config
		want bool
	}{
		{"gpg extension", "ledger.beancount.gpg", nil, cfg, true},
		{"gpg extension uppercase", "LEDGER.GPG", nil, cfg, true},
		{"binary packet tag", "ledger.bin", []byte{0x85, 0x01, 0x0c}, cfg, true},
		{"ascii armor", "ledger.asc", armored, cfg, true},
		{"plain text", "ledger.beancount", []byte("2024-01-01 open Assets:Cash"), cfg, false},
		{"empty peek no extension", "ledger.beancount", []byte{}, cfg, false},
		{"fallback disabled", "ledger.gpg", armored, noFallback, false},
		{"nil config allows", "ledger.gpg", nil, nil, true},
	}

	handler := NewGPGHandler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := handler.CanHandle(tt.path, tt.peek, tt.cfg); got != tt.want {
				t.Errorf("CanHandle(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

// installFakeGPG writes a shell script named gpg into a temp dir and prepends
// that dir to PATH for the duration of the test.
func installFakeGPG(t *testing.T, script string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "gpg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("write fake gpg: %v", err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestGPGHandler_DecryptContent(t *testing.T) {
	installFakeGPG(t, `cat`)

	handler := NewGPGHandler()
	got, err := handler.DecryptContent([]byte("2024-01-01 open Assets:Cash\n"), DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("DecryptContent() error = %v", err)
	}
	if got != "2024-01-01 open Assets:Cash\n" {
		t.Errorf("DecryptContent() = %q", got)
	}
}

func TestGPGHandler_DecryptContent_ExtraOptions(t *testing.T) {
	// The fake prints its arguments so the test can see the extra options.
	installFakeGPG(t, `echo "$@"`)

	cfg := DefaultConfig()
	cfg.GPGOptions = "--homedir /tmp/keys"

	handler := NewGPGHandler()
	got, err := handler.DecryptContent(nil, cfg, nil)
	if err != nil {
		t.Fatalf("DecryptContent() error = %v", err)
	}
	if !strings.Contains(got, "--homedir /tmp/keys") {
		t.Errorf("gpg arguments %q missing configured options", got)
	}
	if !strings.Contains(got, "--batch") {
		t.Errorf("gpg arguments %q missing base options", got)
	}
}

func TestGPGHandler_DecryptContent_NonZeroExit(t *testing.T) {
	installFakeGPG(t, `echo "gpg: decryption failed: No secret key" >&2; exit 2`)

	handler := NewGPGHandler()
	_, err := handler.DecryptContent([]byte("ciphertext"), DefaultConfig(), nil)
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("DecryptContent() error = %v, want ErrDecryptionFailed", err)
	}

	var decErr *DecryptionError
	if !errors.As(err, &decErr) {
		t.Fatalf("DecryptContent() error = %T, want *DecryptionError", err)
	}
	if decErr.Stage != "gpg" {
		t.Errorf("Stage = %q, want %q", decErr.Stage, "gpg")
	}
	if !strings.Contains(err.Error(), "status 2") {
		t.Errorf("error %q does not carry the exit code", err)
	}
	if !strings.Contains(err.Error(), "No secret key") {
		t.Errorf("error %q does not carry stderr output", err)
	}
}

func TestGPGHandler_DecryptContent_BinaryOutput(t *testing.T) {
	installFakeGPG(t, `printf '\377\376\375'`)

	handler := NewGPGHandler()
	_, err := handler.DecryptContent([]byte("ciphertext"), DefaultConfig(), nil)
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("DecryptContent() error = %v, want ErrDecryptionFailed", err)
	}
	var decErr *DecryptionError
	if !errors.As(err, &decErr) {
		t.Fatalf("DecryptContent() error = %T, want *DecryptionError", err)
	}
	if decErr.Stage != "decode" {
		t.Errorf("Stage = %q, want %q", decErr.Stage, "decode")
	}
}

func TestGPGHandler_DecryptContent_ToolMissing(t *testing.T) {
	// An empty PATH makes LookPath fail.
	t.Setenv("PATH", t.TempDir())

	handler := NewGPGHandler()
	_, err := handler.DecryptContent([]byte("ciphertext"), DefaultConfig(), nil)
	if !errors.Is(err, ErrGPGToolNotFound) {
		t.Errorf("DecryptContent() error = %v, want ErrGPGToolNotFound", err)
	}
}
