package ledgerseal

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestExportImportRoundTrip(t *testing.T) {
	suite := fastSuiteConfig()
	keys, err := GenerateKeyring(suite)
	if err != nil {
		t.Fatalf("GenerateKeyring() error = %v", err)
	}

	data, err := ExportPrivateKeys("main-ledger", ExportFormatEncryptedKeysetV1, "export passphrase", keys, suite)
	if err != nil {
		t.Fatalf("ExportPrivateKeys() error = %v", err)
	}

	suites := map[string]SuiteConfig{suite.ID: suite}
	imported, err := ImportPrivateKeys(data, "export passphrase", suites)
	if err != nil {
		t.Fatalf("ImportPrivateKeys() error = %v", err)
	}

	if !bytes.Equal(imported.ClassicalPrivateKey, keys.ClassicalPrivateKey) {
		t.Error("classical private key did not survive the round trip")
	}
	if !bytes.Equal(imported.PQCPrivateKey, keys.PQCPrivateKey) {
		t.Error("PQC private key did not survive the round trip")
	}
	if !bytes.Equal(imported.ClassicalPublicKey, keys.ClassicalPublicKey) {
		t.Error("classical public key was not reconstructed")
	}
	if !bytes.Equal(imported.PQCPublicKey, keys.PQCPublicKey) {
		t.Error("PQC public key was not reconstructed")
	}
}

func TestExportPrivateKeys_NeverPlaintext(t *testing.T) {
	suite := fastSuiteConfig()
	keys, err := GenerateKeyring(suite)
	if err != nil {
		t.Fatalf("GenerateKeyring() error = %v", err)
	}

	data, err := ExportPrivateKeys("ctx", ExportFormatEncryptedKeysetV1, "pw", keys, suite)
	if err != nil {
		t.Fatalf("ExportPrivateKeys() error = %v", err)
	}

	if bytes.Contains(data, keys.ClassicalPrivateKey) {
		t.Error("export contains the raw classical private key")
	}
	if bytes.Contains(data, []byte(toBase64URL(keys.ClassicalPrivateKey))) {
		t.Error("export contains the base64 classical private key")
	}
	if bytes.Contains(data, []byte(toBase64URL(keys.PQCPrivateKey))) {
		t.Error("export contains the base64 PQC private key")
	}
}

func TestExportPrivateKeys_Container(t *testing.T) {
	suite := fastSuiteConfig()
	keys, err := GenerateKeyring(suite)
	if err != nil {
		t.Fatalf("GenerateKeyring() error = %v", err)
	}

	data, err := ExportPrivateKeys("main-ledger", ExportFormatEncryptedKeysetV1, "pw", keys, suite)
	if err != nil {
		t.Fatalf("ExportPrivateKeys() error = %v", err)
	}

	var exported ExportedKeyset
	if err := json.Unmarshal(data, &exported); err != nil {
		t.Fatalf("unmarshal export: %v", err)
	}
	if exported.Version != ExportVersion {
		t.Errorf("Version = %d, want %d", exported.Version, ExportVersion)
	}
	if exported.Format != ExportFormatEncryptedKeysetV1 {
		t.Errorf("Format = %q", exported.Format)
	}
	if exported.Context != "main-ledger" {
		t.Errorf("Context = %q", exported.Context)
	}
	if exported.SuiteID != suite.ID {
		t.Errorf("SuiteID = %q, want %q", exported.SuiteID, suite.ID)
	}
	if err := exported.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestExportPrivateKeys_Failures(t *testing.T) {
	suite := fastSuiteConfig()
	keys, err := GenerateKeyring(suite)
	if err != nil {
		t.Fatalf("GenerateKeyring() error = %v", err)
	}

	tests := []struct {
		name       string
		format     string
		passphrase string
		keys       *Keyring
		wantMsg    string
	}{
		{"unknown format", "PEM", "pw", keys, "unsupported export format"},
		{"no private material", ExportFormatEncryptedKeysetV1, "pw", &Keyring{}, "no stored private key material"},
		{"nil keyring", ExportFormatEncryptedKeysetV1, "pw", nil, "no stored private key material"},
		{"empty passphrase", ExportFormatEncryptedKeysetV1, "", keys, "passphrase must not be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExportPrivateKeys("ctx", tt.format, tt.passphrase, tt.keys, suite)
			if !errors.Is(err, ErrKeyManagement) {
				t.Fatalf("ExportPrivateKeys() error = %v, want ErrKeyManagement", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q missing %q", err, tt.wantMsg)
			}
		})
	}
}

func TestImportPrivateKeys_WrongPassphrase(t *testing.T) {
	suite := fastSuiteConfig()
	keys, err := GenerateKeyring(suite)
	if err != nil {
		t.Fatalf("GenerateKeyring() error = %v", err)
	}

	data, err := ExportPrivateKeys("ctx", ExportFormatEncryptedKeysetV1, "right", keys, suite)
	if err != nil {
		t.Fatalf("ExportPrivateKeys() error = %v", err)
	}

	suites := map[string]SuiteConfig{suite.ID: suite}
	_, err = ImportPrivateKeys(data, "wrong", suites)
	if !errors.Is(err, ErrKeyManagement) {
		t.Errorf("ImportPrivateKeys() error = %v, want ErrKeyManagement", err)
	}
}

func TestImportPrivateKeys_UnknownSuite(t *testing.T) {
	suite := fastSuiteConfig()
	keys, err := GenerateKeyring(suite)
	if err != nil {
		t.Fatalf("GenerateKeyring() error = %v", err)
	}

	data, err := ExportPrivateKeys("ctx", ExportFormatEncryptedKeysetV1, "pw", keys, suite)
	if err != nil {
		t.Fatalf("ExportPrivateKeys() error = %v", err)
	}

	_, err = ImportPrivateKeys(data, "pw", map[string]SuiteConfig{})
	if !errors.Is(err, ErrKeyManagement) {
		t.Fatalf("ImportPrivateKeys() error = %v, want ErrKeyManagement", err)
	}
	if !strings.Contains(err.Error(), "is not configured") {
		t.Errorf("error = %q", err)
	}
}

func TestExportedKeysetValidate(t *testing.T) {
	valid := ExportedKeyset{
		Version:    ExportVersion,
		Format:     ExportFormatEncryptedKeysetV1,
		SuiteID:    SuiteX25519Kyber768AES256GCM,
		Salt:       toBase64URL([]byte("salt")),
		Nonce:      toBase64URL([]byte("nonce")),
		Ciphertext: toBase64URL([]byte("ciphertext")),
	}

	tests := []struct {
		name   string
		mutate func(*ExportedKeyset)
		ok     bool
	}{
		{"valid", func(*ExportedKeyset) {}, true},
		{"wrong version", func(e *ExportedKeyset) { e.Version = 2 }, false},
		{"wrong format", func(e *ExportedKeyset) { e.Format = "KEYSET_V0" }, false},
		{"missing suite", func(e *ExportedKeyset) { e.SuiteID = "" }, false},
		{"missing salt", func(e *ExportedKeyset) { e.Salt = "" }, false},
		{"bad base64", func(e *ExportedKeyset) { e.Nonce = "not base64!!" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			err := e.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, ErrKeyManagement) {
				t.Errorf("Validate() error = %v, want ErrKeyManagement", err)
			}
		})
	}
}
