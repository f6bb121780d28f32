package ledgerseal

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/argon2"

	"github.com/ledgerseal/ledgerseal-go/internal/hybrid"
	"github.com/ledgerseal/ledgerseal-go/internal/keyderive"
)

// ExportVersion is the current keyset export format version.
const ExportVersion = 1

// ExportFormatEncryptedKeysetV1 is the only export container format this
// module produces.
const ExportFormatEncryptedKeysetV1 = "ENCRYPTED_KEYSET_V1"

// ExportedKeyset is the passphrase-encrypted container for private key
// material. Private keys never leave this module unencrypted: the key blob is
// Argon2id-stretched-passphrase AES-256-GCM.
type ExportedKeyset struct {
	// Version is the export format version. MUST be 1.
	Version int `json:"version"`
	// Format names the container format. MUST be ENCRYPTED_KEYSET_V1.
	Format string `json:"format"`
	// Context identifies the ledger or key context the keyset belongs to.
	Context string `json:"context"`
	// SuiteID names the suite the keys were produced for.
	SuiteID string `json:"suiteId"`
	// Salt is the Argon2id salt for the wrapping key (base64url).
	Salt string `json:"salt"`
	// Nonce is the AES-GCM nonce (base64url).
	Nonce string `json:"nonce"`
	// Ciphertext is the encrypted key payload including the tag (base64url).
	Ciphertext string `json:"ciphertext"`
	// ExportedAt is the export timestamp. Informational only.
	ExportedAt time.Time `json:"exportedAt"`
}

// Validate checks that the exported container is structurally sound before
// any decryption is attempted.
func (e *ExportedKeyset) Validate() error {
	if e.Version != ExportVersion {
		return &KeyManagementError{Message: fmt.Sprintf("unsupported export version %d, expected %d", e.Version, ExportVersion)}
	}
	if e.Format != ExportFormatEncryptedKeysetV1 {
		return &KeyManagementError{Message: fmt.Sprintf("unsupported export format %q", e.Format)}
	}
	if e.SuiteID == "" {
		return &KeyManagementError{Message: "export is missing suiteId"}
	}
	for name, value := range map[string]string{"salt": e.Salt, "nonce": e.Nonce, "ciphertext": e.Ciphertext} {
		if value == "" {
			return &KeyManagementError{Message: fmt.Sprintf("export is missing %s", name)}
		}
		if _, err := fromBase64URL(value); err != nil {
			return &KeyManagementError{Message: fmt.Sprintf("export field %s is not valid base64url", name), Err: err}
		}
	}
	return nil
}

// keysetPayload is the cleartext JSON inside the encrypted blob.
type keysetPayload struct {
	ClassicalPrivateKey string `json:"classicalPrivateKey"`
	PQCPrivateKey       string `json:"pqcPrivateKey"`
}

// exportWrapParams fixes the Argon2id cost for the export wrapping key.
// Frozen: part of the ENCRYPTED_KEYSET_V1 contract.
var exportWrapParams = keyderive.DefaultArgon2Params()

// ExportPrivateKeys re-encrypts the private half of keys into the requested
// export container under passphrase. It fails with ErrKeyManagement when
// keys carries no private material or the format is unknown; unencrypted key
// material is never returned.
func ExportPrivateKeys(context, format, passphrase string, keys *Keyring, suite SuiteConfig) ([]byte, error) {
	if format != ExportFormatEncryptedKeysetV1 {
		return nil, &KeyManagementError{Message: fmt.Sprintf("unsupported export format %q", format)}
	}
	if !keys.HasPrivateKeys() {
		return nil, &KeyManagementError{Message: fmt.Sprintf("no stored private key material for context %q", context)}
	}
	if passphrase == "" {
		return nil, &KeyManagementError{Message: "export passphrase must not be empty"}
	}

	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, &KeyManagementError{Message: "generate export salt", Err: err}
	}

	payload, err := json.Marshal(keysetPayload{
		ClassicalPrivateKey: toBase64URL(keys.ClassicalPrivateKey),
		PQCPrivateKey:       toBase64URL(keys.PQCPrivateKey),
	})
	if err != nil {
		return nil, &KeyManagementError{Message: "marshal key payload", Err: err}
	}
	defer hybrid.Zeroize(payload)

	aead, err := hybrid.ResolveAEAD("AES256GCM")
	if err != nil {
		return nil, wrapCryptoError(err)
	}

	wrapKey := argon2.IDKey([]byte(passphrase), salt,
		exportWrapParams.Time, exportWrapParams.MemoryKiB, exportWrapParams.Threads, uint32(aead.KeySize()))
	defer hybrid.Zeroize(wrapKey)

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, &KeyManagementError{Message: "generate export nonce", Err: err}
	}

	ciphertext, tag, err := aead.Seal(wrapKey, nonce, payload)
	if err != nil {
		return nil, &KeyManagementError{Message: "seal key payload", Err: err}
	}

	exported := &ExportedKeyset{
		Version:    ExportVersion,
		Format:     ExportFormatEncryptedKeysetV1,
		Context:    context,
		SuiteID:    suite.ID,
		Salt:       toBase64URL(salt),
		Nonce:      toBase64URL(nonce),
		Ciphertext: toBase64URL(append(ciphertext, tag...)),
		ExportedAt: time.Now().UTC(),
	}
	return json.MarshalIndent(exported, "", "  ")
}

// ImportPrivateKeys decrypts an exported keyset container and reconstructs
// the full keyring, deriving the public halves from the private keys.
func ImportPrivateKeys(data []byte, passphrase string, suites map[string]SuiteConfig) (*Keyring, error) {
	var exported ExportedKeyset
	if err := json.Unmarshal(data, &exported); err != nil {
		return nil, &KeyManagementError{Message: "parse export container", Err: err}
	}
	if err := exported.Validate(); err != nil {
		return nil, err
	}

	suite, ok := suites[exported.SuiteID]
	if !ok {
		return nil, &KeyManagementError{Message: fmt.Sprintf("export suite %q is not configured", exported.SuiteID)}
	}

	salt, _ := fromBase64URL(exported.Salt)
	nonce, _ := fromBase64URL(exported.Nonce)
	sealed, _ := fromBase64URL(exported.Ciphertext)

	aead, err := hybrid.ResolveAEAD("AES256GCM")
	if err != nil {
		return nil, wrapCryptoError(err)
	}
	if len(sealed) < aead.TagSize() {
		return nil, &KeyManagementError{Message: "export ciphertext too short"}
	}

	wrapKey := argon2.IDKey([]byte(passphrase), salt,
		exportWrapParams.Time, exportWrapParams.MemoryKiB, exportWrapParams.Threads, uint32(aead.KeySize()))
	defer hybrid.Zeroize(wrapKey)

	split := len(sealed) - aead.TagSize()
	payloadBytes, err := aead.Open(wrapKey, nonce, sealed[:split], sealed[split:])
	if err != nil {
		return nil, &KeyManagementError{Message: "wrong passphrase or corrupted export", Err: ErrDecryptionFailed}
	}
	defer hybrid.Zeroize(payloadBytes)

	var payload keysetPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		return nil, &KeyManagementError{Message: "parse key payload", Err: err}
	}

	classicalPrivate, err := fromBase64URL(payload.ClassicalPrivateKey)
	if err != nil {
		return nil, &KeyManagementError{Message: "decode classical private key", Err: err}
	}
	pqcPrivate, err := fromBase64URL(payload.PQCPrivateKey)
	if err != nil {
		return nil, &KeyManagementError{Message: "decode PQC private key", Err: err}
	}

	classical, err := hybrid.ResolveClassicalKEM(suite.ClassicalKEMAlgorithm)
	if err != nil {
		return nil, wrapCryptoError(err)
	}
	classicalPublic, classicalPrivate, err := classical.DeriveKeyPair(classicalPrivate)
	if err != nil {
		return nil, &KeyManagementError{Message: "reconstruct classical keypair", Err: err}
	}

	pqc, err := hybrid.ResolvePQCKEM(suite.PQCKEMAlgorithm)
	if err != nil {
		return nil, wrapCryptoError(err)
	}
	sk, err := pqc.UnmarshalBinaryPrivateKey(pqcPrivate)
	if err != nil {
		return nil, &KeyManagementError{Message: "reconstruct PQC keypair", Err: err}
	}
	pqcPublic, err := sk.Public().MarshalBinary()
	if err != nil {
		return nil, &KeyManagementError{Message: "derive PQC public key", Err: err}
	}

	return &Keyring{
		ClassicalPublicKey:  classicalPublic,
		ClassicalPrivateKey: classicalPrivate,
		PQCPublicKey:        pqcPublic,
		PQCPrivateKey:       pqcPrivate,
	}, nil
}

// toBase64URL encodes bytes to URL-safe base64 without padding.
func toBase64URL(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// fromBase64URL decodes URL-safe base64 without padding.
func fromBase64URL(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}
