package ledgerseal

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/ledgerseal/ledgerseal-go/internal/bundle"
	"github.com/ledgerseal/ledgerseal-go/internal/hybrid"
)

// PQCFileExtension is the file suffix for hybrid-encrypted ledger files.
const PQCFileExtension = ".pqc_hybrid_fava"

// HybridPQCHandler owns the hybrid post-quantum bundle format.
type HybridPQCHandler struct {
	limits bundle.Limits
}

// PQCHandlerOption configures a HybridPQCHandler.
type PQCHandlerOption func(*HybridPQCHandler)

// WithBundleLimits overrides the per-field and total parse limits used when
// consuming untrusted bundle bytes. A zero value keeps the default for that
// limit.
func WithBundleLimits(maxFieldSize, maxTotalSize uint64) PQCHandlerOption {
	return func(h *HybridPQCHandler) {
		if maxFieldSize > 0 {
			h.limits.MaxFieldSize = maxFieldSize
		}
		if maxTotalSize > 0 {
			h.limits.MaxTotalSize = maxTotalSize
		}
	}
}

// NewHybridPQCHandler builds the hybrid PQC handler with default limits.
func NewHybridPQCHandler(opts ...PQCHandlerOption) *HybridPQCHandler {
	h := &HybridPQCHandler{limits: bundle.DefaultLimits()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Name implements Handler.
func (h *HybridPQCHandler) Name() string { return "hybrid-pqc" }

// CanHandle reports whether the file is a hybrid PQC bundle. With peek bytes
// available the decision comes from the bundle header; without them it falls
// back to the file extension.
func (h *HybridPQCHandler) CanHandle(path string, peek []byte, cfg *Config) bool {
	if cfg != nil && !cfg.PQCDataAtRestEnabled {
		return false
	}
	if peek != nil {
		id, ok := bundle.SniffFormat(peek)
		return ok && id == FormatIdentifier
	}
	return strings.HasSuffix(strings.ToLower(path), PQCFileExtension)
}

// EncryptContent seals plaintext under the config's active suite using the
// public keys in keys, returning the serialized bundle.
func (h *HybridPQCHandler) EncryptContent(plaintext string, cfg *Config, keys *Keyring) ([]byte, error) {
	if cfg == nil {
		return nil, &EncryptionError{Err: errors.New("no configuration supplied")}
	}
	suite, err := cfg.ActiveSuite()
	if err != nil {
		return nil, err
	}
	if keys == nil {
		return nil, &EncryptionError{Err: ErrKeyManagement}
	}

	data, err := hybrid.Encrypt([]byte(plaintext), suite.hybridSuite(), hybrid.EncryptionKeys{
		ClassicalPublicKey: keys.ClassicalPublicKey,
		PQCPublicKey:       keys.PQCPublicKey,
	})
	if err != nil {
		return nil, wrapCryptoError(err)
	}
	return data, nil
}

// DecryptContent parses and decrypts a serialized bundle using the private
// keys in keys. Every failure, including malformed bundles and size-limit
// violations, surfaces in the ErrDecryptionFailed family.
func (h *HybridPQCHandler) DecryptContent(data []byte, cfg *Config, keys *Keyring) (string, error) {
	if cfg == nil {
		return "", &DecryptionError{Stage: "config", Message: "no configuration supplied"}
	}
	suite, err := cfg.ActiveSuite()
	if err != nil {
		return "", &DecryptionError{Stage: "config", Err: err}
	}
	if keys == nil || !keys.HasPrivateKeys() {
		return "", &DecryptionError{Stage: "keys", Message: "no private key material supplied"}
	}

	plaintext, err := hybrid.Decrypt(data, suite.hybridSuite(), hybrid.DecryptionKeys{
		ClassicalPrivateKey: keys.ClassicalPrivateKey,
		PQCPrivateKey:       keys.PQCPrivateKey,
	}, h.limits)
	if err != nil {
		return "", wrapCryptoError(err)
	}

	if !utf8.Valid(plaintext) {
		return "", &DecryptionError{Stage: "decode", Message: "plaintext is not valid UTF-8"}
	}
	return string(plaintext), nil
}

// BundleInfo is read-only metadata about a parsed bundle.
type BundleInfo struct {
	FormatIdentifier string
	SuiteID          string
	// CiphertextSize is the AEAD ciphertext length in bytes, tag excluded.
	CiphertextSize int
}

// Inspect runs the hardened parser over data with this handler's limits and
// returns bundle metadata without decrypting. Malformed input fails with
// ErrValidation; oversized declared lengths fail with ErrMemoryLimitExceeded.
func (h *HybridPQCHandler) Inspect(data []byte) (*BundleInfo, error) {
	parsed, err := bundle.Parse(data, h.limits)
	if err != nil {
		return nil, wrapParseError(err)
	}
	return &BundleInfo{
		FormatIdentifier: parsed.FormatIdentifier,
		SuiteID:          parsed.SuiteID,
		CiphertextSize:   len(parsed.SymmetricCiphertext),
	}, nil
}

// SniffFormat reads the format identifier from a short peek of file content.
// It returns ok == false, never an error, when the identifier cannot be read.
func SniffFormat(peek []byte) (identifier string, ok bool) {
	return bundle.SniffFormat(peek)
}
