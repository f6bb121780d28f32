package bundle

import "bytes"

// Bundle is the in-memory form of one encrypted artifact. All byte fields may
// be empty; the two identifier strings are non-empty in any meaningful bundle.
type Bundle struct {
	// FormatIdentifier tags the wire format version, e.g. "FAVA_PQC_HYBRID_V1".
	FormatIdentifier string
	// SuiteID names the exact algorithm combination the bundle was produced
	// under. Decryption refuses bundles whose suite does not match the
	// caller's configured suite.
	SuiteID string
	// ClassicalKEMCiphertext carries the classical KEM encapsulation artifact.
	// For X25519 suites this is the sender's ephemeral public key.
	ClassicalKEMCiphertext []byte
	// PQCKEMCiphertext is the post-quantum KEM encapsulation output.
	PQCKEMCiphertext []byte
	// SymmetricIV is the AEAD nonce.
	SymmetricIV []byte
	// SymmetricCiphertext is the AEAD ciphertext without the tag.
	SymmetricCiphertext []byte
	// SymmetricAuthTag is the AEAD authentication tag.
	SymmetricAuthTag []byte
}

// Equal reports whether two bundles have identical field values.
func (b *Bundle) Equal(other *Bundle) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.FormatIdentifier == other.FormatIdentifier &&
		b.SuiteID == other.SuiteID &&
		bytes.Equal(b.ClassicalKEMCiphertext, other.ClassicalKEMCiphertext) &&
		bytes.Equal(b.PQCKEMCiphertext, other.PQCKEMCiphertext) &&
		bytes.Equal(b.SymmetricIV, other.SymmetricIV) &&
		bytes.Equal(b.SymmetricCiphertext, other.SymmetricCiphertext) &&
		bytes.Equal(b.SymmetricAuthTag, other.SymmetricAuthTag)
}
