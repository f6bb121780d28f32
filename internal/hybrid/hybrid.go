package hybrid

import (
	"crypto/rand"
	"fmt"
	"hash"
	"io"

	"github.com/cloudflare/circl/kem"

	"github.com/ledgerseal/ledgerseal-go/internal/bundle"
)

// FormatIdentifier is the wire format version tag embedded in every bundle
// this protocol produces. Frozen.
const FormatIdentifier = "FAVA_PQC_HYBRID_V1"

// randReader is the random source used for ephemeral keys and nonces.
// It defaults to nil (which uses crypto/rand) but can be overridden for testing.
var randReader io.Reader

// Suite names the algorithm combination for one encrypt/decrypt call. It is
// always passed in explicitly; there is no ambient active suite.
type Suite struct {
	// ID is the suite identifier embedded in every bundle.
	ID string
	// ClassicalKEM is the classical KEM algorithm name, e.g. "X25519".
	ClassicalKEM string
	// PQCKEM is the post-quantum KEM algorithm name, e.g. "ML-KEM-768".
	PQCKEM string
	// AEAD is the symmetric algorithm name, e.g. "AES256GCM".
	AEAD string
	// KDFHash is the KDF algorithm name used to combine the shared secrets,
	// e.g. "HKDF-SHA3-512".
	KDFHash string
}

// resolvedSuite holds the primitives behind a Suite's algorithm names.
type resolvedSuite struct {
	classical ClassicalKEM
	pqc       kem.Scheme
	aead      AEADCipher
	newHash   func() hash.Hash
}

// resolve validates every algorithm name in the suite and binds the
// primitives. It runs before any cryptographic work.
func (s Suite) resolve() (*resolvedSuite, error) {
	if s.ID == "" {
		return nil, fmt.Errorf("%w: suite has no ID", ErrUnknownAlgorithm)
	}

	classical, err := ResolveClassicalKEM(s.ClassicalKEM)
	if err != nil {
		return nil, err
	}
	pqc, err := ResolvePQCKEM(s.PQCKEM)
	if err != nil {
		return nil, err
	}
	aead, err := ResolveAEAD(s.AEAD)
	if err != nil {
		return nil, err
	}
	newHash, err := ResolveKDFHash(s.KDFHash)
	if err != nil {
		return nil, err
	}

	return &resolvedSuite{classical: classical, pqc: pqc, aead: aead, newHash: newHash}, nil
}

// EncryptionKeys is the public key material for one encrypt call.
type EncryptionKeys struct {
	ClassicalPublicKey []byte
	PQCPublicKey       []byte
}

// DecryptionKeys is the private key material for one decrypt call.
type DecryptionKeys struct {
	ClassicalPrivateKey []byte
	PQCPrivateKey       []byte
}

// Encrypt seals plaintext under the hybrid construction and returns the
// serialized bundle. It touches no filesystem or network resource.
func Encrypt(plaintext []byte, suite Suite, keys EncryptionKeys) ([]byte, error) {
	resolved, err := suite.resolve()
	if err != nil {
		return nil, err
	}

	classicalCiphertext, classicalSecret, err := resolved.classical.Encapsulate(randReader, keys.ClassicalPublicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: classical KEM: %w", ErrEncryptionFailed, err)
	}
	defer Zeroize(classicalSecret)

	pqcPublic, err := resolved.pqc.UnmarshalBinaryPublicKey(keys.PQCPublicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: PQC public key: %w", ErrInvalidKeyMaterial, err)
	}
	pqcCiphertext, pqcSecret, err := resolved.pqc.Encapsulate(pqcPublic)
	if err != nil {
		return nil, fmt.Errorf("%w: PQC KEM: %w", ErrEncryptionFailed, err)
	}
	defer Zeroize(pqcSecret)

	symmetricKey, err := deriveSymmetricKey(resolved.newHash, classicalSecret, pqcSecret, resolved.aead.KeySize())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncryptionFailed, err)
	}
	defer Zeroize(symmetricKey)

	nonce := make([]byte, resolved.aead.NonceSize())
	random := randReader
	if random == nil {
		random = rand.Reader
	}
	if _, err := io.ReadFull(random, nonce); err != nil {
		return nil, fmt.Errorf("%w: generate nonce: %w", ErrEncryptionFailed, err)
	}

	ciphertext, tag, err := resolved.aead.Seal(symmetricKey, nonce, plaintext)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncryptionFailed, err)
	}

	return bundle.Serialize(&bundle.Bundle{
		FormatIdentifier:       FormatIdentifier,
		SuiteID:                suite.ID,
		ClassicalKEMCiphertext: classicalCiphertext,
		PQCKEMCiphertext:       pqcCiphertext,
		SymmetricIV:            nonce,
		SymmetricCiphertext:    ciphertext,
		SymmetricAuthTag:       tag,
	})
}

// Decrypt parses a serialized bundle and reverses the hybrid construction.
// The format and suite checks run before any cryptographic operation so a
// bundle produced under one suite is never fed key material intended for
// another. Every failure wraps ErrDecryptionFailed.
func Decrypt(data []byte, suite Suite, keys DecryptionKeys, limits bundle.Limits) ([]byte, error) {
	resolved, err := suite.resolve()
	if err != nil {
		return nil, err
	}

	parsed, err := bundle.Parse(data, limits)
	if err != nil {
		return nil, fmt.Errorf("%w: parse bundle: %w", ErrDecryptionFailed, err)
	}

	if parsed.FormatIdentifier != FormatIdentifier {
		return nil, fmt.Errorf("%w: unsupported bundle format: %q", ErrDecryptionFailed, parsed.FormatIdentifier)
	}
	if parsed.SuiteID != suite.ID {
		return nil, fmt.Errorf("%w: mismatched suite ID: bundle %q, config %q",
			ErrDecryptionFailed, parsed.SuiteID, suite.ID)
	}

	classicalSecret, err := resolved.classical.Decapsulate(keys.ClassicalPrivateKey, parsed.ClassicalKEMCiphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: classical KEM: %w", ErrDecryptionFailed, err)
	}
	defer Zeroize(classicalSecret)

	pqcPrivate, err := resolved.pqc.UnmarshalBinaryPrivateKey(keys.PQCPrivateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: PQC private key: %w", ErrDecryptionFailed, err)
	}
	pqcSecret, err := resolved.pqc.Decapsulate(pqcPrivate, parsed.PQCKEMCiphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: PQC KEM: %w", ErrDecryptionFailed, err)
	}
	defer Zeroize(pqcSecret)

	symmetricKey, err := deriveSymmetricKey(resolved.newHash, classicalSecret, pqcSecret, resolved.aead.KeySize())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}
	defer Zeroize(symmetricKey)

	plaintext, err := resolved.aead.Open(symmetricKey, parsed.SymmetricIV, parsed.SymmetricCiphertext, parsed.SymmetricAuthTag)
	if err != nil {
		return nil, fmt.Errorf("%w: authenticated decryption failed", ErrDecryptionFailed)
	}

	return plaintext, nil
}
