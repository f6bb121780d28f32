package hybrid

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/sha3"
)

// hybridKeyInfo is the HKDF domain-separation string for deriving the AEAD
// key from the combined KEM shared secrets. Frozen: changing it invalidates
// every previously produced bundle.
const hybridKeyInfo = "LEDGERSEAL-HYBRID-KEY-V1"

// ResolveKDFHash maps a KDF algorithm name from suite configuration to the
// hash constructor used with HKDF.
func ResolveKDFHash(name string) (func() hash.Hash, error) {
	switch name {
	case "HKDF-SHA256":
		return sha256.New, nil
	case "HKDF-SHA512":
		return sha512.New, nil
	case "HKDF-SHA3-512":
		return sha3.New512, nil
	default:
		return nil, fmt.Errorf("%w: KDF %q", ErrUnknownAlgorithm, name)
	}
}

// DeriveKey expands secret into length bytes of key material via HKDF.
// A nil salt selects the RFC 5869 zero salt.
func DeriveKey(newHash func() hash.Hash, secret, salt, info []byte, length int) ([]byte, error) {
	reader := hkdf.New(newHash, secret, salt, info)
	key := make([]byte, length)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}

// deriveSymmetricKey turns the two KEM shared secrets into the AEAD key.
// Concatenation order is classical first; the order is part of the suite
// contract shared by encrypt and decrypt.
func deriveSymmetricKey(newHash func() hash.Hash, classicalSecret, pqcSecret []byte, keySize int) ([]byte, error) {
	combined := make([]byte, 0, len(classicalSecret)+len(pqcSecret))
	combined = append(combined, classicalSecret...)
	combined = append(combined, pqcSecret...)
	defer Zeroize(combined)

	return DeriveKey(newHash, combined, nil, []byte(hybridKeyInfo), keySize)
}
