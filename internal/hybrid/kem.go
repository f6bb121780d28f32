package hybrid

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/cloudflare/circl/kem"
	"github.com/cloudflare/circl/kem/schemes"
	"golang.org/x/crypto/curve25519"
)

// X25519KeySize is the size of X25519 public keys, private keys, and shared
// secrets in bytes.
const X25519KeySize = 32

// ClassicalKEM is the classical half of the hybrid construction. The
// ciphertext of an ephemeral-ECDH instantiation is the ephemeral public key.
type ClassicalKEM interface {
	// Name returns the algorithm name as it appears in suite configuration.
	Name() string
	// Encapsulate generates an ephemeral keypair, performs the key agreement
	// against recipientPublic, and returns the encapsulation artifact together
	// with the shared secret.
	Encapsulate(random io.Reader, recipientPublic []byte) (ciphertext, sharedSecret []byte, err error)
	// Decapsulate recovers the shared secret from the encapsulation artifact.
	Decapsulate(privateKey, ciphertext []byte) (sharedSecret []byte, err error)
	// DeriveKeyPair builds a keypair deterministically from seed bytes.
	DeriveKeyPair(seed []byte) (publicKey, privateKey []byte, err error)
	// SeedSize is the seed length DeriveKeyPair expects.
	SeedSize() int
	// PublicKeySize is the serialized public key length.
	PublicKeySize() int
}

// x25519KEM implements ClassicalKEM over Curve25519 ECDH.
type x25519KEM struct{}

func (x25519KEM) Name() string { return "X25519" }

func (x25519KEM) SeedSize() int { return X25519KeySize }

func (x25519KEM) PublicKeySize() int { return X25519KeySize }

func (x25519KEM) Encapsulate(random io.Reader, recipientPublic []byte) ([]byte, []byte, error) {
	if len(recipientPublic) != X25519KeySize {
		return nil, nil, fmt.Errorf("%w: X25519 public key is %d bytes, want %d",
			ErrInvalidKeyMaterial, len(recipientPublic), X25519KeySize)
	}
	if random == nil {
		random = rand.Reader
	}

	ephemeralPrivate := make([]byte, X25519KeySize)
	if _, err := io.ReadFull(random, ephemeralPrivate); err != nil {
		return nil, nil, fmt.Errorf("generate ephemeral key: %w", err)
	}
	defer Zeroize(ephemeralPrivate)

	ephemeralPublic, err := curve25519.X25519(ephemeralPrivate, curve25519.Basepoint)
	if err != nil {
		return nil, nil, fmt.Errorf("derive ephemeral public key: %w", err)
	}

	sharedSecret, err := curve25519.X25519(ephemeralPrivate, recipientPublic)
	if err != nil {
		return nil, nil, fmt.Errorf("X25519 key agreement: %w", err)
	}

	return ephemeralPublic, sharedSecret, nil
}

func (x25519KEM) Decapsulate(privateKey, ciphertext []byte) ([]byte, error) {
	if len(privateKey) != X25519KeySize {
		return nil, fmt.Errorf("%w: X25519 private key is %d bytes, want %d",
			ErrInvalidKeyMaterial, len(privateKey), X25519KeySize)
	}
	if len(ciphertext) != X25519KeySize {
		return nil, fmt.Errorf("%w: X25519 ephemeral public key is %d bytes, want %d",
			ErrInvalidKeyMaterial, len(ciphertext), X25519KeySize)
	}

	sharedSecret, err := curve25519.X25519(privateKey, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("X25519 key agreement: %w", err)
	}
	return sharedSecret, nil
}

func (x25519KEM) DeriveKeyPair(seed []byte) ([]byte, []byte, error) {
	if len(seed) != X25519KeySize {
		return nil, nil, fmt.Errorf("%w: X25519 seed is %d bytes, want %d",
			ErrInvalidKeyMaterial, len(seed), X25519KeySize)
	}

	privateKey := append([]byte(nil), seed...)
	publicKey, err := curve25519.X25519(privateKey, curve25519.Basepoint)
	if err != nil {
		return nil, nil, fmt.Errorf("derive public key: %w", err)
	}
	return publicKey, privateKey, nil
}

// ResolveClassicalKEM maps a classical KEM algorithm name from suite
// configuration to its implementation.
func ResolveClassicalKEM(name string) (ClassicalKEM, error) {
	switch name {
	case "X25519":
		return x25519KEM{}, nil
	default:
		return nil, fmt.Errorf("%w: classical KEM %q", ErrUnknownAlgorithm, name)
	}
}

// ResolvePQCKEM maps a post-quantum KEM algorithm name to a circl scheme.
func ResolvePQCKEM(name string) (kem.Scheme, error) {
	scheme := schemes.ByName(name)
	if scheme == nil {
		return nil, fmt.Errorf("%w: PQC KEM %q", ErrUnknownAlgorithm, name)
	}
	return scheme, nil
}
