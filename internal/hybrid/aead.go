package hybrid

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// AESKeySize is the AES-256 key size in bytes.
	AESKeySize = 32
	// AEADNonceSize is the nonce size shared by both supported AEADs.
	AEADNonceSize = 12
	// AEADTagSize is the authentication tag size shared by both supported AEADs.
	AEADTagSize = 16
)

// AEADCipher is the authenticated cipher used for the symmetric layer.
// Ciphertext and tag are kept separate because the bundle format stores them
// in separate fields.
type AEADCipher interface {
	// Name returns the algorithm name as it appears in suite configuration.
	Name() string
	KeySize() int
	NonceSize() int
	TagSize() int
	// Seal encrypts plaintext and returns ciphertext and tag separately.
	Seal(key, nonce, plaintext []byte) (ciphertext, tag []byte, err error)
	// Open authenticates and decrypts. Any tag mismatch is reported as
	// ErrDecryptionFailed with no further detail.
	Open(key, nonce, ciphertext, tag []byte) ([]byte, error)
}

// stdAEAD adapts a cipher.AEAD constructor to the split ciphertext/tag shape.
type stdAEAD struct {
	name    string
	keySize int
	newAEAD func(key []byte) (cipher.AEAD, error)
}

func (a *stdAEAD) Name() string   { return a.name }
func (a *stdAEAD) KeySize() int   { return a.keySize }
func (a *stdAEAD) NonceSize() int { return AEADNonceSize }
func (a *stdAEAD) TagSize() int   { return AEADTagSize }

func (a *stdAEAD) Seal(key, nonce, plaintext []byte) ([]byte, []byte, error) {
	aead, err := a.open(key, nonce)
	if err != nil {
		return nil, nil, err
	}

	sealed := aead.Seal(nil, nonce, plaintext, nil)
	split := len(sealed) - aead.Overhead()
	return sealed[:split], sealed[split:], nil
}

func (a *stdAEAD) Open(key, nonce, ciphertext, tag []byte) ([]byte, error) {
	aead, err := a.open(key, nonce)
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		// Deliberately constant: wrong key and tampered ciphertext are not
		// distinguishable beyond what the AEAD itself leaks.
		return nil, fmt.Errorf("%w: authenticated decryption failed", ErrDecryptionFailed)
	}
	return plaintext, nil
}

func (a *stdAEAD) open(key, nonce []byte) (cipher.AEAD, error) {
	if len(key) != a.keySize {
		return nil, fmt.Errorf("%w: %s key is %d bytes, want %d",
			ErrInvalidKeyMaterial, a.name, len(key), a.keySize)
	}

	aead, err := a.newAEAD(key)
	if err != nil {
		return nil, fmt.Errorf("init %s: %w", a.name, err)
	}
	if len(nonce) != aead.NonceSize() {
		return nil, fmt.Errorf("%w: %s nonce is %d bytes, want %d",
			ErrDecryptionFailed, a.name, len(nonce), aead.NonceSize())
	}
	return aead, nil
}

func newAESGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// ResolveAEAD maps a symmetric algorithm name from suite configuration to
// its implementation.
func ResolveAEAD(name string) (AEADCipher, error) {
	switch name {
	case "AES256GCM":
		return &stdAEAD{name: name, keySize: AESKeySize, newAEAD: newAESGCM}, nil
	case "CHACHA20POLY1305":
		return &stdAEAD{name: name, keySize: chacha20poly1305.KeySize, newAEAD: chacha20poly1305.New}, nil
	default:
		return nil, fmt.Errorf("%w: AEAD %q", ErrUnknownAlgorithm, name)
	}
}
