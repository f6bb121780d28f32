package ledgerseal

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/ledgerseal/ledgerseal-go/internal/hybrid"
	"github.com/ledgerseal/ledgerseal-go/internal/keyderive"
)

// MinSaltSize is the smallest salt accepted for passphrase derivation.
const MinSaltSize = keyderive.MinSaltSize

// SaltSize is the salt length the salt-generation collaborator should produce.
const SaltSize = 32

// Keyring holds the hybrid key material for one context. It is transient and
// operation-scoped: callers own it for the duration of one encrypt or decrypt
// call and wipe it with Zeroize immediately after use. It is never persisted
// by this module.
type Keyring struct {
	ClassicalPublicKey  []byte
	ClassicalPrivateKey []byte
	PQCPublicKey        []byte
	PQCPrivateKey       []byte
}

// Zeroize wipes the private halves of the keyring.
func (k *Keyring) Zeroize() {
	if k == nil {
		return
	}
	hybrid.Zeroize(k.ClassicalPrivateKey, k.PQCPrivateKey)
}

// HasPrivateKeys reports whether the keyring carries private key material.
func (k *Keyring) HasPrivateKeys() bool {
	return k != nil && len(k.ClassicalPrivateKey) > 0 && len(k.PQCPrivateKey) > 0
}

func keyringFromKeySet(keys *keyderive.KeySet) *Keyring {
	return &Keyring{
		ClassicalPublicKey:  keys.ClassicalPublicKey,
		ClassicalPrivateKey: keys.ClassicalPrivateKey,
		PQCPublicKey:        keys.PQCPublicKey,
		PQCPrivateKey:       keys.PQCPrivateKey,
	}
}

// DeriveKeyring derives the full hybrid keyring deterministically from a
// passphrase and salt under the given suite. Identical inputs always
// reproduce the same keyring; different salts produce unrelated keyrings.
// Algorithm names are validated before the passphrase is touched; unknown
// names fail with ErrUnsupportedAlgorithm.
func DeriveKeyring(passphrase string, salt []byte, suite SuiteConfig) (*Keyring, error) {
	keys, err := keyderive.FromPassphrase(passphrase, salt, suite.deriveParams())
	if err != nil {
		return nil, wrapKeyDeriveError(err)
	}
	return keyringFromKeySet(keys), nil
}

// LoadKeyringFromFiles reconstructs the keyring from the raw private key
// files named in cfg.PQCKeyFilePaths. Missing or malformed files fail with
// ErrKeyManagement, never a bare OS error.
func LoadKeyringFromFiles(cfg *Config, suite SuiteConfig) (*Keyring, error) {
	paths := keyderive.KeyFilePaths{
		ClassicalPrivate: cfg.PQCKeyFilePaths[KeyPathClassicalPrivate],
		PQCPrivate:       cfg.PQCKeyFilePaths[KeyPathPQCPrivate],
	}
	keys, err := keyderive.FromFiles(paths, suite.ClassicalKEMAlgorithm, suite.PQCKEMAlgorithm)
	if err != nil {
		return nil, wrapKeyDeriveError(err)
	}
	return keyringFromKeySet(keys), nil
}

// GenerateKeyring creates a fresh random keyring for the suite.
func GenerateKeyring(suite SuiteConfig) (*Keyring, error) {
	classical, err := hybrid.ResolveClassicalKEM(suite.ClassicalKEMAlgorithm)
	if err != nil {
		return nil, wrapCryptoError(err)
	}
	pqc, err := hybrid.ResolvePQCKEM(suite.PQCKEMAlgorithm)
	if err != nil {
		return nil, wrapCryptoError(err)
	}

	seed := make([]byte, classical.SeedSize())
	if _, err := io.ReadFull(rand.Reader, seed); err != nil {
		return nil, &KeyManagementError{Message: "generate classical seed", Err: err}
	}
	defer hybrid.Zeroize(seed)

	classicalPublic, classicalPrivate, err := classical.DeriveKeyPair(seed)
	if err != nil {
		return nil, &KeyManagementError{Message: "generate classical keypair", Err: err}
	}

	pqcPublic, pqcPrivate, err := pqc.GenerateKeyPair()
	if err != nil {
		return nil, &KeyManagementError{Message: "generate PQC keypair", Err: err}
	}
	pqcPublicBytes, err := pqcPublic.MarshalBinary()
	if err != nil {
		return nil, &KeyManagementError{Message: "marshal PQC public key", Err: err}
	}
	pqcPrivateBytes, err := pqcPrivate.MarshalBinary()
	if err != nil {
		return nil, &KeyManagementError{Message: "marshal PQC private key", Err: err}
	}

	return &Keyring{
		ClassicalPublicKey:  classicalPublic,
		ClassicalPrivateKey: classicalPrivate,
		PQCPublicKey:        pqcPublicBytes,
		PQCPrivateKey:       pqcPrivateBytes,
	}, nil
}

// KeyringForConfig builds the keyring according to the configured key
// management mode. passphrase and salt are only consulted in
// PASSPHRASE_DERIVED mode.
func KeyringForConfig(cfg *Config, suite SuiteConfig, passphrase string, salt []byte) (*Keyring, error) {
	switch cfg.PQCKeyManagementMode {
	case KeyManagementPassphrase:
		return DeriveKeyring(passphrase, salt, suite)
	case KeyManagementExternalFile:
		return LoadKeyringFromFiles(cfg, suite)
	default:
		return nil, &KeyManagementError{
			Message: fmt.Sprintf("unknown key management mode %q", cfg.PQCKeyManagementMode),
		}
	}
}

func wrapKeyDeriveError(err error) error {
	wrapped := wrapCryptoError(err)
	if _, ok := wrapped.(LedgerSealError); ok {
		return wrapped
	}
	return &KeyManagementError{Message: "key derivation", Err: err}
}
