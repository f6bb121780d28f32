package keyderive

import (
	"fmt"

	"golang.org/x/crypto/argon2"

	"github.com/ledgerseal/ledgerseal-go/internal/hybrid"
)

const (
	// MinSaltSize is the smallest salt accepted for passphrase derivation.
	MinSaltSize = 16

	// ikmSize is the Argon2id output length stretched from the passphrase.
	ikmSize = 64

	classicalSeedInfo = "LEDGERSEAL-CLASSICAL-SEED-V1:"
	pqcSeedInfo       = "LEDGERSEAL-PQC-SEED-V1:"
)

// Argon2Params are the tunable cost parameters for Argon2id.
type Argon2Params struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
}

// DefaultArgon2Params returns the cost parameters used when a suite does not
// override them (RFC 9106 second recommended option).
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{Time: 3, MemoryKiB: 64 * 1024, Threads: 4}
}

// Params names the algorithms for one passphrase derivation. Every name is
// validated before the passphrase is touched.
type Params struct {
	// SuiteID is mixed into the HKDF info strings so seeds derived for one
	// suite are useless for another.
	SuiteID string
	// PBKDF is the password-based KDF name. Only "ARGON2ID" is recognized.
	PBKDF string
	// KDFForIKM is the KDF used to split the IKM into the two keypair seeds,
	// e.g. "HKDF-SHA3-512".
	KDFForIKM string
	// ClassicalKEM is the classical KEM name, e.g. "X25519".
	ClassicalKEM string
	// PQCKEM is the PQC KEM name, e.g. "ML-KEM-768".
	PQCKEM string
	// Argon2 is the Argon2id cost configuration. Zero values select defaults.
	Argon2 Argon2Params
}

// KeySet is the transient keypair material for one context. Callers own it
// for the duration of a single operation and wipe it afterwards.
type KeySet struct {
	ClassicalPublicKey  []byte
	ClassicalPrivateKey []byte
	PQCPublicKey        []byte
	PQCPrivateKey       []byte
}

// Zeroize wipes the private halves of the key set.
func (k *KeySet) Zeroize() {
	if k == nil {
		return
	}
	hybrid.Zeroize(k.ClassicalPrivateKey, k.PQCPrivateKey)
}

// FromPassphrase derives the full hybrid keypair set deterministically from a
// passphrase and salt. Identical inputs always reproduce identical keypairs.
func FromPassphrase(passphrase string, salt []byte, params Params) (*KeySet, error) {
	if params.PBKDF != "ARGON2ID" {
		return nil, fmt.Errorf("%w: PBKDF %q", ErrUnsupportedAlgorithm, params.PBKDF)
	}
	newHash, err := hybrid.ResolveKDFHash(params.KDFForIKM)
	if err != nil {
		return nil, fmt.Errorf("%w: KDF for IKM %q", ErrUnsupportedAlgorithm, params.KDFForIKM)
	}
	classical, err := hybrid.ResolveClassicalKEM(params.ClassicalKEM)
	if err != nil {
		return nil, fmt.Errorf("%w: classical KEM %q", ErrUnsupportedAlgorithm, params.ClassicalKEM)
	}
	pqc, err := hybrid.ResolvePQCKEM(params.PQCKEM)
	if err != nil {
		return nil, fmt.Errorf("%w: PQC KEM %q", ErrUnsupportedAlgorithm, params.PQCKEM)
	}

	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}
	if len(salt) < MinSaltSize {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrWeakSalt, len(salt), MinSaltSize)
	}

	costs := params.Argon2
	if costs.Time == 0 || costs.MemoryKiB == 0 || costs.Threads == 0 {
		costs = DefaultArgon2Params()
	}

	ikm := argon2.IDKey([]byte(passphrase), salt, costs.Time, costs.MemoryKiB, costs.Threads, ikmSize)
	defer hybrid.Zeroize(ikm)

	classicalSeed, err := hybrid.DeriveKey(newHash, ikm, nil,
		[]byte(classicalSeedInfo+params.SuiteID), classical.SeedSize())
	if err != nil {
		return nil, fmt.Errorf("derive classical seed: %w", err)
	}
	defer hybrid.Zeroize(classicalSeed)

	pqcSeed, err := hybrid.DeriveKey(newHash, ikm, nil,
		[]byte(pqcSeedInfo+params.SuiteID), pqc.SeedSize())
	if err != nil {
		return nil, fmt.Errorf("derive PQC seed: %w", err)
	}
	defer hybrid.Zeroize(pqcSeed)

	classicalPublic, classicalPrivate, err := classical.DeriveKeyPair(classicalSeed)
	if err != nil {
		return nil, fmt.Errorf("build classical keypair: %w", err)
	}

	pqcPublic, pqcPrivate := pqc.DeriveKeyPair(pqcSeed)
	pqcPublicBytes, err := pqcPublic.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshal PQC public key: %w", err)
	}
	pqcPrivateBytes, err := pqcPrivate.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshal PQC private key: %w", err)
	}

	return &KeySet{
		ClassicalPublicKey:  classicalPublic,
		ClassicalPrivateKey: classicalPrivate,
		PQCPublicKey:        pqcPublicBytes,
		PQCPrivateKey:       pqcPrivateBytes,
	}, nil
}
