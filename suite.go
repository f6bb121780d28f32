package ledgerseal

import (
	"github.com/ledgerseal/ledgerseal-go/internal/hybrid"
	"github.com/ledgerseal/ledgerseal-go/internal/keyderive"
)

// FormatIdentifier is the wire format version tag embedded in every bundle
// this module produces.
const FormatIdentifier = hybrid.FormatIdentifier

// Well-known suite identifiers.
const (
	// SuiteX25519Kyber768AES256GCM is the default suite: X25519 + ML-KEM-768
	// + AES-256-GCM + HKDF-SHA3-512.
	SuiteX25519Kyber768AES256GCM = "X25519_KYBER768_AES256GCM"

	// SuiteX25519MLKEM1024ChaCha20 is the high-margin suite: X25519 +
	// ML-KEM-1024 + ChaCha20-Poly1305 + HKDF-SHA512.
	SuiteX25519MLKEM1024ChaCha20 = "X25519_MLKEM1024_CHACHA20POLY1305"
)

// Argon2Params are the tunable Argon2id cost parameters for passphrase-based
// key derivation. Zero values select the package defaults.
type Argon2Params struct {
	Time      uint32 `yaml:"time"`
	MemoryKiB uint32 `yaml:"memory-kib"`
	Threads   uint8  `yaml:"threads"`
}

// SuiteConfig names the exact algorithm combination for encryption at rest.
// One suite is active at a time per ledger configuration; the suite identity
// is embedded in every bundle to prevent silent cross-suite decryption.
// Suites are immutable values: every encrypt and decrypt call takes its suite
// as an explicit argument, never from ambient state.
type SuiteConfig struct {
	// ID is the suite identifier embedded in bundles, e.g.
	// "X25519_KYBER768_AES256GCM".
	ID string `yaml:"id"`
	// ClassicalKEMAlgorithm is the classical KEM name, e.g. "X25519".
	ClassicalKEMAlgorithm string `yaml:"classical-kem-algorithm"`
	// PQCKEMAlgorithm is the post-quantum KEM name, e.g. "ML-KEM-768".
	PQCKEMAlgorithm string `yaml:"pqc-kem-algorithm"`
	// SymmetricAlgorithm is the AEAD name, e.g. "AES256GCM".
	SymmetricAlgorithm string `yaml:"symmetric-algorithm"`
	// KDFAlgorithmForHybridSK combines the two KEM shared secrets into the
	// AEAD key, e.g. "HKDF-SHA3-512".
	KDFAlgorithmForHybridSK string `yaml:"kdf-algorithm-for-hybrid-sk"`
	// PBKDFAlgorithm stretches passphrases into keying material. Only
	// "ARGON2ID" is recognized.
	PBKDFAlgorithm string `yaml:"pbkdf-algorithm"`
	// KDFAlgorithmForIKM splits the stretched passphrase output into the two
	// keypair seeds, e.g. "HKDF-SHA3-512".
	KDFAlgorithmForIKM string `yaml:"kdf-algorithm-for-ikm"`
	// Argon2 tunes the passphrase KDF cost.
	Argon2 Argon2Params `yaml:"argon2"`
}

// DefaultSuites returns the built-in suite registry.
func DefaultSuites() map[string]SuiteConfig {
	return map[string]SuiteConfig{
		SuiteX25519Kyber768AES256GCM: {
			ID:                      SuiteX25519Kyber768AES256GCM,
			ClassicalKEMAlgorithm:   "X25519",
			PQCKEMAlgorithm:         "ML-KEM-768",
			SymmetricAlgorithm:      "AES256GCM",
			KDFAlgorithmForHybridSK: "HKDF-SHA3-512",
			PBKDFAlgorithm:          "ARGON2ID",
			KDFAlgorithmForIKM:      "HKDF-SHA3-512",
		},
		SuiteX25519MLKEM1024ChaCha20: {
			ID:                      SuiteX25519MLKEM1024ChaCha20,
			ClassicalKEMAlgorithm:   "X25519",
			PQCKEMAlgorithm:         "ML-KEM-1024",
			SymmetricAlgorithm:      "CHACHA20POLY1305",
			KDFAlgorithmForHybridSK: "HKDF-SHA512",
			PBKDFAlgorithm:          "ARGON2ID",
			KDFAlgorithmForIKM:      "HKDF-SHA512",
		},
	}
}

// hybridSuite converts the configuration record into the protocol's suite value.
func (s SuiteConfig) hybridSuite() hybrid.Suite {
	return hybrid.Suite{
		ID:           s.ID,
		ClassicalKEM: s.ClassicalKEMAlgorithm,
		PQCKEM:       s.PQCKEMAlgorithm,
		AEAD:         s.SymmetricAlgorithm,
		KDFHash:      s.KDFAlgorithmForHybridSK,
	}
}

// deriveParams converts the configuration record into key-derivation parameters.
func (s SuiteConfig) deriveParams() keyderive.Params {
	return keyderive.Params{
		SuiteID:      s.ID,
		PBKDF:        s.PBKDFAlgorithm,
		KDFForIKM:    s.KDFAlgorithmForIKM,
		ClassicalKEM: s.ClassicalKEMAlgorithm,
		PQCKEM:       s.PQCKEMAlgorithm,
		Argon2: keyderive.Argon2Params{
			Time:      s.Argon2.Time,
			MemoryKiB: s.Argon2.MemoryKiB,
			Threads:   s.Argon2.Threads,
		},
	}
}
