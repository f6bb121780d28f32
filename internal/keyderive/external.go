package keyderive

import (
	"fmt"
	"os"

	"github.com/ledgerseal/ledgerseal-go/internal/hybrid"
)

// KeyFilePaths locates externally managed raw private key files.
type KeyFilePaths struct {
	// ClassicalPrivate is the path to the raw classical private key bytes.
	ClassicalPrivate string
	// PQCPrivate is the path to the raw PQC private key bytes.
	PQCPrivate string
}

// FromFiles reconstructs the full hybrid keypair set from externally stored
// raw private key files. OS-level failures and malformed key bytes surface as
// ErrKeyManagement, never as bare platform errors.
func FromFiles(paths KeyFilePaths, classicalKEM, pqcKEM string) (*KeySet, error) {
	classical, err := hybrid.ResolveClassicalKEM(classicalKEM)
	if err != nil {
		return nil, fmt.Errorf("%w: classical KEM %q", ErrUnsupportedAlgorithm, classicalKEM)
	}
	pqc, err := hybrid.ResolvePQCKEM(pqcKEM)
	if err != nil {
		return nil, fmt.Errorf("%w: PQC KEM %q", ErrUnsupportedAlgorithm, pqcKEM)
	}

	if paths.ClassicalPrivate == "" || paths.PQCPrivate == "" {
		return nil, fmt.Errorf("%w: key file paths not configured", ErrKeyManagement)
	}

	classicalPrivate, err := os.ReadFile(paths.ClassicalPrivate)
	if err != nil {
		return nil, fmt.Errorf("%w: read classical key file: %v", ErrKeyManagement, err)
	}
	pqcPrivate, err := os.ReadFile(paths.PQCPrivate)
	if err != nil {
		return nil, fmt.Errorf("%w: read PQC key file: %v", ErrKeyManagement, err)
	}

	// The classical private key doubles as the keypair seed.
	classicalPublic, classicalPrivate, err := classical.DeriveKeyPair(classicalPrivate)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed classical private key: %v", ErrKeyManagement, err)
	}

	sk, err := pqc.UnmarshalBinaryPrivateKey(pqcPrivate)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed PQC private key: %v", ErrKeyManagement, err)
	}
	pqcPublic, err := sk.Public().MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("%w: derive PQC public key: %v", ErrKeyManagement, err)
	}

	return &KeySet{
		ClassicalPublicKey:  classicalPublic,
		ClassicalPrivateKey: classicalPrivate,
		PQCPublicKey:        pqcPublic,
		PQCPrivateKey:       pqcPrivate,
	}, nil
}
