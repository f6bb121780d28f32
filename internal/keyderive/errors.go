package keyderive

import "errors"

var (
	// ErrUnsupportedAlgorithm is returned when an algorithm name is not on
	// the allow-list. It is raised before any key derivation work.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

	// ErrKeyManagement wraps failures to load or reconstruct key material
	// from external files.
	ErrKeyManagement = errors.New("key management failure")

	// ErrWeakSalt is returned when the supplied salt is too short to be safe
	// for passphrase derivation.
	ErrWeakSalt = errors.New("salt too short")

	// ErrEmptyPassphrase is returned when an empty passphrase is supplied.
	ErrEmptyPassphrase = errors.New("empty passphrase")
)
