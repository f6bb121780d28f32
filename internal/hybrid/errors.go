package hybrid

import "errors"

var (
	// ErrUnknownAlgorithm is returned when a suite names an algorithm this
	// package does not implement. It is raised before any cryptographic work.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")

	// ErrDecryptionFailed wraps every failure on the decrypt path.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrEncryptionFailed wraps every failure on the encrypt path.
	ErrEncryptionFailed = errors.New("encryption failed")

	// ErrInvalidKeyMaterial is returned when supplied key bytes have the
	// wrong size or cannot be unmarshaled for the suite's KEM.
	ErrInvalidKeyMaterial = errors.New("invalid key material")
)
