package ledgerseal

import (
	"errors"
	"fmt"

	"github.com/ledgerseal/ledgerseal-go/internal/bundle"
	"github.com/ledgerseal/ledgerseal-go/internal/hybrid"
	"github.com/ledgerseal/ledgerseal-go/internal/keyderive"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrValidation is returned when bundle bytes are malformed or truncated.
	ErrValidation = errors.New("invalid bundle data")

	// ErrMemoryLimitExceeded is returned when a declared field or total size
	// exceeds the configured bound. It is a sibling of ErrValidation: every
	// memory-limit error also matches ErrValidation.
	ErrMemoryLimitExceeded = errors.New("declared size exceeds memory limit")

	// ErrUnsupportedAlgorithm is returned when an unknown algorithm
	// identifier is supplied, before any cryptographic work is done.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

	// ErrDecryptionFailed is returned for any failure on the decrypt path.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrEncryptionFailed is returned for any failure on the encrypt path.
	ErrEncryptionFailed = errors.New("encryption failed")

	// ErrKeyManagement is returned for missing or invalid external key
	// files and missing export material.
	ErrKeyManagement = errors.New("key management failure")

	// ErrGPGToolNotFound is returned when the external gpg executable is not
	// on the PATH.
	ErrGPGToolNotFound = errors.New("gpg executable not found")

	// ErrNoSuite is returned when the configured active suite is not
	// registered in the configuration.
	ErrNoSuite = errors.New("active suite not configured")
)

// LedgerSealError is implemented by all errors this package returns.
type LedgerSealError interface {
	error
	LedgerSealError() // marker method
}

// ValidationError reports malformed or truncated bundle bytes.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("validation failed: %v", e.Err)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error { return e.Err }

// Is implements errors.Is for sentinel error matching.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// LedgerSealError implements the LedgerSealError interface.
func (e *ValidationError) LedgerSealError() {}

// MemoryLimitExceededError reports a declared size that exceeds the
// configured per-field or total bound. The violation is detected before any
// allocation is attempted.
type MemoryLimitExceededError struct {
	// Field names the offending field, or "" when the total limit tripped.
	Field string
	// Declared is the size the input claimed.
	Declared uint64
	// Limit is the configured maximum that was exceeded.
	Limit uint64
}

func (e *MemoryLimitExceededError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("declared total size %d exceeds limit %d", e.Declared, e.Limit)
	}
	return fmt.Sprintf("declared size %d of field %s exceeds limit %d", e.Declared, e.Field, e.Limit)
}

// Is implements errors.Is for sentinel error matching. Memory-limit errors
// also match ErrValidation.
func (e *MemoryLimitExceededError) Is(target error) bool {
	return target == ErrMemoryLimitExceeded || target == ErrValidation
}

// LedgerSealError implements the LedgerSealError interface.
func (e *MemoryLimitExceededError) LedgerSealError() {}

// UnsupportedAlgorithmError reports an unrecognized algorithm identifier.
type UnsupportedAlgorithmError struct {
	Err error
}

func (e *UnsupportedAlgorithmError) Error() string {
	return fmt.Sprintf("unsupported algorithm: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *UnsupportedAlgorithmError) Unwrap() error { return e.Err }

// Is implements errors.Is for sentinel error matching.
func (e *UnsupportedAlgorithmError) Is(target error) bool { return target == ErrUnsupportedAlgorithm }

// LedgerSealError implements the LedgerSealError interface.
func (e *UnsupportedAlgorithmError) LedgerSealError() {}

// DecryptionError reports a failure on the decrypt path: a malformed bundle,
// a format or suite mismatch, a KEM or AEAD failure, or a GPG subprocess
// failure. The message never contains plaintext, key bytes, or passphrases.
type DecryptionError struct {
	// Stage is the failing stage: "parse", "hybrid", "gpg", "decode".
	Stage   string
	Message string
	Err     error
}

func (e *DecryptionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decryption failed at %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("decryption failed at %s: %s", e.Stage, e.Message)
}

// Unwrap returns the underlying error.
func (e *DecryptionError) Unwrap() error { return e.Err }

// Is implements errors.Is for sentinel error matching.
func (e *DecryptionError) Is(target error) bool { return target == ErrDecryptionFailed }

// LedgerSealError implements the LedgerSealError interface.
func (e *DecryptionError) LedgerSealError() {}

// EncryptionError reports a failure on the encrypt path.
type EncryptionError struct {
	Err error
}

func (e *EncryptionError) Error() string {
	return fmt.Sprintf("encryption failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *EncryptionError) Unwrap() error { return e.Err }

// Is implements errors.Is for sentinel error matching.
func (e *EncryptionError) Is(target error) bool { return target == ErrEncryptionFailed }

// LedgerSealError implements the LedgerSealError interface.
func (e *EncryptionError) LedgerSealError() {}

// KeyManagementError reports missing or invalid key material outside the
// encrypt/decrypt transforms themselves: unreadable key files, malformed key
// bytes, or export targets with nothing to export.
type KeyManagementError struct {
	Message string
	Err     error
}

func (e *KeyManagementError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("key management failure: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("key management failure: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *KeyManagementError) Unwrap() error { return e.Err }

// Is implements errors.Is for sentinel error matching.
func (e *KeyManagementError) Is(target error) bool { return target == ErrKeyManagement }

// LedgerSealError implements the LedgerSealError interface.
func (e *KeyManagementError) LedgerSealError() {}

// GPGToolNotFoundError reports a missing gpg executable, distinct from a gpg
// run that failed.
type GPGToolNotFoundError struct {
	Err error
}

func (e *GPGToolNotFoundError) Error() string {
	return fmt.Sprintf("gpg executable not found: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *GPGToolNotFoundError) Unwrap() error { return e.Err }

// Is implements errors.Is for sentinel error matching.
func (e *GPGToolNotFoundError) Is(target error) bool { return target == ErrGPGToolNotFound }

// LedgerSealError implements the LedgerSealError interface.
func (e *GPGToolNotFoundError) LedgerSealError() {}

// wrapParseError converts internal codec errors to public errors so that
// errors.Is() checks work with public sentinel errors.
func wrapParseError(err error) error {
	if err == nil {
		return nil
	}

	var limitErr *bundle.LimitError
	if errors.As(err, &limitErr) {
		return &MemoryLimitExceededError{
			Field:    limitErr.Field,
			Declared: limitErr.Declared,
			Limit:    limitErr.Limit,
		}
	}
	return &ValidationError{Err: err}
}

// wrapCryptoError converts internal protocol and key-derivation errors to
// public errors.
func wrapCryptoError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, hybrid.ErrUnknownAlgorithm),
		errors.Is(err, keyderive.ErrUnsupportedAlgorithm):
		return &UnsupportedAlgorithmError{Err: err}
	case errors.Is(err, keyderive.ErrKeyManagement):
		return &KeyManagementError{Message: "external key material", Err: err}
	case errors.Is(err, hybrid.ErrDecryptionFailed):
		return &DecryptionError{Stage: "hybrid", Err: err}
	case errors.Is(err, hybrid.ErrEncryptionFailed),
		errors.Is(err, hybrid.ErrInvalidKeyMaterial):
		return &EncryptionError{Err: err}
	default:
		return err
	}
}
