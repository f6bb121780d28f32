package ledgerseal

// PeekSize is the number of leading file bytes handler probes expect. Callers
// pass up to this many bytes of content, or nil when none are available.
const PeekSize = 128

// Handler owns one encrypted file format. Implementations decide ownership
// purely from the file name, a short content peek, and configuration.
type Handler interface {
	// Name identifies the handler in logs and diagnostics.
	Name() string

	// CanHandle reports whether this handler owns the format of the given
	// file. peek holds up to PeekSize leading bytes of content and may be
	// nil. CanHandle is side-effect-free and never panics for any input; a
	// handler that cannot decide from the available information returns
	// false.
	CanHandle(path string, peek []byte, cfg *Config) bool

	// DecryptContent decrypts data and returns the plaintext. keys may be
	// nil for handlers that manage key material externally (GPG). Failures
	// are always typed: ErrDecryptionFailed family, never a raw platform
	// error.
	DecryptContent(data []byte, cfg *Config, keys *Keyring) (string, error)
}

// EncryptingHandler is a Handler that can also produce encrypted content.
type EncryptingHandler interface {
	Handler

	// EncryptContent encrypts plaintext under the config's active suite
	// using the public half of keys.
	EncryptContent(plaintext string, cfg *Config, keys *Keyring) ([]byte, error)
}
