package ledgerseal

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"unicode/utf8"
)

// gpgArmorMagic is the leading text of an ASCII-armored OpenPGP message.
const gpgArmorMagic = "-----BEGIN PGP MESSAGE-----"

// execCommand is swapped in tests to avoid depending on an installed gpg.
var execCommand = exec.Command

// GPGHandler is the legacy decrypt path for GPG-encrypted ledger files. It
// shells out to the external gpg executable; it never implements OpenPGP
// itself.
type GPGHandler struct{}

// NewGPGHandler builds the legacy GPG handler.
func NewGPGHandler() *GPGHandler {
	return &GPGHandler{}
}

// Name implements Handler.
func (h *GPGHandler) Name() string { return "gpg" }

// CanHandle reports whether the file looks like an OpenPGP message: the .gpg
// extension, a binary packet tag byte, or the ASCII armor header. The whole
// handler is gated by cfg.PQCFallbackToClassicalGPG.
func (h *GPGHandler) CanHandle(path string, peek []byte, cfg *Config) bool {
	if cfg != nil && !cfg.PQCFallbackToClassicalGPG {
		return false
	}
	if strings.HasSuffix(strings.ToLower(path), ".gpg") {
		return true
	}
	if len(peek) == 0 {
		return false
	}
	// OpenPGP binary packets always set the high bit of the first byte
	// (RFC 4880 section 4.2).
	if peek[0]&0x80 != 0 {
		return true
	}
	return bytes.HasPrefix(peek, []byte(gpgArmorMagic))
}

// DecryptContent feeds data to `gpg --decrypt` on stdin and returns the
// decrypted text. keys is ignored; gpg manages its own keyring. A missing
// executable fails with ErrGPGToolNotFound; a non-zero exit fails with a
// DecryptionError carrying the exit code and captured stderr.
func (h *GPGHandler) DecryptContent(data []byte, cfg *Config, keys *Keyring) (string, error) {
	gpgPath, err := exec.LookPath("gpg")
	if err != nil {
		return "", &GPGToolNotFoundError{Err: err}
	}

	args := []string{"--decrypt", "--batch", "--yes", "--quiet", "--no-tty"}
	if cfg != nil && cfg.GPGOptions != "" {
		args = append(args, strings.Fields(cfg.GPGOptions)...)
	}

	cmd := execCommand(gpgPath, args...)
	cmd.Stdin = bytes.NewReader(data)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &DecryptionError{
				Stage: "gpg",
				Message: fmt.Sprintf("gpg exited with status %d: %s",
					exitErr.ExitCode(), strings.TrimSpace(stderr.String())),
			}
		}
		return "", &DecryptionError{Stage: "gpg", Err: err}
	}

	out := stdout.Bytes()
	if !utf8.Valid(out) {
		return "", &DecryptionError{Stage: "decode", Message: "gpg output is not valid UTF-8"}
	}
	return string(out), nil
}
