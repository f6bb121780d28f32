package bundle

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"
)

const (
	// DefaultMaxFieldSize is the default per-field limit. Large enough for
	// any real ledger file, small enough that a forged length prefix cannot
	// request a multi-gigabyte allocation.
	DefaultMaxFieldSize = 64 << 20 // 64 MiB

	// DefaultMaxTotalSize is the default limit on the sum of all declared
	// field sizes in one bundle.
	DefaultMaxTotalSize = 256 << 20 // 256 MiB

	// maxSniffFieldSize bounds the format identifier length accepted by
	// SniffFormat. Identifiers are short strings; anything larger is not a
	// bundle header.
	maxSniffFieldSize = 128

	lengthPrefixSize = 4
	fieldCount       = 7
)

// Limits bounds the sizes Parse will accept from untrusted input.
type Limits struct {
	// MaxFieldSize is the largest declared length accepted for any single field.
	MaxFieldSize uint64
	// MaxTotalSize is the largest accepted sum of declared field lengths.
	MaxTotalSize uint64
}

// DefaultLimits returns the limits used when callers do not override them.
func DefaultLimits() Limits {
	return Limits{MaxFieldSize: DefaultMaxFieldSize, MaxTotalSize: DefaultMaxTotalSize}
}

// fieldNames, in wire order. Used for error reporting only.
var fieldNames = [fieldCount]string{
	"format_identifier",
	"suite_id",
	"classical_kem_ciphertext",
	"pqc_kem_ciphertext",
	"symmetric_iv",
	"symmetric_ciphertext",
	"symmetric_auth_tag",
}

func (b *Bundle) fields() [fieldCount][]byte {
	return [fieldCount][]byte{
		[]byte(b.FormatIdentifier),
		[]byte(b.SuiteID),
		b.ClassicalKEMCiphertext,
		b.PQCKEMCiphertext,
		b.SymmetricIV,
		b.SymmetricCiphertext,
		b.SymmetricAuthTag,
	}
}

// Serialize encodes a bundle into its wire form. The output length is exactly
// the sum of (4 + len(field)) over all seven fields, in wire order.
func Serialize(b *Bundle) ([]byte, error) {
	fields := b.fields()

	total := 0
	for i, f := range fields {
		if uint64(len(f)) > math.MaxUint32 {
			return nil, fmt.Errorf("%w: %s", ErrFieldTooLong, fieldNames[i])
		}
		total += lengthPrefixSize + len(f)
	}

	out := make([]byte, 0, total)
	var prefix [lengthPrefixSize]byte
	for _, f := range fields {
		binary.LittleEndian.PutUint32(prefix[:], uint32(len(f)))
		out = append(out, prefix[:]...)
		out = append(out, f...)
	}
	return out, nil
}

// Parse decodes a serialized bundle from untrusted bytes. It either returns a
// fully populated bundle or an error; declared sizes are validated against
// limits before any content is copied.
func Parse(data []byte, limits Limits) (*Bundle, error) {
	if limits.MaxFieldSize == 0 {
		limits.MaxFieldSize = DefaultMaxFieldSize
	}
	if limits.MaxTotalSize == 0 {
		limits.MaxTotalSize = DefaultMaxTotalSize
	}

	var raw [fieldCount][]byte
	var total uint64
	offset := 0
	for i := 0; i < fieldCount; i++ {
		if len(data)-offset < lengthPrefixSize {
			return nil, fmt.Errorf("%w: data too short to read length prefix of %s", ErrTruncated, fieldNames[i])
		}
		declared := uint64(binary.LittleEndian.Uint32(data[offset : offset+lengthPrefixSize]))
		offset += lengthPrefixSize

		if declared > limits.MaxFieldSize {
			return nil, &LimitError{Field: fieldNames[i], Declared: declared, Limit: limits.MaxFieldSize}
		}
		total += declared
		if total > limits.MaxTotalSize {
			return nil, &LimitError{Declared: total, Limit: limits.MaxTotalSize}
		}

		if uint64(len(data)-offset) < declared {
			return nil, fmt.Errorf("%w: data too short to read field content of %s", ErrTruncated, fieldNames[i])
		}
		// Copy so the bundle does not alias the caller's buffer.
		raw[i] = append([]byte(nil), data[offset:offset+int(declared)]...)
		offset += int(declared)
	}

	if offset != len(data) {
		return nil, fmt.Errorf("%w: %d bytes remain", ErrTrailingData, len(data)-offset)
	}

	for i := 0; i < 2; i++ {
		if len(raw[i]) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmptyIdentifier, fieldNames[i])
		}
		if !utf8.Valid(raw[i]) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidIdentifier, fieldNames[i])
		}
	}

	return &Bundle{
		FormatIdentifier:       string(raw[0]),
		SuiteID:                string(raw[1]),
		ClassicalKEMCiphertext: raw[2],
		PQCKEMCiphertext:       raw[3],
		SymmetricIV:            raw[4],
		SymmetricCiphertext:    raw[5],
		SymmetricAuthTag:       raw[6],
	}, nil
}

// SniffFormat reads only the leading format_identifier field from a short
// byte prefix. It is a cheap, non-destructive probe for handler selection:
// truncated trailing data is fine as long as the first field is complete, and
// any input the first field cannot be read from yields ok == false rather
// than an error.
func SniffFormat(peek []byte) (identifier string, ok bool) {
	if len(peek) < lengthPrefixSize {
		return "", false
	}
	declared := binary.LittleEndian.Uint32(peek)
	if declared == 0 || declared > maxSniffFieldSize {
		return "", false
	}
	if uint32(len(peek)-lengthPrefixSize) < declared {
		return "", false
	}
	field := peek[lengthPrefixSize : lengthPrefixSize+int(declared)]
	if !utf8.Valid(field) {
		return "", false
	}
	return string(field), true
}
