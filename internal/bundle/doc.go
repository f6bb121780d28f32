// Package bundle defines the on-disk container format for hybrid-encrypted
// ledger files and its hardened codec.
//
// # Wire Format
//
// A serialized bundle is a flat sequence of seven fields, each encoded as a
// 4-byte little-endian unsigned length prefix followed by that many bytes of
// content, in fixed order:
//
//	format_identifier        (UTF-8 string)
//	suite_id                 (UTF-8 string)
//	classical_kem_ciphertext (bytes; the sender's ephemeral X25519 public key)
//	pqc_kem_ciphertext       (bytes; KEM encapsulation output)
//	symmetric_iv             (bytes; AEAD nonce)
//	symmetric_ciphertext     (bytes; AEAD output without the tag)
//	symmetric_auth_tag       (bytes; AEAD authentication tag)
//
// There is no padding, no checksum, and no field-expansion or reference
// mechanism. Integrity of the payload is carried entirely by the AEAD tag;
// any tampering with the header fields forces decryption failure through the
// format/suite checks and KEM decapsulation.
//
// # Hostile Input
//
// [Parse] treats its input as untrusted. Every declared field length is
// checked against a per-field maximum and a cumulative total maximum before
// any allocation or copy, so a forged 0xFFFFFFFF length prefix cannot trigger
// a large allocation. Parsing is a single forward pass over the input, O(n)
// in the declared size. Parsing either yields a fully populated [Bundle] or
// fails; no partially populated bundle is ever returned.
package bundle
