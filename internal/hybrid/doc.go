// Package hybrid implements the hybrid post-quantum encryption protocol used
// to protect ledger files at rest.
//
// # Construction
//
// Encryption combines one classical KEM and one post-quantum KEM so that
// breaking either alone is insufficient to recover the plaintext:
//
//  1. A fresh ephemeral X25519 keypair is generated; ECDH against the
//     recipient's classical public key yields the classical shared secret.
//     The serialized ephemeral public key is the classical KEM ciphertext.
//  2. The PQC KEM (ML-KEM via circl) encapsulates against the recipient's
//     PQC public key, yielding the PQC shared secret and ciphertext.
//  3. The two shared secrets are concatenated, classical first. The order is
//     part of the suite contract and must match on decryption.
//  4. HKDF with the suite's hash expands the combined secret into the AEAD
//     key, using a fixed domain-separation info string.
//  5. The AEAD (AES-256-GCM or ChaCha20-Poly1305) seals the plaintext under
//     a fresh random nonce.
//
// The result is serialized through the bundle package with the protocol's
// format identifier and the suite ID embedded, so a bundle produced under one
// suite can never be silently decrypted under another.
//
// # Failure Semantics
//
// Every decryption failure, whether a malformed bundle, a format or suite
// mismatch, a KEM failure, or an AEAD tag mismatch, wraps
// [ErrDecryptionFailed]. Wrong-key and tampered-ciphertext failures are not
// distinguishable from each other beyond what the AEAD primitive itself
// leaks, and error messages never contain plaintext or key material.
//
// The KEM, AEAD, and KDF calls sit behind small interfaces so tests can
// substitute deterministic fakes; production resolves real primitives from
// the suite's algorithm names.
package hybrid
