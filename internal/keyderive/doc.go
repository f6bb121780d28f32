// Package keyderive produces the hybrid keypair set from either a user
// passphrase or externally stored key files.
//
// Passphrase derivation is deliberately expensive: Argon2id stretches the
// passphrase and salt into input keying material, which HKDF then splits into
// two domain-separated seeds, one for the classical keypair and one for the
// PQC keypair. The same passphrase, salt, and suite always reproduce the same
// keypairs; different salts produce unrelated keypairs even for the same
// passphrase.
//
// The HKDF info strings used to split the seeds are part of the frozen suite
// contract: "LEDGERSEAL-CLASSICAL-SEED-V1:<suite-id>" and
// "LEDGERSEAL-PQC-SEED-V1:<suite-id>". Changing them invalidates every
// previously derived key.
//
// All algorithm names are validated against a fixed allow-list before the
// passphrase is touched, so an unrecognized algorithm never costs an Argon2
// pass.
package keyderive
