// Package ledgerseal protects personal-ledger files at rest with hybrid
// post-quantum encryption: a classical KEM (X25519) and a post-quantum KEM
// (ML-KEM) are combined through HKDF into a single AEAD key, so breaking
// either KEM alone is insufficient to recover the plaintext.
//
// Encrypted files are stored in a length-prefixed binary bundle format whose
// parser is hardened against hostile input, and a handler locator routes each
// file to the hybrid PQC handler or the legacy GPG handler in fixed priority
// order.
//
// Basic usage:
//
//	cfg := ledgerseal.DefaultConfig()
//	suite, _ := cfg.ActiveSuite()
//
//	keys, err := ledgerseal.DeriveKeyring(passphrase, salt, suite)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer keys.Zeroize()
//
//	locator := ledgerseal.NewHandlerLocator()
//	handler := locator.PQCEncryptHandler(suite, cfg)
//	data, err := handler.EncryptContent("1970-01-01 open Assets:Cash", cfg, keys)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Later, route the file back to the right handler and decrypt.
//	h := locator.HandlerForFile("ledger.pqc_hybrid_fava", data[:ledgerseal.PeekSize], cfg)
//	plaintext, err := h.DecryptContent(data, cfg, keys)
//
// Key material is operation-scoped: derive or load a Keyring, use it for one
// call, and wipe it with Zeroize. The module never persists keys; the only
// persisted artifact is the bundle byte format.
package ledgerseal
