// Command ledgerseal encrypts and decrypts ledger files at rest with a
// hybrid post-quantum scheme.
package main

func main() {
	Execute()
}
