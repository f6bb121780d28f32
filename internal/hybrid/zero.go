package hybrid

// Zeroize overwrites the given buffers. Key material is operation-scoped;
// callers wipe it as soon as the operation completes.
func Zeroize(buffers ...[]byte) {
	for _, buf := range buffers {
		for i := range buf {
			buf[i] = 0
		}
	}
}
