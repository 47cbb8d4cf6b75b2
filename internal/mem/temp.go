package mem

// WithTemporary calls fn with the address of a zero-filled buffer of size
// bytes aligned to align. The buffer is released when fn returns, on every
// exit path; any address derived from it is invalid afterwards. A zero
// size calls fn with the null address and allocates nothing.
//
// Temporaries released in reverse order of acquisition shrink the memory
// back, so nested scopes behave like a stack.
func (m *Memory) WithTemporary(align, size int, fn func(Addr) error) error {
	if size == 0 {
		return fn(0)
	}
	addr := m.Alloc(align, size, true)
	defer m.Free(addr)
	return fn(addr)
}
