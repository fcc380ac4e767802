package rb

// put copies as many bytes of p as currently fit into the arena and advances
// the occupancy. The caller must hold mu. Returns the number of bytes copied.
func (b *Buffer) put(p []byte) int {
	n := min(len(p), b.capacity-b.used)
	if n == 0 {
		return 0
	}

	// The write position is always derived, never stored
	head := (b.tail + b.used) % b.capacity

	// Copy up to the end of the arena, then wrap around
	c := copy(b.arena[head:], p[:n])
	if c < n {
		copy(b.arena, p[c:n])
	}

	b.used += n

	return n
}

// take copies up to len(p) of the oldest unread bytes out of the arena and
// advances the tail. The caller must hold mu. Returns the number of bytes
// copied.
func (b *Buffer) take(p []byte) int {
	n := min(len(p), b.used)
	if n == 0 {
		return 0
	}

	// Copy up to the end of the arena, then wrap around
	c := copy(p[:n], b.arena[b.tail:])
	if c < n {
		copy(p[c:n], b.arena[:n-c])
	}

	b.tail = (b.tail + n) % b.capacity
	b.used -= n

	return n
}
