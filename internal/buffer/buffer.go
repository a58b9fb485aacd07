// Package buffer implements a small growable byte buffer used by the
// encoder and by callers that need to build up wire frames incrementally.
package buffer

// Buffer is an append-only byte buffer with a read cursor. It is not
// safe for concurrent use.
type Buffer struct {
	b   []byte
	off int
}

// New returns a Buffer with the given starting capacity.
func New(size int) *Buffer {
	return &Buffer{b: make([]byte, 0, size)}
}

// Wrap returns a Buffer whose read cursor starts at 0 over the given bytes.
func Wrap(b []byte) *Buffer {
	return &Buffer{b: b}
}

// Len returns the number of unread bytes remaining in the buffer.
func (b *Buffer) Len() int {
	return len(b.b) - b.off
}

// Size returns the total number of bytes written to the buffer.
func (b *Buffer) Size() int {
	return len(b.b)
}

// Bytes returns the unread portion of the buffer.
func (b *Buffer) Bytes() []byte {
	return b.b[b.off:]
}

// Reset clears the buffer for reuse.
func (b *Buffer) Reset() {
	b.b = b.b[:0]
	b.off = 0
}

// Append writes p to the end of the buffer.
func (b *Buffer) Append(p []byte) {
	b.b = append(b.b, p...)
}

// AppendByte writes a single byte to the end of the buffer.
func (b *Buffer) AppendByte(c byte) {
	b.b = append(b.b, c)
}

// AppendString writes s to the end of the buffer.
func (b *Buffer) AppendString(s string) {
	b.b = append(b.b, s...)
}

// Next returns the next n unread bytes without copying and advances the
// cursor past them. It returns false if fewer than n bytes remain.
func (b *Buffer) Next(n int) ([]byte, bool) {
	if b.Len() < n {
		return nil, false
	}
	p := b.b[b.off : b.off+n]
	b.off += n
	return p, true
}

// ReadByte reads and consumes a single byte.
func (b *Buffer) ReadByte() (byte, bool) {
	if b.Len() < 1 {
		return 0, false
	}
	c := b.b[b.off]
	b.off++
	return c, true
}

// PeekByte returns the next unread byte without consuming it.
func (b *Buffer) PeekByte() (byte, bool) {
	if b.Len() < 1 {
		return 0, false
	}
	return b.b[b.off], true
}

// Skip advances the read cursor by n bytes. It returns false if fewer
// than n bytes remain, in which case the cursor is left unchanged.
func (b *Buffer) Skip(n int) bool {
	if b.Len() < n {
		return false
	}
	b.off += n
	return true
}
