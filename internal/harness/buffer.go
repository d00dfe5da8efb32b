package harness

import (
	"errors"
	"fmt"
)

// FixedSize is the size of the FixedBuffer array.
const FixedSize = 1024

// ErrBufferOverflow is returned when formatted output plus its NUL
// terminator does not fit a FixedBuffer.
var ErrBufferOverflow = errors.New("output overflows fixed buffer")

// FixedBuffer formats into a fixed [FixedSize]byte array with fmt.Appendf.
// The array is zero-filled on Reset and read back up to the first NUL.
type FixedBuffer struct {
	buf [FixedSize]byte
}

func NewFixedBuffer() *FixedBuffer {
	return &FixedBuffer{}
}

func (b *FixedBuffer) Reset() {
	clear(b.buf[:])
}

// Invoke appends into the array. The slice is capped one byte short of
// the array, so output that leaves no room for the terminator is appended
// to a new allocation and the array is left untouched.
func (b *FixedBuffer) Invoke(format string, args []any) (int, error) {
	out := fmt.Appendf(b.buf[:0:FixedSize-1], format, args...)
	if len(out) >= FixedSize {
		return len(out), fmt.Errorf("%w: %d bytes", ErrBufferOverflow, len(out))
	}
	b.buf[len(out)] = 0
	return len(out), nil
}

func (b *FixedBuffer) Bytes() []byte {
	return cstring(b.buf[:])
}

// BoundedBuffer is an io.Writer over capacity bytes. It keeps at most
// capacity-1 bytes of output followed by a NUL terminator, silently
// dropping the rest, and always reports the full length written. Formatting
// into it with fmt.Fprintf therefore returns the untruncated length.
type BoundedBuffer struct {
	buf []byte
	n   int
}

// NewBoundedBuffer returns a buffer of the given capacity, which must be at
// least 1 to hold the terminator.
func NewBoundedBuffer(capacity int) (*BoundedBuffer, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("bounded buffer capacity must be at least 1, got %d", capacity)
	}
	return &BoundedBuffer{buf: make([]byte, capacity)}, nil
}

func (b *BoundedBuffer) Write(p []byte) (int, error) {
	k := min(len(b.buf)-1-b.n, len(p))
	copy(b.buf[b.n:], p[:k])
	b.n += k
	b.buf[b.n] = 0
	return len(p), nil
}

func (b *BoundedBuffer) Reset() {
	clear(b.buf)
	b.n = 0
}

// Invoke formats from the start of the buffer.
func (b *BoundedBuffer) Invoke(format string, args []any) (int, error) {
	b.n = 0
	return fmt.Fprintf(b, format, args...)
}

func (b *BoundedBuffer) Bytes() []byte {
	return cstring(b.buf)
}

// Visible returns capacity-1.
func (b *BoundedBuffer) Visible() int {
	return len(b.buf) - 1
}

// Capacity returns the size the buffer was created with.
func (b *BoundedBuffer) Capacity() int {
	return len(b.buf)
}
