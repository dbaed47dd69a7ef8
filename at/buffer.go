package at

import "bytes"

// LineBuffer accumulates the content of a single request line.
//
// Carriage-return and line-feed bytes are never stored. The buffer holds at
// most Cap bytes; storage is reserved once at construction and reused
// across lines.
type LineBuffer struct {
	data     []byte
	capacity int
}

// NewLineBuffer returns an empty buffer holding at most capacity bytes.
func NewLineBuffer(capacity int) *LineBuffer {
	if capacity < 0 {
		capacity = 0
	}
	return &LineBuffer{
		data:     make([]byte, 0, capacity),
		capacity: capacity,
	}
}

// Append stores c unless it is CR or LF. It returns ErrBufferFull, without
// looking at c, once the buffer holds Cap bytes.
func (b *LineBuffer) Append(c byte) error {
	if len(b.data) == b.capacity {
		return ErrBufferFull
	}
	if c == CR || c == LF {
		return nil
	}
	b.data = append(b.data, c)
	return nil
}

// TrimSuffix drops suffix from the end of the content if present and
// reports whether it did.
func (b *LineBuffer) TrimSuffix(suffix []byte) bool {
	if len(suffix) == 0 || !bytes.HasSuffix(b.data, suffix) {
		return false
	}
	b.data = b.data[:len(b.data)-len(suffix)]
	return true
}

// Reset empties the buffer, keeping its storage.
func (b *LineBuffer) Reset() {
	b.data = b.data[:0]
}

// Len is the number of stored bytes (the write position).
func (b *LineBuffer) Len() int { return len(b.data) }

// Cap is the fixed capacity.
func (b *LineBuffer) Cap() int { return b.capacity }

// String returns a copy of the current content.
func (b *LineBuffer) String() string { return string(b.data) }
