package at

import "errors"

var (
	// ErrBufferFull is returned by LineBuffer.Append when the buffer already
	// holds its full capacity.
	ErrBufferFull = errors.New("line buffer full")

	// ErrMissingPrefix is returned by Classify when a line does not start
	// with the AT prefix.
	ErrMissingPrefix = errors.New("missing AT prefix")

	// ErrInvalidChar is returned by Classify when the command part of a line
	// contains a byte outside printable ASCII.
	ErrInvalidChar = errors.New("invalid command character")

	// ErrEmptyTerminator is returned by NewMatcher for a zero-length
	// terminator sequence.
	ErrEmptyTerminator = errors.New("empty terminator sequence")
)
