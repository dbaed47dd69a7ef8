package at

import (
	"fmt"
	"strings"
)

// Request is the classification of one request line. It only lives for a
// single dispatch cycle.
type Request struct {
	Type CommandType
	// Name is the command name between the prefix and the type marker,
	// e.g. "+CFG" for "AT+CFG=1".
	Name string
	// Marker is the index of the byte that determined Type ('=' or '?'),
	// or the line length for RUN.
	Marker int
}

// Classify determines the form of line and extracts the command name.
//
// The AT prefix is compared case-insensitively unless caseSensitive is set.
// Every byte between the prefix and the type marker must be printable ASCII.
// A NUL byte ends the command like the end of the line does.
func Classify(line string, caseSensitive bool) (Request, error) {
	if len(line) < len(Prefix) {
		return Request{}, ErrMissingPrefix
	}
	head := line[:len(Prefix)]
	if !Equal(head, Prefix, caseSensitive) {
		return Request{}, fmt.Errorf("%w: got %q", ErrMissingPrefix, head)
	}

	for i := len(Prefix); i < len(line); i++ {
		c := line[i]
		switch {
		case c == 0:
			return newRequest(line, TypeRun, i), nil
		case !isPrintable(c):
			return Request{}, fmt.Errorf("%w: 0x%02x at %d", ErrInvalidChar, c, i)
		case c == MarkerWrite:
			if i+1 < len(line) && line[i+1] == MarkerRead {
				return newRequest(line, TypeTest, i), nil
			}
			return newRequest(line, TypeWrite, i), nil
		case c == MarkerRead:
			return newRequest(line, TypeRead, i), nil
		}
	}
	return newRequest(line, TypeRun, len(line)), nil
}

func newRequest(line string, t CommandType, marker int) Request {
	return Request{
		Type:   t,
		Name:   line[len(Prefix):marker],
		Marker: marker,
	}
}

// Equal compares two names, ignoring ASCII case unless caseSensitive is set.
func Equal(a, b string, caseSensitive bool) bool {
	if caseSensitive {
		return a == b
	}
	return strings.EqualFold(a, b)
}

func isPrintable(c byte) bool {
	return c >= 0x20 && c <= 0x7E
}

// Payload returns the parameter part of a WRITE line, the bytes after the
// '=' at marker. An out of range marker yields an empty payload.
func Payload(line string, marker int) string {
	if marker < 0 || marker+1 > len(line) {
		return ""
	}
	return line[marker+1:]
}
