package at

import (
	"bufio"
	"bytes"
	"strings"
)

// Splitter is used for tokenizing responses written by a command processor.
// It uses the signature of bufio.SplitFunc so it can be directly used with
// bufio.Scanner, and splits the input on CRLF line endings.
//
// The atEOF parameter indicates whether any more data will be available.
// When true, any remaining data is returned as the final token.
var Splitter = NewSplitter(CRLF)

// NewSplitter returns a bufio.SplitFunc that splits on the given line
// terminator. An empty terminator falls back to CRLF.
func NewSplitter(terminator string) bufio.SplitFunc {
	if terminator == "" {
		terminator = CRLF
	}
	sep := []byte(terminator)

	return func(data []byte, atEOF bool) (advance int, token []byte, err error) {
		if atEOF && len(data) == 0 {
			return 0, nil, nil
		}

		if i := bytes.Index(data, sep); i >= 0 {
			return i + len(sep), data[0:i], nil
		}

		if atEOF {
			return len(data), data, nil
		}
		return 0, nil, nil
	}
}

// ClassifyResponse identifies the nature of a response line
func ClassifyResponse(line string) ResponseType {
	line = strings.TrimSpace(line)

	// Direct matches for final results
	switch line {
	case OK, ERROR:
		return TypeFinal
	}

	if strings.HasPrefix(line, CmeError) {
		return TypeFinal
	}
	return TypeData
}
