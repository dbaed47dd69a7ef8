package at

// Matcher detects a fixed terminator sequence in a byte stream. It only
// tracks how many terminator bytes were seen contiguously; it never stores
// line content.
type Matcher struct {
	seq []byte
	pos int
}

// NewMatcher returns a Matcher for the terminator seq, which must hold at
// least one byte.
func NewMatcher(seq string) (*Matcher, error) {
	if len(seq) == 0 {
		return nil, ErrEmptyTerminator
	}
	return &Matcher{seq: []byte(seq)}, nil
}

// Feed advances the automaton by one byte and reports whether the
// terminator has just been fully matched. A completed match resets the
// automaton.
//
// A byte that breaks a partial match resets the automaton and is not
// matched again, so "\r\r\n" does not terminate on CRLF.
func (m *Matcher) Feed(c byte) bool {
	if m.seq[m.pos] != c {
		m.pos = 0
		return false
	}
	m.pos++
	if m.pos == len(m.seq) {
		m.pos = 0
		return true
	}
	return false
}

// Pos is the number of terminator bytes matched so far.
func (m *Matcher) Pos() int { return m.pos }

// Reset discards any partial match.
func (m *Matcher) Reset() { m.pos = 0 }

// Sequence returns the terminator the matcher looks for.
func (m *Matcher) Sequence() string { return string(m.seq) }

// Stored returns the terminator bytes a LineBuffer keeps as content, that is
// the sequence without CR and LF.
func (m *Matcher) Stored() []byte {
	var out []byte
	for _, c := range m.seq {
		if c != CR && c != LF {
			out = append(out, c)
		}
	}
	return out
}
