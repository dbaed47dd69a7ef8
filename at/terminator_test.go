package at_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"i4.energy/across/atcmd/at"
)

// feed returns the stream offsets at which the matcher completed.
func feed(m *at.Matcher, input string) []int {
	var hits []int
	for i := 0; i < len(input); i++ {
		if m.Feed(input[i]) {
			hits = append(hits, i)
		}
	}
	return hits
}

func TestMatcher(t *testing.T) {
	tests := []struct {
		name       string
		terminator string
		input      string
		want       []int
	}{
		{name: "CRLF", terminator: "\r\n", input: "ATI\r\n", want: []int{4}},
		{name: "no terminator", terminator: "\r\n", input: "ATI", want: nil},
		{name: "LF alone does not match CRLF", terminator: "\r\n", input: "ATI\n", want: nil},
		{name: "CR alone does not match CRLF", terminator: "\r\n", input: "ATI\r", want: nil},
		{name: "repeated CR breaks the match", terminator: "\r\n", input: "ATI\r\r\n", want: nil},
		{name: "match after a broken one", terminator: "\r\n", input: "ATI\r\r\n\r\n", want: []int{7}},
		{name: "repeated prefix byte", terminator: ";;\r", input: "A;;;\r;;\r", want: []int{7}},
		{name: "two lines", terminator: "\r\n", input: "ATI\r\nAT\r\n", want: []int{4, 8}},
		{name: "single byte", terminator: "\r", input: "A\rB\r", want: []int{1, 3}},
		{name: "three bytes", terminator: ";\r\n", input: "ATI;\r\n", want: []int{5}},
		{name: "broken three bytes", terminator: ";\r\n", input: "AT;I\r\n", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := at.NewMatcher(tt.terminator)
			require.NoError(t, err)
			assert.Equal(t, tt.want, feed(m, tt.input))
			assert.Equal(t, 0, m.Pos())
		})
	}
}

func TestMatcherPartial(t *testing.T) {
	m, err := at.NewMatcher("\r\n")
	require.NoError(t, err)

	assert.False(t, m.Feed('\r'))
	assert.Equal(t, 1, m.Pos())
	m.Reset()
	assert.Equal(t, 0, m.Pos())
	assert.False(t, m.Feed('\n'))
	assert.Equal(t, "\r\n", m.Sequence())
}

func TestMatcherEmpty(t *testing.T) {
	_, err := at.NewMatcher("")
	assert.ErrorIs(t, err, at.ErrEmptyTerminator)
}

func TestMatcherStored(t *testing.T) {
	tests := []struct {
		terminator string
		want       []byte
	}{
		{terminator: "\r\n", want: nil},
		{terminator: ";", want: []byte(";")},
		{terminator: ";\r\n", want: []byte(";")},
		{terminator: "\r#\n!", want: []byte("#!")},
	}
	for _, tt := range tests {
		m, err := at.NewMatcher(tt.terminator)
		require.NoError(t, err)
		assert.Equal(t, tt.want, m.Stored(), "terminator %q", tt.terminator)
	}
}
