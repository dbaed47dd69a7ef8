package at

import "strings"

// Params lazily splits a WRITE payload into comma separated tokens.
//
// Empty tokens between consecutive commas are returned as "", so callers
// must use HasNext rather than an empty result to detect the end.
type Params struct {
	payload string
	cursor  int
}

// NewParams returns a tokenizer positioned at the start of payload.
func NewParams(payload string) *Params {
	return &Params{payload: payload}
}

// Reset replaces the payload and rewinds the cursor.
func (p *Params) Reset(payload string) {
	p.payload = payload
	p.cursor = 0
}

// HasNext reports whether another token is available.
func (p *Params) HasNext() bool {
	return p.cursor < len(p.payload)
}

// Next returns the next token and advances past its trailing comma. It
// returns "" once the payload is exhausted.
func (p *Params) Next() string {
	if p.cursor >= len(p.payload) {
		p.cursor = len(p.payload)
		return ""
	}

	rest := p.payload[p.cursor:]
	i := strings.IndexByte(rest, ',')
	if i < 0 {
		p.cursor = len(p.payload)
		return rest
	}
	p.cursor += i + 1
	return rest[:i]
}

// Remaining returns all tokens not consumed yet.
func (p *Params) Remaining() []string {
	var out []string
	for p.HasNext() {
		out = append(out, p.Next())
	}
	return out
}

// Payload returns the full payload being tokenized.
func (p *Params) Payload() string { return p.payload }
