package engine

import (
	"sync"
)

// BufferTransport is an in-memory Transport. Input is queued with Feed and
// every line the engine writes is recorded.
//
// It is used by tests and by the interactive console, where the caller
// owns both ends of the stream.
type BufferTransport struct {
	mu    sync.Mutex
	in    []byte
	lines []string

	// WriteErr, when set, is returned by WriteLine and nothing is recorded.
	WriteErr error
}

// NewBufferTransport creates an empty transport.
func NewBufferTransport() *BufferTransport {
	return &BufferTransport{}
}

// Feed queues data to be read by the engine.
func (t *BufferTransport) Feed(data string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.in = append(t.in, data...)
}

func (t *BufferTransport) Available() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.in)
}

func (t *BufferTransport) ReadByte() (byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.in) == 0 {
		return 0, ErrNoData
	}
	c := t.in[0]
	t.in = t.in[1:]
	return c, nil
}

func (t *BufferTransport) WriteLine(line string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.WriteErr != nil {
		return t.WriteErr
	}
	t.lines = append(t.lines, line)
	return nil
}

// Lines returns every line written so far.
func (t *BufferTransport) Lines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.lines...)
}

// Drain returns the written lines and forgets them.
func (t *BufferTransport) Drain() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	lines := t.lines
	t.lines = nil
	return lines
}
