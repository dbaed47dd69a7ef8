package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.bug.st/serial"

	"i4.energy/across/atcmd/at"
)

//go:generate go tool mockgen -source=transport.go -destination=mock_transport.go -package=engine

// Transport is the duplex byte stream an Engine serves commands on.
//
// Implementations must not block: Available reports how many bytes can be
// read right now, and ReadByte returns one of them. The engine never opens
// or closes a Transport.
type Transport interface {
	// Available returns the number of bytes that can be read without
	// blocking.
	Available() int
	// ReadByte returns the next buffered byte. An error means nothing usable
	// was read; the engine skips it and tries again on its next Update.
	ReadByte() (byte, error)
	// WriteLine writes line followed by CRLF.
	WriteLine(line string) error
}

// Port represents an established, bidirectional connection to a device
// such as a serial port or a TCP stream.
type Port interface {
	io.ReadWriteCloser
}

// Dialer opens a Port.
//
// Dialer abstracts how the connection is created (serial port, network
// socket, test double) and is only used at startup.
type Dialer interface {
	// Dial is responsible for creating and returning a connected Port. It
	// should respect cancellation of the provided context. Dial returns an
	// error if the port cannot be opened.
	Dial(ctx context.Context) (Port, error)
}

// SerialDialer opens a device over a serial port using go.bug.st/serial.
type SerialDialer struct {
	PortName string
	// Mode defaults to 115200 8N1 when nil.
	Mode *serial.Mode
}

// Dial opens the serial port.
func (d SerialDialer) Dial(ctx context.Context) (Port, error) {
	if ctx == nil {
		return nil, errors.New("atcmd: context is nil")
	}
	if d.PortName == "" {
		return nil, errors.New("atcmd: serial port name is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mode := d.Mode
	if mode == nil {
		mode = &serial.Mode{
			BaudRate: 115200,
			Parity:   serial.NoParity,
			DataBits: 8,
			StopBits: serial.OneStopBit,
		}
	}

	port, err := serial.Open(d.PortName, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %q: %w", d.PortName, err)
	}
	return port, nil
}

// StreamTransport adapts a blocking io.ReadWriter to the non-blocking
// Transport contract. A background goroutine drains the reader into an
// internal buffer until the reader fails.
type StreamTransport struct {
	w io.Writer

	mu      sync.Mutex
	pending []byte
	err     error

	done chan struct{}
}

// NewStreamTransport starts reading rw and returns the transport.
func NewStreamTransport(rw io.ReadWriter) *StreamTransport {
	t := &StreamTransport{
		w:    rw,
		done: make(chan struct{}),
	}
	go t.pump(rw)
	return t
}

func (t *StreamTransport) pump(r io.Reader) {
	defer close(t.done)

	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		t.mu.Lock()
		t.pending = append(t.pending, buf[:n]...)
		if err != nil {
			t.err = err
		}
		t.mu.Unlock()
		if err != nil {
			return
		}
	}
}

func (t *StreamTransport) Available() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

func (t *StreamTransport) ReadByte() (byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.pending) == 0 {
		if t.err != nil {
			return 0, t.err
		}
		return 0, ErrNoData
	}
	c := t.pending[0]
	t.pending = t.pending[1:]
	return c, nil
}

func (t *StreamTransport) WriteLine(line string) error {
	_, err := io.WriteString(t.w, line+at.CRLF)
	return err
}

// Done is closed once the underlying reader has failed or reached EOF.
func (t *StreamTransport) Done() <-chan struct{} {
	return t.done
}

// Err returns the error that stopped the reader, if any.
func (t *StreamTransport) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}
