package engine

import "errors"

var (
	// ErrNoTransport is returned when an Engine is constructed or polled
	// without a Transport.
	//
	// This indicates a configuration error, not a runtime condition.
	ErrNoTransport = errors.New("no transport configured")

	// ErrInvalidBufferSize is returned by Build when the line buffer
	// capacity is negative.
	ErrInvalidBufferSize = errors.New("invalid line buffer size")

	// ErrBufferOverflow is returned by Update when a line exceeds the
	// buffer capacity before its terminator arrived.
	//
	// The partial line is discarded and nothing is dispatched.
	ErrBufferOverflow = errors.New("line buffer overflow")

	// ErrSyntax is returned by Update when a completed line has no AT
	// prefix, carries an invalid character or names an unknown command.
	ErrSyntax = errors.New("syntax error")

	// ErrUnknownCommand is returned, wrapped together with ErrSyntax, when
	// the command name is not in the command table.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrHandlerFailed is logged when a dispatched handler reported
	// failure. Update acknowledges ERROR and carries on with the next line.
	ErrHandlerFailed = errors.New("command handler failed")

	// ErrReentrant is returned when Update is called from inside a handler
	// while the engine is still dispatching.
	//
	// Handlers must not feed new input to the engine that invoked them.
	ErrReentrant = errors.New("engine is dispatching")

	// ErrNoData is returned by a Transport's ReadByte when no byte is
	// currently buffered.
	ErrNoData = errors.New("no data available")
)
