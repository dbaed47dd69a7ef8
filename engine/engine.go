package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"i4.energy/across/atcmd/at"
)

// DefaultPollInterval is how often Run polls the transport when no
// interval is given.
const DefaultPollInterval = 10 * time.Millisecond

// Engine reads AT request lines from a Transport, resolves them against a
// command table and dispatches them to the registered handlers.
//
// An Engine is not safe for concurrent use: Update is meant to be called
// repeatedly from a single loop owned by the caller (or by Run). Only Stats
// may be read from other goroutines.
type Engine struct {
	// transport provides the byte stream commands arrive on
	transport Transport
	// commands is the integrator's table, referenced and never modified
	commands      []Command
	caseSensitive bool
	onError       ErrorHandler
	logger        *slog.Logger

	// Per-line state, reset by clear after every cycle
	buf    *at.LineBuffer
	term   *at.Matcher
	stored []byte
	params *at.Params
	req    at.Request
	line   string

	// busy is set while a handler or the error handler runs
	busy bool

	stats stats
}

// Stats counts command cycles since the engine was created.
type Stats struct {
	Lines        uint64 `json:"lines"`
	Handled      uint64 `json:"handled"`
	Failed       uint64 `json:"failed"`
	Silent       uint64 `json:"silent"`
	Overflows    uint64 `json:"overflows"`
	SyntaxErrors uint64 `json:"syntax_errors"`
}

type stats struct {
	lines, handled, failed, silent, overflows, syntax atomic.Uint64
}

// New creates an Engine from config. The line buffer is allocated once
// here and reused for every line.
func New(config Config) (*Engine, error) {
	config.setDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}

	term, err := at.NewMatcher(config.terminator)
	if err != nil {
		return nil, fmt.Errorf("terminator: %w", err)
	}

	e := &Engine{
		transport:     config.transport,
		commands:      config.commands,
		caseSensitive: config.caseSensitive,
		onError:       config.errorHandler,
		logger:        config.logger,
		buf:           at.NewLineBuffer(config.bufferSize),
		term:          term,
		stored:        term.Stored(),
		params:        at.NewParams(""),
	}

	for i := range e.commands {
		if first := lookup(e.commands, e.commands[i].Name, e.caseSensitive); first != &e.commands[i] {
			e.logger.Warn("Duplicate command name, first entry wins", "name", e.commands[i].Name, "index", i)
		}
	}

	e.logger.Debug("Engine ready",
		"commands", len(e.commands),
		"buffer_size", e.buf.Cap(),
		"terminator", strconv.Quote(term.Sequence()),
	)

	return e, nil
}

// Update processes every byte the transport has available and returns
// without blocking. Complete lines are classified, dispatched and
// acknowledged before Update returns.
//
// A handler returning false is acknowledged with ERROR and does not stop
// Update. Overflow, syntax errors and acknowledgment write failures do:
// Update returns the error (ErrBufferOverflow, ErrSyntax or the write
// error) and bytes still pending in the transport are handled by the next
// call. The engine state is clean again whenever Update returns.
func (e *Engine) Update() error {
	if e.transport == nil {
		return ErrNoTransport
	}
	if e.busy {
		return ErrReentrant
	}

	for e.transport.Available() > 0 {
		c, err := e.transport.ReadByte()
		if err != nil {
			e.logger.Debug("Transport read returned nothing", "error", err)
			return nil
		}
		if c == 0 {
			continue
		}

		if err := e.buf.Append(c); err != nil {
			e.stats.overflows.Add(1)
			e.logger.Warn("Line buffer overflow, discarding line",
				"capacity", e.buf.Cap(),
				"length", e.buf.Len(),
				"terminator_pos", e.term.Pos(),
			)
			e.clear()
			return fmt.Errorf("%w: capacity %d", ErrBufferOverflow, e.buf.Cap())
		}

		if !e.term.Feed(c) {
			continue
		}
		if err := e.complete(); err != nil {
			if !errors.Is(err, ErrHandlerFailed) {
				return err
			}
			// ERROR was already sent; the stream is still in sync.
			e.logger.Info("Command failed", "error", err)
		}
	}
	return nil
}

// Run calls Update every interval until ctx is done. Failed lines are
// logged and do not stop the loop.
func (e *Engine) Run(ctx context.Context, interval time.Duration) error {
	if e.transport == nil {
		return ErrNoTransport
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := e.Update(); err != nil {
			if errors.Is(err, ErrReentrant) {
				return err
			}
			e.logger.Info("Command failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// complete runs one command cycle on the buffered line.
func (e *Engine) complete() error {
	defer e.clear()

	e.buf.TrimSuffix(e.stored)
	e.line = e.buf.String()
	e.stats.lines.Add(1)

	outcome, err := e.process()
	e.logger.Debug("Command processed",
		"line", e.line,
		"type", e.req.Type.String(),
		"name", e.req.Name,
		"outcome", outcome.String(),
	)

	switch outcome {
	case OutcomeHandled:
		e.stats.handled.Add(1)
	case OutcomeFailed:
		e.stats.failed.Add(1)
	default:
		e.stats.silent.Add(1)
	}

	if werr := e.acknowledge(outcome); werr != nil {
		return werr
	}
	return err
}

// process classifies the line, resolves the handler and invokes it.
func (e *Engine) process() (Outcome, error) {
	if e.line == "" {
		return OutcomeSilent, nil
	}

	req, err := at.Classify(e.line, e.caseSensitive)
	if err != nil {
		e.stats.syntax.Add(1)
		return OutcomeFailed, fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	e.req = req

	cmd := lookup(e.commands, req.Name, e.caseSensitive)
	if cmd == nil {
		if req.Name == "" && req.Type == at.TypeRun {
			return OutcomeSilent, nil
		}
		e.stats.syntax.Add(1)
		err := fmt.Errorf("%w: %w %q", ErrSyntax, ErrUnknownCommand, req.Name)
		if e.onError != nil {
			e.guard(func() { e.onError(e) })
			return OutcomeSilent, err
		}
		return OutcomeFailed, err
	}

	if req.Type == at.TypeWrite {
		e.params.Reset(at.Payload(e.line, req.Marker))
	}

	h := cmd.handler(req.Type)
	if h == nil {
		return OutcomeSilent, nil
	}

	var ok bool
	e.guard(func() { ok = h(e) })
	if !ok {
		return OutcomeFailed, fmt.Errorf("%w: %s %s", ErrHandlerFailed, req.Type, cmd.Name)
	}
	return OutcomeHandled, nil
}

// guard marks the engine busy while fn runs so that a handler feeding
// input back into Update is rejected.
func (e *Engine) guard(fn func()) {
	e.busy = true
	defer func() { e.busy = false }()
	fn()
}

func (e *Engine) acknowledge(o Outcome) error {
	line, ok := o.Ack()
	if !ok {
		return nil
	}
	if err := e.transport.WriteLine(line); err != nil {
		e.logger.Warn("Failed to write acknowledgment", "ack", line, "error", err)
		return fmt.Errorf("write %s: %w", line, err)
	}
	return nil
}

// clear resets all per-line state.
func (e *Engine) clear() {
	e.buf.Reset()
	e.term.Reset()
	e.params.Reset("")
	e.req = at.Request{}
	e.line = ""
}

// Command returns the name of the command being processed, e.g. "+CFG".
func (e *Engine) Command() string { return e.req.Name }

// Type returns the form of the command being processed.
func (e *Engine) Type() at.CommandType { return e.req.Type }

// Buffer returns the full line being processed, terminator excluded.
func (e *Engine) Buffer() string { return e.line }

// HasNext reports whether the WRITE payload has another parameter.
func (e *Engine) HasNext() bool { return e.params.HasNext() }

// Next returns the next WRITE parameter. Check HasNext first: empty
// parameters and the end of the payload both yield "".
func (e *Engine) Next() string { return e.params.Next() }

// Params returns the tokenizer over the WRITE payload.
func (e *Engine) Params() *at.Params { return e.params }

// Reply writes an intermediate response line, sent before the
// acknowledgment.
func (e *Engine) Reply(line string) error {
	return e.transport.WriteLine(line)
}

// Replyf formats and writes an intermediate response line.
func (e *Engine) Replyf(format string, args ...any) error {
	return e.Reply(fmt.Sprintf(format, args...))
}

// Stats returns a snapshot of the cycle counters. It is safe to call from
// any goroutine.
func (e *Engine) Stats() Stats {
	return Stats{
		Lines:        e.stats.lines.Load(),
		Handled:      e.stats.handled.Load(),
		Failed:       e.stats.failed.Load(),
		Silent:       e.stats.silent.Load(),
		Overflows:    e.stats.overflows.Load(),
		SyntaxErrors: e.stats.syntax.Load(),
	}
}

// Commands returns the registered command table.
func (e *Engine) Commands() []Command { return e.commands }
