package engine

import "i4.energy/across/atcmd/at"

// Handler processes one command form. It receives the engine that
// dispatched it, so it can inspect the request, consume parameters and
// write intermediate response lines. Returning true acknowledges the line
// with OK, false with ERROR.
//
// A Handler must not call Update on the engine it was given.
type Handler func(e *Engine) bool

// ErrorHandler is invoked when a line names a command that is not in the
// table. The engine's Command and Buffer describe the offending line.
type ErrorHandler func(e *Engine)

// Command describes one entry of the command table. Any handler may be nil;
// a line resolving to a nil handler is accepted without acknowledgment.
type Command struct {
	// Name is matched against the text between the AT prefix and the type
	// marker, e.g. "+CFG" or "I".
	Name string

	Run   Handler // AT<name>
	Read  Handler // AT<name>?
	Test  Handler // AT<name>=?
	Write Handler // AT<name>=<params>
}

func (c *Command) handler(t at.CommandType) Handler {
	switch t {
	case at.TypeRun:
		return c.Run
	case at.TypeRead:
		return c.Read
	case at.TypeTest:
		return c.Test
	case at.TypeWrite:
		return c.Write
	default:
		return nil
	}
}

// lookup returns the first table entry matching name.
func lookup(commands []Command, name string, caseSensitive bool) *Command {
	for i := range commands {
		if at.Equal(name, commands[i].Name, caseSensitive) {
			return &commands[i]
		}
	}
	return nil
}
