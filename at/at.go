package at

const (
	// Terminal Control
	CR   = '\r'
	LF   = '\n'
	CRLF = "\r\n"

	// Prefix every request line must start with.
	Prefix = "AT"

	// Response Codes
	OK       = "OK"
	ERROR    = "ERROR"
	CmeError = "+CME ERROR:"

	// Type markers
	MarkerWrite = '='
	MarkerRead  = '?'
)

// CommandType is the invocation form of a request line.
type CommandType int

const (
	TypeRun   CommandType = iota // AT+NAME
	TypeRead                     // AT+NAME?
	TypeTest                     // AT+NAME=?
	TypeWrite                    // AT+NAME=v1,v2,...
)

// String returns the conventional upper-case name of the command type.
func (t CommandType) String() string {
	switch t {
	case TypeRun:
		return "RUN"
	case TypeRead:
		return "READ"
	case TypeTest:
		return "TEST"
	case TypeWrite:
		return "WRITE"
	default:
		return "UNKNOWN"
	}
}

type ResponseType int

const (
	TypeFinal ResponseType = iota // OK, ERROR, +CME ERROR
	TypeData                      // Intermediate command output (+CFG: ...)
)
