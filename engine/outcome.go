package engine

import "i4.energy/across/atcmd/at"

// Outcome is the result of one command cycle as far as the peer is
// concerned: which acknowledgment, if any, it receives.
type Outcome int

const (
	// OutcomeSilent writes nothing: empty lines, nil handlers and unknown
	// commands already reported through the ErrorHandler.
	OutcomeSilent Outcome = iota
	// OutcomeHandled writes OK.
	OutcomeHandled
	// OutcomeFailed writes ERROR.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSilent:
		return "silent"
	case OutcomeHandled:
		return "handled"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Ack returns the acknowledgment line for o and whether one is due.
func (o Outcome) Ack() (string, bool) {
	switch o {
	case OutcomeHandled:
		return at.OK, true
	case OutcomeFailed:
		return at.ERROR, true
	default:
		return "", false
	}
}
