package resolver

import "fmt"

// Reason classifies resolution failures.
type Reason int

const (
	// Unrecognized means the translator's reply did not parse into a
	// known command; the input is never executed raw.
	Unrecognized Reason = iota
	// Unavailable means the translation boundary timed out or failed;
	// literal commands remain usable.
	Unavailable
)

// String returns the reason's short name.
func (r Reason) String() string {
	switch r {
	case Unrecognized:
		return "unrecognized"
	case Unavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// ResolutionError reports a failed natural-language resolution.
type ResolutionError struct {
	Reason Reason
	Msg    string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolution failed (%s): %s", e.Reason, e.Msg)
}

func unrecognized(format string, args ...any) *ResolutionError {
	return &ResolutionError{Reason: Unrecognized, Msg: fmt.Sprintf(format, args...)}
}

func unavailable(format string, args ...any) *ResolutionError {
	return &ResolutionError{Reason: Unavailable, Msg: fmt.Sprintf(format, args...)}
}
