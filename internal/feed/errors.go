package feed

import "fmt"

// FailureKind distinguishes why a fetch failed. The updater treats every kind
// the same way (move to the next candidate) but diagnostics need to tell a
// challenge page apart from a network failure or a garbage payload.
type FailureKind int

const (
	KindNetwork FailureKind = iota
	KindBlocked
	KindMalformed
)

func (k FailureKind) String() string {
	switch k {
	case KindBlocked:
		return "blocked"
	case KindMalformed:
		return "malformed payload"
	default:
		return "network"
	}
}

// FetchError carries the last observed cause after the transport gave up on
// a URL.
type FetchError struct {
	URL        string
	Kind       FailureKind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError is a hard failure: the transport delivered a well-shaped payload
// that still does not parse as the classified format. Never retried, the
// updater moves straight to the next candidate.
type ParseError struct {
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s payload: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
