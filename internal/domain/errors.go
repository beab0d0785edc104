package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrNoActiveSnapshot = errors.New("no active pricing snapshot")
	ErrUnknownOption    = errors.New("unknown option")
	ErrLockHeld         = errors.New("lock already held")
	ErrSyncInFlight     = errors.New("pricing sync already in flight")
)

// FetchError wraps a transport or auth failure while talking to the
// spreadsheet source. A failed fetch aborts the in-progress sync only; the
// previously committed snapshot keeps serving quotes.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a required anchor missing from the grid or a found
// section whose shape is corrupt. Absence of an optional keyword section is
// not a ParseError.
type ParseError struct {
	Section string
	Msg     string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.Section, e.Msg)
}
