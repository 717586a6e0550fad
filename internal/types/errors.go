package types

import "fmt"

// ErrParseFailure marks an alert that was fetched but could not be parsed.
// Value identifies the alert, usually its mail UID.
type ErrParseFailure struct {
	Cause error
	Value any
}

func (e ErrParseFailure) Error() string {
	return fmt.Sprintf("error parsing message %v: %s", e.Value, e.Cause)
}

func (e ErrParseFailure) Unwrap() error {
	return e.Cause
}
