package oerror

import "fmt"

// Error is the error type returned by charsim packages.
type Error struct {
	Err string
}

// New returns an *Error with a message formatted from the format and args passed.
func New(format string, args ...interface{}) *Error {
	return &Error{Err: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.Err
}
