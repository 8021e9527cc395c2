package lists

import "errors"

var (
	ErrInvalidArgument = errors.New("invalid arguments")
	ErrOutOfBounds     = errors.New("list index out of bounds")
	ErrNotFound        = errors.New("element not found")
)

// NotFound is returned by IndexOf when no element matches.
const NotFound = -1

// OpError records the list operation that failed.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string { return "lists: " + e.Op + ": " + e.Err.Error() }

func (e *OpError) Unwrap() error { return e.Err }

func opError(op string, err error) error {
	return &OpError{Op: op, Err: err}
}
