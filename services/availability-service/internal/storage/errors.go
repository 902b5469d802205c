package storage

import "errors"

// StoreError wraps every failure coming out of the persistence layer so callers
// never have to recognize driver-specific errors. A missing row is not a
// StoreError; lookups report absence as a boolean.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return "availability store: " + e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func wrap(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
