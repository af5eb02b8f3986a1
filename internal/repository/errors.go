// Package repository implements persistence over MySQL.  It provides
// the transactional booking store consumed by the booking core plus
// the read-only catalog/report queries and user persistence used
// directly by the handlers.
package repository

import (
	"errors"
	"fmt"
)

// ErrEmailExists is returned when registration hits the unique index
// on users.email.
var ErrEmailExists = errors.New("email already exists")

// StoreError wraps a driver or connectivity failure from a single
// statement.  It is not recoverable locally: the enclosing operation
// is aborted and the error surfaces to the caller untouched.  Op names
// the statement that failed.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store: %s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }

// storeErr wraps err in a StoreError, passing nil through.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
