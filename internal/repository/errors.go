package repository

import "fmt"

// StorageError wraps a database failure with the operation that produced it.
// Callers that swallow storage failures (the delist pipeline is best-effort
// around its primary side effect) still get a typed, inspectable error to log
// instead of an opaque driver message.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// storageErr wraps err in a StorageError, or returns nil if err is nil.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
