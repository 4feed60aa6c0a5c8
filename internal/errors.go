package internal

import (
	"errors"
	"fmt"
)

// StorageError represents a failure of the local persistence layer. It is
// fatal to the current operation and is never retried internally.
type StorageError struct {
	Op  string // "open", "migrate", "query", "exec"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsStorageError reports whether err originated in the persistence layer.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
