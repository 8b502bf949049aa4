package history

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated reports a history operation with no owner attached.
var ErrNotAuthenticated = errors.New("no authenticated owner")

// StorageError wraps a failure while persisting image bytes to the blob
// backend. The metadata row was never inserted.
type StorageError struct {
	Err error
}

func (e StorageError) Error() string {
	return fmt.Sprintf("image storage failed: %v", e.Err)
}

func (e StorageError) Unwrap() error { return e.Err }

// WriteError wraps a failure while inserting the metadata row. The uploaded
// object has been rolled back on a best-effort basis.
type WriteError struct {
	Err error
}

func (e WriteError) Error() string {
	return fmt.Sprintf("image record insert failed: %v", e.Err)
}

func (e WriteError) Unwrap() error { return e.Err }
