package timeline

import (
	"errors"
	"fmt"
)

var (
	ErrBusy     = errors.New("timeline save already in progress")
	ErrNotFound = errors.New("timeline entry not found")
)

// SyncError wraps any store failure. Op is "fetch", "merge" or "write"; no
// partial write may be assumed.
type SyncError struct {
	Op  string
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("timeline %s: %v", e.Op, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }
