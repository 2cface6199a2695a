package media

import (
	"errors"
	"fmt"
)

var (
	ErrUploadInProgress = errors.New("media upload already in progress")
	errNoDescriptor     = errors.New("empty media descriptor")
)

// UploadError reports a failed batch. Nothing from the batch may be assumed
// persisted.
type UploadError struct {
	// Stage is "upload" for the batch call or "resolve" for descriptor fetches.
	Stage string
	ID    string
	Err   error
}

func (e *UploadError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("media %s failed for %s: %v", e.Stage, e.ID, e.Err)
	}
	return fmt.Sprintf("media %s failed: %v", e.Stage, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }
