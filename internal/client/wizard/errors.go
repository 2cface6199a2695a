package wizard

import "errors"

var (
	ErrBusy         = errors.New("upload or save in progress")
	ErrCancelled    = errors.New("composer cancelled")
	ErrNotAtPreview = errors.New("commit is only possible from the preview stage")
	ErrUnknownMedia = errors.New("media is not in the gallery")
)
