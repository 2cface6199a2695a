package client

import "errors"

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("timeline was changed by another writer")
	ErrNotFound     = errors.New("not found")
	ErrBadResponse  = errors.New("unexpected server response")
)
