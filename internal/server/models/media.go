package models

import "time"

type MediaStatus string

const (
	MediaPending  MediaStatus = "pending"
	MediaUploaded MediaStatus = "uploaded"
)

// Media is an uploaded asset. The bytes live in object storage under
// StorageKey.
type Media struct {
	ID         string
	OwnerID    string
	StorageKey string
	Name       string
	MimeType   string
	Kind       string
	Size       int64
	Status     MediaStatus
	CreatedAt  time.Time
}
