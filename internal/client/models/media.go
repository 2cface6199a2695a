package models

import (
	"slices"

	"github.com/dmitrijs2005/gophtimeline/internal/gatewayapi"
)

type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// MediaDescriptor is a resolved media item. URLs may be empty for items
// known only by id.
type MediaDescriptor struct {
	ID   string
	Kind MediaKind
	URLs []string
}

// ThumbnailURL is the first URL, or empty.
func (d MediaDescriptor) ThumbnailURL() string {
	if len(d.URLs) == 0 {
		return ""
	}
	return d.URLs[0]
}

func (d MediaDescriptor) Clone() MediaDescriptor {
	d.URLs = slices.Clone(d.URLs)
	return d
}

func MediaFromWire(m gatewayapi.Media) MediaDescriptor {
	kind := MediaKind(m.Kind)
	if kind != MediaVideo {
		kind = MediaImage
	}
	return MediaDescriptor{ID: m.ID, Kind: kind, URLs: slices.Clone(m.URLs)}
}

// LocalAsset is a file picked by the user, not yet uploaded.
type LocalAsset struct {
	URI      string
	Name     string
	MimeType string
}

// UploadFile is one element of a batch upload request.
type UploadFile struct {
	URI      string
	Name     string
	MimeType string
}
