package media

import (
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/dmitrijs2005/gophtimeline/internal/client/models"
)

const defaultMimeType = "application/octet-stream"

var knownTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".heic": "image/heic",
	".heif": "image/heif",
	".mp4":  "video/mp4",
	".m4v":  "video/x-m4v",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".3gp":  "video/3gpp",
}

// DetectMimeType returns the asset's explicit type, else one guessed from the
// extension of its name or URI.
func DetectMimeType(a models.LocalAsset) string {
	if a.MimeType != "" {
		return a.MimeType
	}
	for _, candidate := range []string{a.Name, a.URI} {
		if t := typeByExt(extension(candidate)); t != "" {
			return t
		}
	}
	return defaultMimeType
}

func typeByExt(ext string) string {
	if ext == "" {
		return ""
	}
	if t, ok := knownTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		mt, _, _ := strings.Cut(t, ";")
		return mt
	}
	return ""
}

func extension(s string) string {
	if u, err := url.Parse(s); err == nil && u.Scheme != "" {
		s = u.Path
	}
	return strings.ToLower(path.Ext(s))
}

// KindOf maps a MIME type to the gallery kind.
func KindOf(mimeType string) models.MediaKind {
	if strings.HasPrefix(mimeType, "video/") {
		return models.MediaVideo
	}
	return models.MediaImage
}

func assetName(a models.LocalAsset) string {
	if a.Name != "" {
		return a.Name
	}
	s := a.URI
	if u, err := url.Parse(s); err == nil && u.Scheme != "" {
		s = u.Path
	}
	return path.Base(strings.ReplaceAll(s, "\\", "/"))
}
