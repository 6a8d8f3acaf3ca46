package domain

import (
	"path/filepath"
	"strings"
)

// AnyMimeType is reported for extensions outside the lookup table.
const AnyMimeType = "*/*"

var mimeByExtension = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"mp4":  "video/mp4",
	"mov":  "video/quicktime",
}

var extensionByMime = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"video/mp4":       ".mp4",
	"video/quicktime": ".mov",
}

// MimeTypeFor derives a MIME type from the file name's extension, ignoring case.
func MimeTypeFor(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if mt, ok := mimeByExtension[ext]; ok {
		return mt
	}
	return AnyMimeType
}

// ExtensionFor returns the canonical extension for mimeType, with its leading
// dot, or "" when there is none.
func ExtensionFor(mimeType string) string {
	return extensionByMime[mimeType]
}
