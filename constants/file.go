package constants

import "strings"

// MaxUploadBytes is the hard cap on receipt images accepted by the intake
// pipeline. Larger files are rejected before any network call.
const MaxUploadBytes = 10 << 20 // 10MB

// AllowedExtensions holds the default allowed file extensions for receipt capture.
var AllowedExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"webp": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsImageMIME reports whether the content type names an image.
func IsImageMIME(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mimeType)), "image/")
}

// ImageDataFormat maps a MIME type to the short format tag the vision API
// expects ("png", "jpeg"). Unknown image subtypes fall back to "jpeg".
func ImageDataFormat(mimeType string) string {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case strings.HasSuffix(mt, "/png"):
		return "png"
	case strings.HasSuffix(mt, "/webp"):
		return "webp"
	default:
		return "jpeg"
	}
}
