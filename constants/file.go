package constants

import "strings"

// OCRContentTypes holds the download content types accepted for text detection.
// Servers that do not label their payload send application/octet-stream.
var OCRContentTypes = map[string]struct{}{
	"image/jpeg":               {},
	"image/png":                {},
	"image/gif":                {},
	"image/webp":               {},
	"image/bmp":                {},
	"image/tiff":               {},
	"application/octet-stream": {},
}

// MaxOCRImageMB caps the size of a downloaded invoice image.
const MaxOCRImageMB = 20

// NormalizeContentType lowercases a Content-Type header and drops its parameters.
func NormalizeContentType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

// IsOCRContentType reports whether a downloaded file may be sent to text detection.
// An empty content type is accepted.
func IsOCRContentType(ct string) bool {
	ct = NormalizeContentType(ct)
	if ct == "" {
		return true
	}
	_, ok := OCRContentTypes[ct]
	return ok
}
