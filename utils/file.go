package utils

import (
	"mime/multipart"
	"path/filepath"
	"strings"
)

// MaxImageSize is the largest catch photo accepted, in bytes.
const MaxImageSize = 10 * 1024 * 1024

var imageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".heic": "image/heic",
}

// ImageContentType returns the content type for an uploaded photo based on its
// extension, and false when the file is not an accepted image.
func ImageContentType(fileHeader *multipart.FileHeader) (string, bool) {
	if fileHeader == nil || fileHeader.Size > MaxImageSize {
		return "", false
	}
	ct, ok := imageExtensions[strings.ToLower(filepath.Ext(fileHeader.Filename))]
	return ct, ok
}
