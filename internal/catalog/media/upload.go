package media

import (
	"net/http"

	"github.com/google/uuid"
)

// Upload limits
const (
	MaxUploadFiles = 10
	MaxUploadBytes = 2 << 20
)

// blobDir is the key prefix of every product image
const blobDir = "products/"

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// DetectImage sniffs data and returns its content type and file extension.
// ok is false for anything other than jpeg, png or gif.
func DetectImage(data []byte) (contentType, ext string, ok bool) {
	contentType = http.DetectContentType(data)
	ext, ok = imageExtensions[contentType]
	return contentType, ext, ok
}

// BlobName returns a fresh key under products/ with the given extension
func BlobName(ext string) string {
	return blobDir + uuid.NewString() + ext
}
