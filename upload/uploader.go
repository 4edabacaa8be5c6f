package upload

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Uploader stores a submitted image and returns a public URL for it.
// Upload failures are fatal for the request that carries the image.
type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error)
}

// objectName builds a collision-free object key that keeps the original
// extension so hosting services serve the right content type.
func objectName(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("packages/%s%s", uuid.NewString(), ext)
}

// allowedImageType restricts uploads to the image content types the
// email template can embed.
func allowedImageType(contentType string) error {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return nil
	}
	return fmt.Errorf("unsupported image content type: %s", contentType)
}
