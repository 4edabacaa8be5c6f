package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemUploader writes images under a local directory, for
// development. The directory is expected to be served by the HTTP
// server under publicBaseURL.
type FilesystemUploader struct {
	basePath      string
	publicBaseURL string
}

// NewFilesystemUploader creates the base directory if needed.
func NewFilesystemUploader(basePath, publicBaseURL string) (*FilesystemUploader, error) {
	if err := os.MkdirAll(filepath.Join(basePath, "packages"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload path %s: %w", basePath, err)
	}
	return &FilesystemUploader{
		basePath:      basePath,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// Upload writes the image to disk and returns its public URL.
func (u *FilesystemUploader) Upload(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error) {
	if err := allowedImageType(contentType); err != nil {
		return "", err
	}

	key := objectName(filename)
	dst := filepath.Join(u.basePath, filepath.FromSlash(key))

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	return u.publicBaseURL + "/" + key, nil
}
