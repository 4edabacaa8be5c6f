package upload

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Uploader stores images in an S3-compatible bucket via MinIO.
type S3Uploader struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

// NewS3Uploader connects to an S3-compatible endpoint. publicBaseURL is
// the externally reachable prefix objects are served from; when empty
// it is derived from the endpoint and bucket.
func NewS3Uploader(endpoint, accessKey, secretKey, bucket, publicBaseURL string, useSSL bool) (*S3Uploader, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	if publicBaseURL == "" {
		scheme := "http"
		if useSSL {
			scheme = "https"
		}
		publicBaseURL = fmt.Sprintf("%s://%s/%s", scheme, endpoint, bucket)
	}

	return &S3Uploader{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// Upload stores the image and returns its public URL.
func (u *S3Uploader) Upload(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error) {
	if err := allowedImageType(contentType); err != nil {
		return "", err
	}

	key := objectName(filename)
	_, err := u.client.PutObject(ctx, u.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image to S3: %w", err)
	}

	return u.publicBaseURL + "/" + key, nil
}
