// Package media is the boundary to the external media host. Uploads that
// do not yield a public URL abort the enclosing operation before any store
// write happens.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var ErrUploadFailed = errors.New("media upload failed")

type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// S3API is the subset of the S3 client the uploader uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader stores objects in a bucket and returns their public URL.
type S3Uploader struct {
	client  S3API
	bucket  string
	baseURL string
	logger  *slog.Logger
}

func NewS3Uploader(client S3API, bucket, baseURL string, logger *slog.Logger) *S3Uploader {
	if logger == nil {
		logger = slog.Default()
	}
	return &S3Uploader{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}
}

func (u *S3Uploader) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if u.client == nil || u.bucket == "" {
		return "", fmt.Errorf("%w: uploader not configured", ErrUploadFailed)
	}
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: put %s: %v", ErrUploadFailed, key, err)
	}
	url := u.publicURL(key)
	u.logger.Info("uploaded media object", "key", key, "url", url)
	return url, nil
}

func (u *S3Uploader) publicURL(key string) string {
	if u.baseURL != "" {
		return u.baseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", u.bucket, key)
}
