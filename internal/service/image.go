package service

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pantrybox/pantrybox-backend/config"
)

// ImageStorage stores binary image payloads and hands back a stable
// location string. The rest of the system treats the location as opaque.
type ImageStorage interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, location string) error
}

// S3ImageStorage stores recipe images in an S3 bucket.
type S3ImageStorage struct {
	client *s3.Client
	bucket string
}

var _ ImageStorage = (*S3ImageStorage)(nil)

func NewS3ImageStorage(cfg *config.S3Config) *S3ImageStorage {
	return &S3ImageStorage{
		client: cfg.Client,
		bucket: cfg.BucketName,
	}
}

// Upload writes the object and returns its public URL.
func (s *S3ImageStorage) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key), nil
}

// Delete removes a previously uploaded object given its location URL.
func (s *S3ImageStorage) Delete(ctx context.Context, location string) error {
	parsed, err := url.Parse(location)
	if err != nil {
		return fmt.Errorf("invalid image location %q: %w", location, err)
	}
	key := strings.TrimPrefix(parsed.Path, "/")
	if key == "" {
		return fmt.Errorf("invalid image location %q", location)
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}
