package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/cooklog/backend/config"
)

// BlobStore is the external storage collaborator for uploaded images and
// PDFs. Uploads happen synchronously within the request.
type BlobStore interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
	PresignedURL(ctx context.Context, key string, expiration time.Duration) (string, error)
}

// ImageKey returns the stable per-record storage path for an image.
func ImageKey(id uuid.UUID, filename string) string {
	return fmt.Sprintf("cooklog/images/%s/%s", id, filename)
}

// PDFKey returns the stable per-record storage path for a PDF.
func PDFKey(id uuid.UUID, filename string) string {
	return fmt.Sprintf("cooklog/pdfs/%s/%s", id, filename)
}

// S3Storage stores blobs in the configured S3 bucket.
type S3Storage struct {
	s3Config *config.S3Config
}

func NewS3Storage(s3Config *config.S3Config) *S3Storage {
	return &S3Storage{s3Config: s3Config}
}

// Upload writes the blob and returns its public URL.
func (s *S3Storage) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key)
	log.Printf("[Storage] uploaded %s", key)
	return publicURL, nil
}

// PresignedURL generates a time-limited download URL for the given key.
func (s *S3Storage) PresignedURL(ctx context.Context, key string, expiration time.Duration) (string, error) {
	return s.s3Config.GeneratePresignedURL(ctx, key, expiration)
}
