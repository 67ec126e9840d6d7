// utils/r2.go
package utils

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// R2Config holds the Cloudflare R2 credentials.
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	CDNBaseURL      string
}

// R2ImageStore uploads catch photos to Cloudflare R2 through the S3 API.
type R2ImageStore struct {
	client     *s3.Client
	bucket     string
	cdnBaseURL string
}

func NewR2ImageStore(ctx context.Context, cfg R2Config) (*R2ImageStore, error) {
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	cdnBaseURL := cfg.CDNBaseURL
	if cdnBaseURL == "" {
		cdnBaseURL = endpoint
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.AccessKeySecret, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})
	return &R2ImageStore{client: client, bucket: cfg.Bucket, cdnBaseURL: strings.TrimRight(cdnBaseURL, "/")}, nil
}

// Upload stores body under key and returns the public URL.
func (s *R2ImageStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to R2: %w", err)
	}
	return fmt.Sprintf("%s/%s", s.cdnBaseURL, key), nil
}

// Delete removes the object stored under key.
func (s *R2ImageStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from R2: %w", err)
	}
	return nil
}

// ImageKey builds the object key of a catch photo, e.g. "catches/<user>/northern-pike-<uuid>.jpg".
func ImageKey(userID, species, filename string) string {
	name := slug.Make(species)
	if name == "" {
		name = "catch"
	}
	return fmt.Sprintf("catches/%s/%s-%s%s", userID, name, uuid.NewString(), strings.ToLower(filepath.Ext(filename)))
}

// ReadUpload buffers a multipart file so it can be sent with a known length.
func ReadUpload(fileHeader *multipart.FileHeader) (*bytes.Reader, string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, file); err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}
	return bytes.NewReader(buf.Bytes()), fileHeader.Header.Get("Content-Type"), nil
}
