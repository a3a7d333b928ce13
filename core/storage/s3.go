package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"forum-api/core/config"
	"forum-api/core/logger"
	"forum-api/core/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Storage issues presigned upload URLs for company logos and resolves the
// public URL of stored objects.
type Storage struct {
	presigner *s3.PresignClient
	bucket    string
	publicURL string
}

func NewStorage(cfg config.S3Config) (Storage, error) {
	if cfg.Bucket == "" {
		return Storage{}, fmt.Errorf("s3 bucket is required")
	}

	options := s3.Options{
		Region:      cfg.Region,
		Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	}
	if cfg.Endpoint != "" {
		options.BaseEndpoint = aws.String(cfg.Endpoint)
		options.UsePathStyle = true
	}

	client := s3.New(options)
	logger.Info("S3 storage initialized", "bucket", cfg.Bucket, "region", cfg.Region)

	return Storage{
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}, nil
}

// PresignLogoUpload returns a presigned PUT URL and the object key for a new
// company logo upload.
func (s *Storage) PresignLogoUpload(ctx context.Context, companySlug, contentType string) (uploadURL, key string, err error) {
	key = fmt.Sprintf("logos/%s-%s", companySlug, utils.GenerateID())

	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", "", fmt.Errorf("presign logo upload: %w", err)
	}

	return req.URL, key, nil
}

// ObjectURL resolves the public URL for a stored object key.
func (s *Storage) ObjectURL(key string) string {
	if key == "" {
		return ""
	}
	if s.publicURL != "" {
		return s.publicURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
}
