package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const uploadAttempts = 3

var (
	// ErrUploadFailed is returned when the object storage rejects an upload
	// after all retries.
	ErrUploadFailed = errors.New("image upload failed")
)

// Uploader stores an uploaded binary and returns a durable public URL.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// s3API is the subset of the S3 client the uploader needs.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewClient creates and configures a new AWS S3 client.
// It loads the AWS configuration from the environment and optionally sets a custom endpoint.
func NewClient(ctx context.Context, region string, endpoint string) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, err
	}

	// Override endpoint for LocalStack/MinIO if specified
	if endpoint != "" {
		awsCfg.BaseEndpoint = aws.String(endpoint)
		return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.UsePathStyle = true
		}), nil
	}

	return s3.NewFromConfig(awsCfg), nil
}

// S3Uploader implements Uploader on top of an S3-compatible bucket.
type S3Uploader struct {
	client        s3API
	bucket        string
	publicBaseURL string
}

// NewS3Uploader creates an uploader writing to the given bucket. publicBaseURL
// is the prefix of the returned object URLs; when empty the standard
// virtual-hosted S3 URL is used.
func NewS3Uploader(client *s3.Client, bucket, publicBaseURL string) *S3Uploader {
	return &S3Uploader{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}
}

// Upload stores the object and returns its public URL. Failed attempts are
// retried before giving up with ErrUploadFailed; there is no placeholder
// fallback, a failed upload fails the whole request.
func (u *S3Uploader) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= uploadAttempts; attempt++ {
		_, lastErr = u.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(u.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType),
		})
		if lastErr == nil {
			return u.objectURL(key), nil
		}
		slog.Error("image upload attempt failed",
			slog.Any("err", lastErr),
			slog.String("key", key),
			slog.Int("attempt", attempt),
		)
		if ctx.Err() != nil {
			break
		}
	}
	return "", fmt.Errorf("%w: %v", ErrUploadFailed, lastErr)
}

func (u *S3Uploader) objectURL(key string) string {
	if u.publicBaseURL != "" {
		return fmt.Sprintf("%s/%s", u.publicBaseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", u.bucket, key)
}
