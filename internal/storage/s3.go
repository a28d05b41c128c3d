package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/medbrief/telemed-api/internal/config"
)

// S3Store holds consultation audio and profile pictures in an
// S3-compatible bucket. Audio objects are private and handed to the
// transcription service via short-lived presigned GET URLs; profile
// pictures get stable object URLs.
type S3Store struct {
	client  *s3.Client
	presign *s3.PresignClient

	bucket   string
	endpoint string
	region   string
	urlTTL   time.Duration
}

func NewS3Store(cfg *config.Config) *S3Store {
	client := s3.New(s3.Options{
		Region: cfg.S3Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		),
	}, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{
		client:   client,
		presign:  s3.NewPresignClient(client),
		bucket:   cfg.S3Bucket,
		endpoint: cfg.S3Endpoint,
		region:   cfg.S3Region,
		urlTTL:   time.Duration(cfg.ConsultationURLTTLMins) * time.Minute,
	}
}

// UploadAudio stores an audio object and returns a presigned URL the
// transcription service can fetch it from.
func (s *S3Store) UploadAudio(
	ctx context.Context,
	key string,
	body io.Reader,
	contentType string,
) (string, error) {

	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}); err != nil {
		return "", fmt.Errorf("put audio object: %w", err)
	}

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.urlTTL))
	if err != nil {
		return "", fmt.Errorf("presign audio object: %w", err)
	}

	return req.URL, nil
}

// UploadImage stores an already-encoded image and returns its object URL.
func (s *S3Store) UploadImage(
	ctx context.Context,
	key string,
	data []byte,
	contentType string,
) (string, error) {

	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}); err != nil {
		return "", fmt.Errorf("put image object: %w", err)
	}

	return s.ObjectURL(key), nil
}

func (s *S3Store) ObjectURL(key string) string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.endpoint, "/"), s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
