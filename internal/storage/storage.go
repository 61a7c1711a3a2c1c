// Package storage downloads uploaded resumes from S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// MaxObjectBytes caps the size of a downloaded resume.
const MaxObjectBytes = 20 << 20

// ErrTooLarge is returned when an object exceeds MaxObjectBytes.
var ErrTooLarge = fmt.Errorf("object exceeds %d bytes", MaxObjectBytes)

// Config locates the bucket. Endpoint is set for R2, MinIO and other
// S3-compatible services; empty means AWS. Keys fall back to the default
// credential chain when empty.
type Config struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	// Attempts is the number of download tries; defaults to 3.
	Attempts int
}

// Store reads objects from one bucket.
type Store struct {
	client   *s3.Client
	bucket   string
	attempts int
	backoff  func(attempt int) time.Duration
}

// New builds a Store from cfg.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, &Error{Message: "bucket is required"}
	}
	if cfg.Region == "" {
		cfg.Region = "auto"
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = 3
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, &Error{Message: "failed to load AWS config", Cause: err}
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// Download retries with its own backoff.
		o.RetryMaxAttempts = 1
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Store{
		client:   client,
		bucket:   cfg.Bucket,
		attempts: cfg.Attempts,
		backoff: func(attempt int) time.Duration {
			return time.Duration(500*(attempt+1)) * time.Millisecond
		},
	}, nil
}

// Bucket returns the bucket name.
func (s *Store) Bucket() string {
	return s.bucket
}

// Download fetches the object at key, retrying transient failures. A missing
// key or an oversized object fails on the first attempt.
func (s *Store) Download(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, &Error{Message: "object key is required"}
	}

	var lastErr error
	for attempt := 0; attempt < s.attempts; attempt++ {
		data, err := s.get(ctx, key)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		if permanent(err) {
			return nil, &Error{Key: key, Message: "download failed", Cause: err}
		}
		if attempt < s.attempts-1 {
			log.Printf("[storage] download %s failed (attempt %d/%d): %v", key, attempt+1, s.attempts, err)
			select {
			case <-ctx.Done():
				return nil, &Error{Key: key, Message: "download canceled", Cause: ctx.Err()}
			case <-time.After(s.backoff(attempt)):
			}
		}
	}
	return nil, &Error{Key: key, Message: fmt.Sprintf("download failed after %d attempts", s.attempts), Cause: lastErr}
}

func (s *Store) get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer func() { _ = out.Body.Close() }()

	buf := new(bytes.Buffer)
	n, err := io.Copy(buf, io.LimitReader(out.Body, MaxObjectBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	if n > MaxObjectBytes {
		return nil, ErrTooLarge
	}
	return buf.Bytes(), nil
}

// permanent reports whether retrying err cannot succeed.
func permanent(err error) bool {
	if errors.Is(err, ErrTooLarge) {
		return true
	}
	var noSuchKey *s3types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.HTTPStatusCode() {
		case http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound:
			return true
		}
	}
	return false
}
