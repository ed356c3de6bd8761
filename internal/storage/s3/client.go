// Package s3 stores uploaded attachments in an S3-compatible bucket.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Config holds bucket settings.
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string // S3-compatible endpoint (MinIO, R2); enables path-style addressing
	Prefix    string // key prefix, e.g. "uploads/"
	PublicURL string // base URL for returned links; derived from bucket and endpoint when empty
	AccessKey string
	SecretKey string
}

// Store uploads attachments and returns their public URLs.
type Store struct {
	client    *s3.Client
	bucket    string
	prefix    string
	publicURL string
	newID     func() string
}

// New creates an S3 attachment store.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Store{
		client:    client,
		bucket:    cfg.Bucket,
		prefix:    cfg.Prefix,
		publicURL: publicBase(cfg),
		newID:     uuid.NewString,
	}, nil
}

// Upload stores one file under <prefix><resource>/<uuid>-<filename> and returns its URL.
func (s *Store) Upload(ctx context.Context, resource, filename, contentType string, body io.Reader) (string, error) {
	key := s.Key(resource, filename)

	// SigV4 over plain HTTP needs a seekable body to hash the payload.
	if _, ok := body.(io.ReadSeeker); !ok {
		data, err := io.ReadAll(body)
		if err != nil {
			return "", fmt.Errorf("read attachment %q: %w", filename, err)
		}
		body = bytes.NewReader(data)
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put object %q: %w", key, err)
	}

	return s.URL(key), nil
}

// Key builds the object key for an uploaded file.
func (s *Store) Key(resource, filename string) string {
	return s.prefix + resource + "/" + s.newID() + "-" + sanitize(filename)
}

// URL returns the public link for key.
func (s *Store) URL(key string) string {
	return s.publicURL + "/" + (&url.URL{Path: key}).EscapedPath()
}

func publicBase(cfg Config) string {
	switch {
	case cfg.PublicURL != "":
		return strings.TrimRight(cfg.PublicURL, "/")
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}

// sanitize strips directories and whitespace from a client-supplied file name.
func sanitize(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	name = strings.Join(strings.Fields(name), "_")
	if name == "" || name == "." || name == "/" {
		return "file"
	}
	return name
}
