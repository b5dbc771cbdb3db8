package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/pellicle-photo/pellicle/internal/util"
)

// NewS3 creates an ObjectStorage implementation backed by an S3 bucket,
// returning a pointer to the concrete implementation.
// Credentials and region come from the default AWS credential chain. If
// AWS_ENDPOINT_URL is set, the client targets that endpoint with path-style
// addressing so S3-compatible services like MinIO or LocalStack work.
func NewS3(ctx context.Context, bucket string) (ObjectStorage, error) {

	if bucket == "" {
		return nil, fmt.Errorf("bucket name is empty")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws configuration: %v", err)
	}

	var opts []func(*s3.Options)
	if endpoint := os.Getenv("AWS_ENDPOINT_URL"); endpoint != "" {
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	return &s3Storage{
		client: s3.NewFromConfig(cfg, opts...),
		bucket: bucket,

		logger: slog.Default().
			With(slog.String(util.PackageKey, util.PackageStore)).
			With(slog.String(util.ComponentKey, util.ComponentObjStore)),
	}, nil
}

var _ ObjectStorage = (*s3Storage)(nil)

// s3Storage is the concrete implementation of the ObjectStorage interface
// over an S3-compatible bucket.
type s3Storage struct {
	client *s3.Client
	bucket string

	logger *slog.Logger
}

// PutObject is the concrete implementation of the interface method which
// writes data to the given key, unconditionally overwriting any existing
// object at that key.
func (s *s3Storage) PutObject(ctx context.Context, key string, data []byte, contentType string) error {

	if key == "" {
		return fmt.Errorf("object key is empty")
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s to bucket %s: %w", key, s.bucket, err)
	}

	s.logger.Debug("put object", "key", key, "size", len(data))

	return nil
}

// GetObject is the concrete implementation of the interface method which
// reads the full object at the given key.
func (s *s3Storage) GetObject(ctx context.Context, key string) ([]byte, error) {

	if key == "" {
		return nil, fmt.Errorf("object key is empty")
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to get object %s from bucket %s: %w", key, s.bucket, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body of object %s: %w", key, err)
	}

	s.logger.Debug("got object", "key", key, "size", len(data))

	return data, nil
}

// ListKeys is the concrete implementation of the interface method which
// returns all object keys under the given prefix.
func (s *s3Storage) ListKeys(ctx context.Context, prefix string) ([]string, error) {

	var keys []string

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects with prefix %s: %w", prefix, err)
		}

		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}

	return keys, nil
}

// DeleteObject is the concrete implementation of the interface method which
// removes the object at the given key.
func (s *s3Storage) DeleteObject(ctx context.Context, key string) error {

	if key == "" {
		return fmt.Errorf("object key is empty")
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s from bucket %s: %w", key, s.bucket, err)
	}

	return nil
}

// DeletePrefix is the concrete implementation of the interface method which
// removes every object under the given prefix, deleting in batches per
// listing page.
func (s *s3Storage) DeletePrefix(ctx context.Context, prefix string) error {

	if prefix == "" {
		return fmt.Errorf("object prefix is empty")
	}

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	deleted := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to list objects for deletion under prefix %s: %w", prefix, err)
		}

		if len(page.Contents) == 0 {
			continue
		}

		ids := make([]types.ObjectIdentifier, 0, len(page.Contents))
		for _, obj := range page.Contents {
			ids = append(ids, types.ObjectIdentifier{Key: obj.Key})
		}

		if _, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{
				Objects: ids,
				Quiet:   aws.Bool(true),
			},
		}); err != nil {
			return fmt.Errorf("failed to delete batch of %d objects under prefix %s: %w", len(ids), prefix, err)
		}

		deleted += len(ids)
	}

	s.logger.Info(fmt.Sprintf("deleted %d objects under prefix %s", deleted, prefix))

	return nil
}

// ObjectExists is the concrete implementation of the interface method which
// checks whether an object exists at the given key via a head request.
func (s *s3Storage) ObjectExists(ctx context.Context, key string) (bool, error) {

	if key == "" {
		return false, fmt.Errorf("object key is empty")
	}

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
		return false, nil
	}

	return false, fmt.Errorf("failed to check existence of object %s in bucket %s: %w", key, s.bucket, err)
}

// PresignGet is the concrete implementation of the interface method which
// generates a time-limited URL granting read access to the object at the
// given key.
func (s *s3Storage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {

	if key == "" {
		return "", fmt.Errorf("object key is empty")
	}

	presigner := s3.NewPresignClient(s.client)

	presigned, err := presigner.PresignGetObject(ctx,
		&s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		},
		s3.WithPresignExpires(ttl),
	)
	if err != nil {
		return "", fmt.Errorf("failed to presign get url for object %s: %w", key, err)
	}

	return presigned.URL, nil
}
