package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"library/config"
	"library/internal/domain/service"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/pkg/errors"
)

const bucketCheckTimeout = 10 * time.Second

// s3Storage stores covers in an S3 compatible bucket (AWS S3 or MinIO).
type s3Storage struct {
	client    *s3.Client
	uploader  *manager.Uploader
	bucket    string
	publicURL string
	logger    *slog.Logger
}

// NewS3Storage builds the client, then makes sure the bucket exists.
func NewS3Storage(ctx context.Context, cfg config.S3StorageConfig, logger *slog.Logger) (service.CoverStorage, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, errors.New("s3 storage requires bucket and region")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AWS config")
	}

	endpoint := endpointURL(cfg.Endpoint, cfg.UseSSL)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	storage := &s3Storage{
		client:    client,
		uploader:  manager.NewUploader(client),
		bucket:    cfg.Bucket,
		publicURL: publicBaseURL(cfg, endpoint),
		logger:    logger,
	}

	if err := storage.ensureBucket(ctx, cfg.Region); err != nil {
		return nil, err
	}

	return storage, nil
}

func (s *s3Storage) ensureBucket(ctx context.Context, region string) error {
	ctx, cancel := context.WithTimeout(ctx, bucketCheckTimeout)
	defer cancel()

	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err == nil {
		return nil
	}

	s.logger.Info("Bucket not found, creating", slog.String("bucket", s.bucket))

	input := &s3.CreateBucketInput{Bucket: aws.String(s.bucket)}
	// us-east-1 rejects an explicit location constraint.
	if region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(region),
		}
	}
	if _, err := s.client.CreateBucket(ctx, input); err != nil {
		return errors.Wrapf(err, "failed to create bucket %s", s.bucket)
	}

	return nil
}

// Save uploads the image and returns its public URL.
func (s *s3Storage) Save(ctx context.Context, name string, r io.Reader, contentType string) (string, error) {
	if _, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(name),
		Body:        r,
		ContentType: aws.String(contentType),
	}); err != nil {
		return "", errors.Wrapf(err, "failed to upload cover %s", name)
	}

	return s.publicURL + "/" + name, nil
}

// Delete removes the object behind location.
func (s *s3Storage) Delete(ctx context.Context, location string) error {
	key := objectKey(location, s.publicURL)
	if key == "" {
		return nil
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return errors.Wrapf(err, "failed to delete cover %s", key)
	}

	return nil
}

func endpointURL(endpoint string, useSSL bool) string {
	if endpoint == "" || strings.Contains(endpoint, "://") {
		return endpoint
	}
	if useSSL {
		return "https://" + endpoint
	}

	return "http://" + endpoint
}

func publicBaseURL(cfg config.S3StorageConfig, endpoint string) string {
	if cfg.PublicURL != "" {
		return strings.TrimRight(cfg.PublicURL, "/")
	}
	if endpoint != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(endpoint, "/"), cfg.Bucket)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}

func objectKey(location, publicURL string) string {
	return strings.TrimPrefix(strings.TrimPrefix(location, publicURL), "/")
}
