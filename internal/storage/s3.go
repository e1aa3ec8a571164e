package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/layomi72/clip-factory-pro/pkg/logging"
)

// S3Config holds configuration for the clip object store
type S3Config struct {
	Bucket    string // S3 bucket name
	Prefix    string // Key prefix for all operations
	Region    string // AWS region (default: us-east-1)
	Endpoint  string // Custom endpoint for S3-compatible storage (MinIO, etc.)
	AccessKey string // AWS access key (optional, uses IAM roles if empty)
	SecretKey string // AWS secret key (optional, uses IAM roles if empty)
}

// ObjectStore is the storage surface consumed by the clip pipeline.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// S3Client stores rendered clips and hands out presigned download URLs so
// publish workers never see credentials.
type S3Client struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	config        S3Config
	logger        logging.Logger
}

// NewS3Client creates a new S3 client with the given configuration.
func NewS3Client(cfg S3Config, logger logging.Logger) (*S3Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))

	// Use explicit credentials if provided, otherwise use default credential chain (IAM roles)
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // Required for MinIO and most S3-compatible storage
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Opts...)
	presignClient := s3.NewPresignClient(client)

	logger.WithFields(logging.Fields{
		"bucket":   cfg.Bucket,
		"prefix":   cfg.Prefix,
		"region":   cfg.Region,
		"endpoint": cfg.Endpoint,
	}).Info("S3 client initialized")

	return &S3Client{
		client:        client,
		presignClient: presignClient,
		config:        cfg,
		logger:        logger,
	}, nil
}

// fullKey returns the full S3 key including prefix
func (c *S3Client) fullKey(key string) string {
	if c.config.Prefix == "" {
		return key
	}
	return strings.TrimSuffix(c.config.Prefix, "/") + "/" + strings.TrimPrefix(key, "/")
}

// Put uploads an object and returns its canonical S3 URL.
func (c *S3Client) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	fullKey := c.fullKey(key)

	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.config.Bucket),
		Key:         aws.String(fullKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", fullKey, err)
	}

	c.logger.WithFields(logging.Fields{
		"bucket": c.config.Bucket,
		"key":    fullKey,
		"bytes":  len(data),
	}).Info("Uploaded object")

	return c.ObjectURL(key), nil
}

// Get downloads an object's contents.
func (c *S3Client) Get(ctx context.Context, key string) ([]byte, error) {
	fullKey := c.fullKey(key)

	out, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.config.Bucket),
		Key:    aws.String(fullKey),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", fullKey, err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", fullKey, err)
	}
	return data, nil
}

// Exists checks whether an object is present without downloading it.
func (c *S3Client) Exists(ctx context.Context, key string) (bool, error) {
	fullKey := c.fullKey(key)

	_, err := c.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.config.Bucket),
		Key:    aws.String(fullKey),
	})
	if err != nil {
		if isNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check %s: %w", fullKey, err)
	}
	return true, nil
}

// Delete removes an object. Deleting a missing object is not an error.
func (c *S3Client) Delete(ctx context.Context, key string) error {
	fullKey := c.fullKey(key)

	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.config.Bucket),
		Key:    aws.String(fullKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", fullKey, err)
	}

	c.logger.WithFields(logging.Fields{
		"bucket": c.config.Bucket,
		"key":    fullKey,
	}).Info("Deleted object")
	return nil
}

// PresignGet generates a time-limited download URL for a rendered clip.
func (c *S3Client) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if expiry == 0 {
		expiry = 15 * time.Minute
	}

	req, err := c.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.config.Bucket),
		Key:    aws.String(c.fullKey(key)),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned GET URL: %w", err)
	}
	return req.URL, nil
}

// ObjectURL returns the canonical URL for a stored object.
func (c *S3Client) ObjectURL(key string) string {
	fullKey := c.fullKey(key)
	if c.config.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(c.config.Endpoint, "/"), c.config.Bucket, fullKey)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.config.Bucket, c.config.Region, fullKey)
}

// ClipKey builds the bucket key for one rendered clip.
func ClipKey(userID, clipID string) string {
	return fmt.Sprintf("clips/%s/%s.mp4", userID, clipID)
}

// ThumbnailKey builds the bucket key for a clip thumbnail.
func ThumbnailKey(userID, clipID string) string {
	return fmt.Sprintf("thumbnails/%s/%s.jpg", userID, clipID)
}

// isNotFoundError checks for S3 not-found errors
func isNotFoundError(err error) bool {
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var noSuchKey *types.NoSuchKey
	return errors.As(err, &noSuchKey)
}
