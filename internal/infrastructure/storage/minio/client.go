package minio

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/turtacn/ContractPilot/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ContractPilot/pkg/errors"
)

// MinIOAPI is the subset of *minio.Client used here.
type MinIOAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	SetBucketPolicy(ctx context.Context, bucketName, policy string) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
	Bucket    string
	// PublicPrefix is made anonymously readable when the bucket is created.
	// Empty keeps the bucket private.
	PublicPrefix string
	// PublicBaseURL replaces scheme://endpoint in returned object URLs.
	PublicBaseURL string
}

type MinIOClient struct {
	client MinIOAPI
	config MinIOConfig
	logger logging.Logger
}

// NewMinIOClient connects and makes sure the configured bucket exists.
func NewMinIOClient(ctx context.Context, cfg MinIOConfig, log logging.Logger) (*MinIOClient, error) {
	applyDefaults(&cfg)

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to create minio client")
	}

	c := newClientWithAPI(client, cfg, log)
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := c.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	c.logger.Info("MinIO client connected",
		logging.String("endpoint", cfg.Endpoint), logging.String("bucket", cfg.Bucket), logging.Bool("ssl", cfg.UseSSL))
	return c, nil
}

func newClientWithAPI(api MinIOAPI, cfg MinIOConfig, log logging.Logger) *MinIOClient {
	if log == nil {
		log = logging.NewNopLogger()
	}
	applyDefaults(&cfg)
	return &MinIOClient{client: api, config: cfg, logger: log}
}

func applyDefaults(cfg *MinIOConfig) {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.Bucket == "" {
		cfg.Bucket = "contracts"
	}
}

// EnsureBucket creates the bucket when missing and applies the public read
// policy for PublicPrefix to a newly created bucket.
func (c *MinIOClient) EnsureBucket(ctx context.Context) error {
	bucket := c.config.Bucket
	exists, err := c.client.BucketExists(ctx, bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to check bucket existence")
	}
	if exists {
		return nil
	}
	if err := c.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: c.config.Region}); err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, fmt.Sprintf("failed to create bucket %s", bucket))
	}
	c.logger.Info("Created bucket", logging.String("bucket", bucket))

	if c.config.PublicPrefix == "" {
		return nil
	}
	if err := c.client.SetBucketPolicy(ctx, bucket, publicReadPolicy(bucket, c.config.PublicPrefix)); err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to set bucket policy")
	}
	return nil
}

func publicReadPolicy(bucket, prefix string) string {
	prefix = strings.Trim(prefix, "/")
	return fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/%s/*"]}]}`,
		bucket, prefix)
}

// HealthCheck verifies the bucket is reachable.
func (c *MinIOClient) HealthCheck(ctx context.Context) error {
	exists, err := c.client.BucketExists(ctx, c.config.Bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "minio unreachable")
	}
	if !exists {
		return errors.New(errors.ErrCodeStorageError, "bucket missing").WithDetail(c.config.Bucket)
	}
	return nil
}

func (c *MinIOClient) Bucket() string { return c.config.Bucket }

// ObjectURL is the public URL of an object.
func (c *MinIOClient) ObjectURL(objectName string) string {
	base := strings.TrimRight(c.config.PublicBaseURL, "/")
	if base == "" {
		scheme := "http"
		if c.config.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s", scheme, c.config.Endpoint)
	}
	return fmt.Sprintf("%s/%s/%s", base, c.config.Bucket, strings.TrimLeft(objectName, "/"))
}

//Personal.AI order the ending
