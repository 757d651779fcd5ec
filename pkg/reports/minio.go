package reports

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	minioScheme   = "s3://"
	reportsPrefix = "reports"
	csvMediaType  = "text/csv"
)

type MinioOpts func(c *minioConfig)

type minioConfig struct {
	endpoint        string
	bucket          string
	accessKey       string
	secretAccessKey string
	prefix          string
	useSSL          bool
}

func newConfig(opts ...MinioOpts) *minioConfig {
	cfg := &minioConfig{
		useSSL: false,
		prefix: reportsPrefix,
	}

	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

type minioStore struct {
	cfg    *minioConfig
	client *minio.Client
}

func NewMinioStore(opts ...MinioOpts) (*minioStore, error) {
	cfg := newConfig(opts...)
	if cfg.bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	client, err := minio.New(cfg.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.accessKey, cfg.secretAccessKey, ""),
		Secure: cfg.useSSL,
	})
	if err != nil {
		return nil, err
	}

	return &minioStore{cfg: cfg, client: client}, nil
}

// Put uploads the report and returns it as s3://<bucket>/<key>.
func (s *minioStore) Put(ctx context.Context, name string, data []byte) (string, error) {
	key := s.objectKey(name)

	_, err := s.client.PutObject(ctx, s.cfg.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: csvMediaType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report %s: %w", key, err)
	}

	return s.location(key), nil
}

func (s *minioStore) Get(ctx context.Context, location string) (io.ReadCloser, error) {
	key, err := s.keyFromLocation(location)
	if err != nil {
		return nil, err
	}

	object, err := s.client.GetObject(ctx, s.cfg.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}

	// GetObject is lazy, Stat surfaces a missing key
	if _, err := object.Stat(); err != nil {
		_ = object.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	return object, nil
}

func (s *minioStore) Type() string {
	return "minio"
}

func (s *minioStore) objectKey(name string) string {
	if s.cfg.prefix == "" {
		return name
	}
	return s.cfg.prefix + "/" + name
}

func (s *minioStore) location(key string) string {
	return minioScheme + s.cfg.bucket + "/" + key
}

func (s *minioStore) keyFromLocation(location string) (string, error) {
	bucketPrefix := minioScheme + s.cfg.bucket + "/"
	if !strings.HasPrefix(location, bucketPrefix) {
		return "", fmt.Errorf("location %q is not in bucket %s", location, s.cfg.bucket)
	}
	return strings.TrimPrefix(location, bucketPrefix), nil
}

func WithEndpoint(endpoint string) MinioOpts {
	return func(c *minioConfig) {
		c.endpoint = endpoint
	}
}

func WithBucket(bucket string) MinioOpts {
	return func(c *minioConfig) {
		c.bucket = bucket
	}
}

func WithPrefix(prefix string) MinioOpts {
	return func(c *minioConfig) {
		c.prefix = strings.Trim(prefix, "/")
	}
}

func WithAccessKey(accessKey string) MinioOpts {
	return func(c *minioConfig) {
		c.accessKey = accessKey
	}
}

func WithSecretKey(secretKey string) MinioOpts {
	return func(c *minioConfig) {
		c.secretAccessKey = secretKey
	}
}

func WithSSL(useSSL bool) MinioOpts {
	return func(c *minioConfig) {
		c.useSSL = useSSL
	}
}
