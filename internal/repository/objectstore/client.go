package objectstore

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/ous-demographics/internal/config"
)

const defaultRegion = "us-east-1"

// Client - обертка над minio клиентом, привязанная к одному bucket
type Client struct {
	client *minio.Client
	bucket string
	region string
	logger *zap.Logger
}

func NewClient(cfg *config.StorageConfig, logger *zap.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("object storage endpoint is required")
	}
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	logger.Info("Object storage client created",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("bucket", cfg.Bucket),
		zap.Bool("ssl", cfg.UseSSL))

	return &Client{client: client, bucket: cfg.Bucket, region: region, logger: logger}, nil
}

func (c *Client) Bucket() string {
	return c.bucket
}

// EnsureBucket создает bucket, если его нет
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.client.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", c.bucket, err)
	}
	if exists {
		return nil
	}
	if err := c.client.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{Region: c.region}); err != nil {
		return fmt.Errorf("create bucket %s: %w", c.bucket, err)
	}
	c.logger.Info("Bucket created", zap.String("bucket", c.bucket))
	return nil
}

// Health проверяет доступность bucket
func (c *Client) Health(ctx context.Context) error {
	_, err := c.client.BucketExists(ctx, c.bucket)
	return err
}

// Open возвращает поток чтения объекта. Ошибка отсутствия объекта приходит при первом чтении.
func (c *Client) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := c.client.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	return obj, nil
}

// Put загружает объект известного размера
func (c *Client) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	info, err := c.client.PutObject(ctx, c.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	c.logger.Info("Object uploaded",
		zap.String("bucket", c.bucket),
		zap.String("key", key),
		zap.Int64("size", info.Size))
	return nil
}
