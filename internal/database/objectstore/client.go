// Package objectstore implements the object paradigm over MinIO.
package objectstore

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/polystoreio/polystore/pkg/gateway/adapter"
	"github.com/polystoreio/polystore/pkg/paradigm"
)

// Client wraps the MinIO client pinned to one bucket.
type Client struct {
	client *minio.Client
	bucket string
	region string
}

// NewClient creates a MinIO client from a connection config and guarantees
// the configured bucket exists.
func NewClient(ctx context.Context, cfg adapter.ConnectionConfig) (*Client, error) {
	port := cfg.Port
	if port == 0 {
		port = paradigm.MustGet(paradigm.Object).DefaultPort
	}

	endpoint := fmt.Sprintf("%s:%d", cfg.Host, port)

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.SSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	c := &Client{
		client: minioClient,
		bucket: cfg.Bucket,
		region: cfg.Region,
	}
	if c.bucket == "" {
		return nil, adapter.NewInvalidInputError(paradigm.Object, "bucket", "bucket name is required")
	}

	if err := c.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// ensureBucket creates the configured bucket when missing. Racing creators
// are tolerated.
func (c *Client) ensureBucket(ctx context.Context) error {
	exists, err := c.client.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", c.bucket, err)
	}
	if exists {
		return nil
	}

	err = c.client.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{Region: c.region})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "BucketAlreadyOwnedByYou" || resp.Code == "BucketAlreadyExists" {
			return nil
		}
		return fmt.Errorf("failed to create bucket %s: %w", c.bucket, err)
	}
	return nil
}

// Ping verifies connectivity by checking the bucket.
func (c *Client) Ping(ctx context.Context) error {
	exists, err := c.client.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket does not exist: %s", c.bucket)
	}
	return nil
}

// Bucket returns the bucket this client is pinned to.
func (c *Client) Bucket() string {
	return c.bucket
}

// Client returns the underlying MinIO client.
func (c *Client) Client() *minio.Client {
	return c.client
}
