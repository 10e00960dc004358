// Package objstore implements the object-store client (C2 in
// SPEC_FULL.md) against an S3-compatible endpoint via minio-go, the
// teacher's own object-storage dependency (github.com/minio/minio-go/v7
// is in cs3org/reva's go.mod, unwired there in the retrieved pack).
//
// The core's abstract contract is `put(key, bytes) -> ()` and
// `presign(key) -> URL`; puts are atomic from the caller's perspective and
// presigned URLs stay valid for hours to days (spec.md §4.2).
package objstore

import (
	"context"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"

	"github.com/cs3org/papers/internal/config"
	"github.com/cs3org/papers/internal/perr"
)

// Client puts objects under a bucket and mints presigned GET URLs for them.
type Client struct {
	mc     *minio.Client
	bucket string
}

// New builds a Client from the object-store section of Config.
func New(cfg config.ObjectStore) (*Client, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error constructing object-store client")
	}
	return &Client{mc: mc, bucket: cfg.Bucket}, nil
}

// Put uploads the file at path under key. A successful call makes key
// immediately retrievable (spec.md §4.2's atomicity requirement).
func (c *Client) Put(ctx context.Context, key, path string) error {
	_, err := c.mc.FPutObject(ctx, c.bucket, key, path, minio.PutObjectOptions{})
	if err != nil {
		return perr.UploadFailed{Key: key, Cause: err}
	}
	return nil
}

// Presign mints a time-limited GET URL for key, valid for ttl.
func (c *Client) Presign(ctx context.Context, key string, ttl time.Duration) (*url.URL, error) {
	u, err := c.mc.PresignedGetObject(ctx, c.bucket, key, ttl, nil)
	if err != nil {
		return nil, perr.UploadFailed{Key: key, Cause: err}
	}
	return u, nil
}
