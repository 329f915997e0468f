package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrMissingSigner indicates signed URL support is not configured.
	ErrMissingSigner = errors.New("storage: signed url signer not configured")
	// ErrBucketRequired is returned when a driver is built without a bucket.
	ErrBucketRequired = errors.New("storage: bucket is required")
)

// Storage writes objects into a single bucket and hands out time-limited
// download links for them.
type Storage interface {
	io.Closer

	PutObject(ctx context.Context, key string, r io.Reader, opts PutOptions) (ObjectInfo, error)
	DeleteObject(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// PutOptions configures upload behavior.
type PutOptions struct {
	// Size is the content length; -1 when unknown.
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Bucket      string
	Key         string
	Size        int64
	ETag        string
	ContentType string
}
