package storage

import (
	"context"
	"io"
	"net/http"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSAdapter implements Storage using Google Cloud Storage.
type GCSAdapter struct {
	bucket string
	client *gcs.Client
	signer *gcsSigner
}

// GCSOptions configures GCS client initialization.
type GCSOptions struct {
	Bucket string
	// GoogleAccessID and PrivateKey enable signed URLs.
	GoogleAccessID string
	PrivateKey     []byte
	ClientOptions  []option.ClientOption
}

type gcsSigner struct {
	googleAccessID string
	privateKey     []byte
}

// NewGCS constructs a GCS adapter with optional signing support.
func NewGCS(ctx context.Context, opts GCSOptions) (*GCSAdapter, error) {
	if opts.Bucket == "" {
		return nil, ErrBucketRequired
	}

	client, err := gcs.NewClient(ctx, opts.ClientOptions...)
	if err != nil {
		return nil, err
	}

	var signer *gcsSigner
	if opts.GoogleAccessID != "" && len(opts.PrivateKey) > 0 {
		signer = &gcsSigner{googleAccessID: opts.GoogleAccessID, privateKey: opts.PrivateKey}
	}
	return &GCSAdapter{bucket: opts.Bucket, client: client, signer: signer}, nil
}

// PutObject stores data in GCS and returns metadata.
func (g *GCSAdapter) PutObject(ctx context.Context, key string, r io.Reader, opts PutOptions) (ObjectInfo, error) {
	writer := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	writer.ContentType = opts.ContentType
	if len(opts.Metadata) > 0 {
		writer.Metadata = opts.Metadata
	}

	if _, err := io.Copy(writer, r); err != nil {
		if closeErr := writer.Close(); closeErr != nil {
			return ObjectInfo{}, closeErr
		}
		return ObjectInfo{}, err
	}
	if err := writer.Close(); err != nil {
		return ObjectInfo{}, err
	}

	info := ObjectInfo{Bucket: g.bucket, Key: key, Size: opts.Size, ContentType: opts.ContentType}
	if attrs := writer.Attrs(); attrs != nil {
		info.Size = attrs.Size
		info.ETag = attrs.Etag
	}
	return info, nil
}

// DeleteObject removes an object from GCS.
func (g *GCSAdapter) DeleteObject(ctx context.Context, key string) error {
	return g.client.Bucket(g.bucket).Object(key).Delete(ctx)
}

// PresignGet returns a signed URL for downloading from GCS.
func (g *GCSAdapter) PresignGet(_ context.Context, key string, expiry time.Duration) (string, error) {
	if g.signer == nil {
		return "", ErrMissingSigner
	}
	return gcs.SignedURL(g.bucket, key, &gcs.SignedURLOptions{
		Method:         http.MethodGet,
		Expires:        time.Now().Add(expiry),
		GoogleAccessID: g.signer.googleAccessID,
		PrivateKey:     g.signer.privateKey,
		Scheme:         gcs.SigningSchemeV4,
	})
}

// Close closes the GCS client.
func (g *GCSAdapter) Close() error {
	return g.client.Close()
}
