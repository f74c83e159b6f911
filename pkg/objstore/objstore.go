// Package objstore stores uploaded media objects behind a small S3-like
// abstraction with memory, filesystem and S3 drivers.
package objstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"
)

type Driver string

const (
	DriverMemory     Driver = "memory"
	DriverFilesystem Driver = "fs"
	DriverS3         Driver = "s3"
)

var (
	ErrNotFound = errors.New("objstore: object not found")
	ErrExists   = errors.New("objstore: object already exists")
)

// Info describes a stored object.
type Info struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size_bytes"`
	ContentType  string    `json:"content_type,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// Store is create-only: Put fails with ErrExists when the key is taken.
type Store interface {
	Driver() Driver
	Put(ctx context.Context, key string, r io.Reader, contentType string) (Info, error)
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	Delete(ctx context.Context, key string) (bool, error)
}

// Bucket scopes a Store to one public bucket and implements the gateway
// storage contract. Object keys are "<bucket>/<path>".
type Bucket struct {
	store      Store
	name       string
	publicBase string
}

// NewBucket returns a bucket view. publicBase is the URL prefix under which
// "<bucket>/<path>" is publicly readable, e.g.
// "http://localhost:8080/storage/v1/object/public".
func NewBucket(store Store, name, publicBase string) *Bucket {
	return &Bucket{store: store, name: name, publicBase: strings.TrimRight(publicBase, "/")}
}

func (b *Bucket) Name() string { return b.name }

func (b *Bucket) Upload(ctx context.Context, path string, body io.Reader, contentType string) error {
	if _, err := b.store.Put(ctx, b.key(path), body, contentType); err != nil {
		return fmt.Errorf("upload %s/%s: %w", b.name, path, err)
	}
	return nil
}

// PublicURL percent-encodes each path segment; the serving route decodes them.
func (b *Bucket) PublicURL(path string) string {
	parts := strings.Split(b.key(path), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return b.publicBase + "/" + strings.Join(parts, "/")
}

func (b *Bucket) key(path string) string {
	return b.name + "/" + strings.TrimLeft(path, "/")
}

// sanitizeKey rejects keys that could escape a bucket or the fs root.
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid absolute key %q", key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", fmt.Errorf("invalid key %q contains '..'", key)
		}
	}
	return key, nil
}
