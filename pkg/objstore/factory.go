package objstore

import (
	"context"
	"fmt"
)

// Config selects and configures a Store driver.
type Config struct {
	Driver Driver   `json:"driver"`
	Root   string   `json:"root"`
	S3     S3Config `json:"s3"`
}

// Open builds a Store for cfg.Driver. An empty driver selects the filesystem.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", DriverFilesystem:
		return NewFilesystem(cfg.Root)
	case DriverMemory:
		return NewMemory(), nil
	case DriverS3:
		return NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unsupported objstore driver %q", cfg.Driver)
	}
}
