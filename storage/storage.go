package storage

import (
	"context"
	"errors"
	"fmt"

	"walrus-extend/conf"
)

// Storage byte store backing the blob cache
type Storage interface {
	Save(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) bool
	// Kind short backend name for logs and status output
	Kind() string
}

var (
	ErrNotFound = errors.New("object not found")
	ErrInvalid  = errors.New("invalid storage configuration")
)

// NewStorage creates the backend selected by cfg.Type
func NewStorage(cfg conf.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "local", "":
		return NewLocalStorage(cfg.Local.BasePath)
	case "oss":
		return NewOSSStorage(cfg.OSS.Endpoint, cfg.OSS.AccessKey, cfg.OSS.SecretKey, cfg.OSS.Bucket)
	case "s3":
		return NewS3Storage(cfg.S3.Region, cfg.S3.Endpoint, cfg.S3.AccessKey, cfg.S3.SecretKey, cfg.S3.Bucket)
	case "minio":
		return NewMinIOStorage(cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, cfg.MinIO.Bucket)
	default:
		return nil, fmt.Errorf("%w: unknown storage type %q", ErrInvalid, cfg.Type)
	}
}
