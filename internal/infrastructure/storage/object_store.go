// Package storage keeps binary objects such as avatar variants.
package storage

import (
	"context"
	"errors"

	"github.com/d8nd8/python-final-diplom/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ErrObjectNotFound is returned when a key has no stored object
var ErrObjectNotFound = errors.New("storage: object not found")

// ObjectStore stores objects under a key and exposes them by URL
type ObjectStore interface {
	// Put writes data under key and returns the object's public URL
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

func validateKey(key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	return nil
}

// New returns an S3 store when storage is enabled and an in-memory store otherwise
func New(cfg config.StorageConfig, logger *zap.Logger) (ObjectStore, error) {
	if !cfg.Enabled {
		logger.Info("Object storage disabled, keeping objects in memory")
		return NewMemoryObjectStore(cfg.PublicURL), nil
	}
	return NewS3ObjectStore(&cfg, WithLogger(logger))
}
