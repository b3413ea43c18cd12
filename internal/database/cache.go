package database

import (
	"context"
	"errors"
	"time"
)

// Cache is the key/value persistence used for signed-in sessions and
// pending registrations. Values are JSON encoded.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

var ErrCacheMiss = errors.New("cache miss")
