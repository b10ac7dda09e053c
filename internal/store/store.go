// Package store defines the session store the engine reads and writes
// around each conversation turn. The engine replaces the whole record
// atomically per turn; per-session write serialization is the caller's
// responsibility.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/it-era/intake/internal/model"
)

var (
	// ErrInvalidDriver is returned for an unknown store driver name.
	ErrInvalidDriver = errors.New("store: invalid driver")
	// ErrInvalidConfig is returned when a driver's required options are missing.
	ErrInvalidConfig = errors.New("store: invalid configuration")
	// ErrCorruptRecord wraps a stored session that can no longer be decoded.
	// The engine treats it as a miss and restarts the conversation.
	ErrCorruptRecord = errors.New("store: corrupt session record")
)

// Store is the session store adapter. Get returns (nil, nil) for an unknown
// or expired session; a miss is not an error. TTL and expiry policy belong
// to the driver.
type Store interface {
	Get(ctx context.Context, id string) (*model.Session, error)
	Put(ctx context.Context, id string, s *model.Session) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// Driver selects a store implementation.
type Driver string

const (
	DriverMemory Driver = "memory"
	DriverRedis  Driver = "redis"
)

const defaultTTL = 24 * time.Hour

// New creates a Store for the given driver.
func New(driver Driver, opts ...Option) (Store, error) {
	cfg := &config{ttl: defaultTTL}
	for _, opt := range opts {
		opt(cfg)
	}

	switch driver {
	case DriverMemory:
		return newMemory(), nil
	case DriverRedis:
		if cfg.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		return &redisStore{client: cfg.redisClient, ttl: cfg.ttl}, nil
	default:
		return nil, ErrInvalidDriver
	}
}
