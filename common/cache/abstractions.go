package cache

import (
	"errors"
	"time"
)

type Item[T any] struct {
	Value      T
	Expiration *time.Time
}

// Cache is a keyed store with optional per-entry expiry. A ttl of 0 never
// expires.
type Cache[T any] interface {
	Set(key string, value T, ttl time.Duration) error

	// Get returns ErrKeyNotFound for missing or expired keys.
	Get(key string) (T, error)

	Has(key string) bool
	Delete(key string) error
	Clear() error
}

var (
	ErrKeyNotFound = errors.New("key not found in cache")
	ErrInvalidKey  = errors.New("invalid key")
)
