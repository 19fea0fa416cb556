package cache

import (
	"sync"
	"time"
)

type MemoryCache[T any] struct {
	items map[string]Item[T]
	mu    sync.RWMutex
	now   func() time.Time
}

func NewMemoryCache[T any]() *MemoryCache[T] {
	return &MemoryCache[T]{
		items: make(map[string]Item[T]),
		now:   time.Now,
	}
}

func (c *MemoryCache[T]) Set(key string, value T, ttl time.Duration) error {
	if key == "" {
		return ErrInvalidKey
	}

	var exp *time.Time
	if ttl > 0 {
		expTime := c.now().Add(ttl)
		exp = &expTime
	}

	c.mu.Lock()
	c.items[key] = Item[T]{Value: value, Expiration: exp}
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache[T]) Get(key string) (T, error) {
	c.mu.RLock()
	item, exists := c.items[key]
	c.mu.RUnlock()

	var zero T
	if !exists {
		return zero, ErrKeyNotFound
	}

	if !c.expired(item) {
		return item.Value, nil
	}

	// the key may have been rewritten since the read lock was released
	c.mu.Lock()
	defer c.mu.Unlock()
	item, exists = c.items[key]
	if !exists {
		return zero, ErrKeyNotFound
	}
	if c.expired(item) {
		delete(c.items, key)
		return zero, ErrKeyNotFound
	}
	return item.Value, nil
}

func (c *MemoryCache[T]) Has(key string) bool {
	_, err := c.Get(key)
	return err == nil
}

func (c *MemoryCache[T]) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
	return nil
}

func (c *MemoryCache[T]) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]Item[T])
	return nil
}

func (c *MemoryCache[T]) expired(item Item[T]) bool {
	return item.Expiration != nil && c.now().After(*item.Expiration)
}
