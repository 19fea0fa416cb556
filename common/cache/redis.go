package cache

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores JSON-encoded values under a key prefix.
type RedisCache[T any] struct {
	client *redis.Client
	prefix string
	ctx    context.Context
}

// NewRedisClient connects to a redis://[:password@]host[:port] URL.
func NewRedisClient(connectionString string, db int) (*redis.Client, error) {
	u, err := url.Parse(connectionString)
	if err != nil {
		return nil, err
	}

	password, _ := u.User.Password()
	client := redis.NewClient(&redis.Options{
		Addr:     u.Host,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

func NewRedisCache[T any](client *redis.Client, prefix string) *RedisCache[T] {
	return &RedisCache[T]{client: client, prefix: prefix, ctx: context.Background()}
}

func (c *RedisCache[T]) Set(key string, value T, ttl time.Duration) error {
	if key == "" {
		return ErrInvalidKey
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(c.ctx, c.prefix+key, data, ttl).Err()
}

func (c *RedisCache[T]) Get(key string) (T, error) {
	var value T
	data, err := c.client.Get(c.ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return value, ErrKeyNotFound
		}
		return value, err
	}

	err = json.Unmarshal(data, &value)
	return value, err
}

func (c *RedisCache[T]) Has(key string) bool {
	exists, err := c.client.Exists(c.ctx, c.prefix+key).Result()
	return err == nil && exists > 0
}

func (c *RedisCache[T]) Delete(key string) error {
	return c.client.Del(c.ctx, c.prefix+key).Err()
}

// Clear removes every key under the cache prefix.
func (c *RedisCache[T]) Clear() error {
	iter := c.client.Scan(c.ctx, 0, c.prefix+"*", 100).Iterator()
	for iter.Next(c.ctx) {
		if err := c.client.Del(c.ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
