package feed

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis wraps a go-redis client used as the channel detail event queue.
type Redis struct {
	client *redis.Client
	queue  string
}

// New parses a Redis URL (e.g. "redis://host:6379/0") and returns a client
// that publishes to DefaultQueue. Call Ping to verify the connection.
func New(rawURL string) (*Redis, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &Redis{client: redis.NewClient(opts), queue: DefaultQueue}, nil
}

// Ping checks the connection to Redis.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close shuts down the Redis client.
func (r *Redis) Close() error {
	return r.client.Close()
}
