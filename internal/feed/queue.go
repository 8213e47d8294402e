package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DetailEvent announces a newly recorded channel detail.
type DetailEvent struct {
	Channel    int64     `json:"channel"`
	URL        string    `json:"url"`
	App        string    `json:"app,omitempty"`
	PlayPath   string    `json:"playpath,omitempty"`
	TcURL      string    `json:"tcurl,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// DefaultQueue is the Redis list key used for channel detail events.
const DefaultQueue = "videoswitch:events:channel_details"

// PublishDetail pushes ev onto the client's queue.
func (r *Redis) PublishDetail(ctx context.Context, ev DetailEvent) error {
	return Enqueue(ctx, r, r.queue, ev)
}

// Enqueue pushes an event onto the left side of a Redis list.
func Enqueue(ctx context.Context, r *Redis, queue string, ev DetailEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("queue marshal: %w", err)
	}
	return r.client.LPush(ctx, queue, data).Err()
}

// Dequeue blocks until an event is available on the right side of the list
// or the timeout expires. When the timeout elapses without an event,
// (nil, nil) is returned so the caller can loop and check for shutdown.
func Dequeue(ctx context.Context, r *Redis, queue string, timeout time.Duration) (*DetailEvent, error) {
	result, err := r.client.BRPop(ctx, timeout, queue).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // timeout
		}
		// Context cancelled (shutdown), not an error.
		if ctx.Err() != nil {
			return nil, nil
		}
		return nil, fmt.Errorf("queue dequeue: %w", err)
	}
	// BRPop returns [key, value].
	if len(result) < 2 {
		return nil, nil
	}
	var ev DetailEvent
	if err := json.Unmarshal([]byte(result[1]), &ev); err != nil {
		return nil, fmt.Errorf("queue unmarshal: %w", err)
	}
	return &ev, nil
}
