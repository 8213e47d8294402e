package feed

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	r, err := New("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r, mr
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := New("://nope")
	assert.Error(t, err)
}

func TestPublishDetailThenDequeue(t *testing.T) {
	r, mr := newTestRedis(t)
	ctx := context.Background()
	require.NoError(t, r.Ping(ctx))

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	first := DetailEvent{Channel: 7, URL: "rtmp://x/live/a", App: "live", RecordedAt: at}
	second := DetailEvent{Channel: 8, URL: "rtmp://y/live/b", RecordedAt: at.Add(time.Second)}
	require.NoError(t, r.PublishDetail(ctx, first))
	require.NoError(t, r.PublishDetail(ctx, second))

	items, err := mr.List(DefaultQueue)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	// FIFO: LPUSH on publish, BRPOP on consume.
	got, err := Dequeue(ctx, r, DefaultQueue, time.Second)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first, *got)

	got, err = Dequeue(ctx, r, DefaultQueue, time.Second)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, second, *got)
}

func TestDequeue_Timeout(t *testing.T) {
	r, _ := newTestRedis(t)

	got, err := Dequeue(context.Background(), r, "empty", time.Second)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestDequeue_Cancelled(t *testing.T) {
	r, _ := newTestRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := Dequeue(ctx, r, DefaultQueue, time.Second)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestDequeue_BadPayload(t *testing.T) {
	r, mr := newTestRedis(t)
	_, err := mr.Lpush(DefaultQueue, "not json")
	require.NoError(t, err)

	_, err = Dequeue(context.Background(), r, DefaultQueue, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue unmarshal")
}
