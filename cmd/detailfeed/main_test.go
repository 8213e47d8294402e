package main

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voyagen/videoswitch/internal/feed"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunPrintsEvents(t *testing.T) {
	mr := miniredis.RunT(t)
	rds, err := feed.New("redis://" + mr.Addr())
	require.NoError(t, err)
	defer rds.Close()

	ev := feed.DetailEvent{Channel: 7, URL: "rtmp://x/live/a", RecordedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	require.NoError(t, rds.PublishDetail(context.Background(), ev))

	ctx, cancel := context.WithCancel(context.Background())
	out := &syncBuffer{}
	done := make(chan struct{})
	go func() {
		run(ctx, rds, feed.DefaultQueue, json.NewEncoder(out))
		close(done)
	}()

	require.Eventually(t, func() bool { return out.String() != "" }, 3*time.Second, 10*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("run did not stop after cancel")
	}

	var got feed.DetailEvent
	require.NoError(t, json.Unmarshal([]byte(out.String()), &got))
	assert.Equal(t, ev, got)
}
