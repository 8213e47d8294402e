package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voyagen/videoswitch/internal/feed"
	"github.com/voyagen/videoswitch/internal/models"
)

type recordingStore struct {
	inserted  []models.ChannelDetail
	insertErr error
}

func (r *recordingStore) ListEnabledChannels(context.Context) ([]models.Channel, error) {
	return []models.Channel{{ID: 1, Name: "one"}}, nil
}

func (r *recordingStore) LatestChannelDetail(_ context.Context, id int64) (*models.ChannelDetail, error) {
	return nil, ErrNotFound
}

func (r *recordingStore) InsertChannelDetail(_ context.Context, d *models.ChannelDetail) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, *d)
	return nil
}

func (r *recordingStore) Ping(context.Context) error { return nil }

type recordingPublisher struct {
	events []feed.DetailEvent
	err    error
}

func (p *recordingPublisher) PublishDetail(_ context.Context, ev feed.DetailEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

func TestNotifyingStore_PublishesAfterInsert(t *testing.T) {
	inner := &recordingStore{}
	pub := &recordingPublisher{}
	n := NewNotifyingStore(inner, pub)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return fixed }

	err := n.InsertChannelDetail(context.Background(), &models.ChannelDetail{
		Channel: 7, App: "live", PlayPath: "a", URL: "rtmp://x/live/a", TcURL: "t",
	})
	require.NoError(t, err)
	require.Len(t, inner.inserted, 1)
	assert.Equal(t, []feed.DetailEvent{{
		Channel: 7, URL: "rtmp://x/live/a", App: "live", PlayPath: "a", TcURL: "t", RecordedAt: fixed,
	}}, pub.events)
}

func TestNotifyingStore_InsertErrorSkipsPublish(t *testing.T) {
	inner := &recordingStore{insertErr: errors.New("constraint")}
	pub := &recordingPublisher{}

	err := NewNotifyingStore(inner, pub).InsertChannelDetail(context.Background(), &models.ChannelDetail{Channel: 7})
	assert.EqualError(t, err, "constraint")
	assert.Empty(t, pub.events)
}

func TestNotifyingStore_PublishErrorIsNotFatal(t *testing.T) {
	inner := &recordingStore{}
	pub := &recordingPublisher{err: errors.New("redis down")}

	err := NewNotifyingStore(inner, pub).InsertChannelDetail(context.Background(), &models.ChannelDetail{Channel: 7})
	assert.NoError(t, err)
	assert.Len(t, inner.inserted, 1)
}

func TestNotifyingStore_Passthrough(t *testing.T) {
	n := NewNotifyingStore(&recordingStore{}, &recordingPublisher{})
	ctx := context.Background()

	channels, err := n.ListEnabledChannels(ctx)
	require.NoError(t, err)
	assert.Len(t, channels, 1)

	_, err = n.LatestChannelDetail(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, n.Ping(ctx))
}
