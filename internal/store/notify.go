package store

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/voyagen/videoswitch/internal/feed"
	"github.com/voyagen/videoswitch/internal/models"
)

// Publisher delivers detail events to downstream consumers.
type Publisher interface {
	PublishDetail(ctx context.Context, ev feed.DetailEvent) error
}

// NotifyingStore wraps a Store and publishes an event for every recorded
// channel detail. Reads pass straight through.
type NotifyingStore struct {
	inner Store
	pub   Publisher
	now   func() time.Time
}

// NewNotifyingStore creates a NotifyingStore that wraps inner.
func NewNotifyingStore(inner Store, pub Publisher) *NotifyingStore {
	return &NotifyingStore{inner: inner, pub: pub, now: time.Now}
}

// --- write operations with notification ---

// InsertChannelDetail inserts through the wrapped store, then publishes.
// A failed publish is logged; the insert has already succeeded.
func (n *NotifyingStore) InsertChannelDetail(ctx context.Context, d *models.ChannelDetail) error {
	if err := n.inner.InsertChannelDetail(ctx, d); err != nil {
		return err
	}
	ev := feed.DetailEvent{
		Channel:    d.Channel,
		URL:        d.URL,
		App:        d.App,
		PlayPath:   d.PlayPath,
		TcURL:      d.TcURL,
		RecordedAt: n.now().UTC(),
	}
	if err := n.pub.PublishDetail(ctx, ev); err != nil {
		log.Warnf("feed: publish channel %d: %v", d.Channel, err)
	}
	return nil
}

// --- passthrough ---

func (n *NotifyingStore) ListEnabledChannels(ctx context.Context) ([]models.Channel, error) {
	return n.inner.ListEnabledChannels(ctx)
}

func (n *NotifyingStore) LatestChannelDetail(ctx context.Context, channelID int64) (*models.ChannelDetail, error) {
	return n.inner.LatestChannelDetail(ctx, channelID)
}

func (n *NotifyingStore) Ping(ctx context.Context) error {
	return n.inner.Ping(ctx)
}
