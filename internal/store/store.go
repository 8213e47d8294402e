package store

import (
	"context"
	"errors"

	"github.com/voyagen/videoswitch/internal/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// Store defines persistence for channels and their submitted connection details.
// Channel rows are managed elsewhere; this service only reads them.
type Store interface {
	// ListEnabledChannels returns channels with is_enabled set, chan_type resolved
	// through channel_types. Order is whatever the database returns.
	ListEnabledChannels(ctx context.Context) ([]models.Channel, error)
	// LatestChannelDetail returns the detail row with the greatest tm_created for
	// the channel, or ErrNotFound when the channel has none.
	LatestChannelDetail(ctx context.Context, channelID int64) (*models.ChannelDetail, error)
	// InsertChannelDetail appends a detail row; tm_created is assigned by the database.
	InsertChannelDetail(ctx context.Context, d *models.ChannelDetail) error
	// Ping checks that the database is reachable.
	Ping(ctx context.Context) error
}

const (
	queryEnabledChannels = `SELECT channels.id, channels.name, channels.uri, channel_types.chan_type
		 FROM channels
		 JOIN channel_types ON channels.chan_type = channel_types.id
		 WHERE channels.is_enabled = TRUE`

	// Aliases give both drivers the same lower-case column names. Rows written
	// by older clients may hold NULLs.
	selectDetailColumns = `SELECT channel, COALESCE(app, '') AS app, COALESCE(playPath, '') AS playpath,
		 COALESCE(flashVer, '') AS flashver, COALESCE(swfUrl, '') AS swfurl, COALESCE(url, '') AS url,
		 COALESCE(pageUrl, '') AS pageurl, COALESCE(tcUrl, '') AS tcurl, tm_created
		 FROM channel_details`
)
