package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/voyagen/videoswitch/internal/models"
)

// MySQL implements Store on top of sqlx and the go-sql-driver/mysql driver.
type MySQL struct {
	db *sqlx.DB
}

// NewMySQL connects to MySQL using a go-sql-driver DSN (user:pass@tcp(host:3306)/db?parseTime=true).
func NewMySQL(ctx context.Context, dsn string) (*MySQL, error) {
	db, err := sqlx.ConnectContext(ctx, "mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlx.Connect: %w", err)
	}
	return &MySQL{db: db}, nil
}

// NewMySQLFromDB wraps an existing connection.
func NewMySQLFromDB(db *sqlx.DB) *MySQL {
	return &MySQL{db: db}
}

// Close closes the underlying connection pool.
func (m *MySQL) Close() {
	_ = m.db.Close()
}

func (m *MySQL) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *MySQL) ListEnabledChannels(ctx context.Context) ([]models.Channel, error) {
	channels := []models.Channel{}
	if err := m.db.SelectContext(ctx, &channels, queryEnabledChannels); err != nil {
		return nil, fmt.Errorf("ListEnabledChannels: %w", err)
	}
	return channels, nil
}

func (m *MySQL) LatestChannelDetail(ctx context.Context, channelID int64) (*models.ChannelDetail, error) {
	var d models.ChannelDetail
	err := m.db.GetContext(ctx, &d,
		selectDetailColumns+` WHERE channel = ? ORDER BY tm_created DESC LIMIT 1`,
		channelID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("LatestChannelDetail: %w", err)
	}
	return &d, nil
}

func (m *MySQL) InsertChannelDetail(ctx context.Context, d *models.ChannelDetail) error {
	_, err := m.db.ExecContext(ctx,
		`INSERT INTO channel_details (channel, app, playPath, flashVer, swfUrl, url, pageUrl, tcUrl)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.Channel, d.App, d.PlayPath, d.FlashVer, d.SwfURL, d.URL, d.PageURL, d.TcURL,
	)
	if err != nil {
		return fmt.Errorf("InsertChannelDetail: %w", err)
	}
	return nil
}
