package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/voyagen/videoswitch/internal/models"
)

// pgxPool is the subset of *pgxpool.Pool used by Postgres.
type pgxPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
	Close()
}

// Postgres implements Store using PostgreSQL.
type Postgres struct {
	pool pgxPool
}

// NewPostgres creates a Postgres store from a DSN. Caller must call Close when done.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

// Ping checks the connection pool.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// ListEnabledChannels returns enabled channels joined with their type.
func (p *Postgres) ListEnabledChannels(ctx context.Context) ([]models.Channel, error) {
	rows, err := p.pool.Query(ctx, queryEnabledChannels)
	if err != nil {
		return nil, fmt.Errorf("ListEnabledChannels: %w", err)
	}
	defer rows.Close()

	channels := []models.Channel{}
	for rows.Next() {
		var ch models.Channel
		if err := rows.Scan(&ch.ID, &ch.Name, &ch.URI, &ch.ChanType); err != nil {
			return nil, fmt.Errorf("ListEnabledChannels scan: %w", err)
		}
		channels = append(channels, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListEnabledChannels: %w", err)
	}
	return channels, nil
}

// LatestChannelDetail returns the newest detail row for channelID.
func (p *Postgres) LatestChannelDetail(ctx context.Context, channelID int64) (*models.ChannelDetail, error) {
	var d models.ChannelDetail
	err := p.pool.QueryRow(ctx,
		selectDetailColumns+` WHERE channel = $1 ORDER BY tm_created DESC LIMIT 1`,
		channelID,
	).Scan(&d.Channel, &d.App, &d.PlayPath, &d.FlashVer, &d.SwfURL, &d.URL, &d.PageURL, &d.TcURL, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("LatestChannelDetail: %w", err)
	}
	return &d, nil
}

// InsertChannelDetail appends a detail row.
func (p *Postgres) InsertChannelDetail(ctx context.Context, d *models.ChannelDetail) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO channel_details (channel, app, playPath, flashVer, swfUrl, url, pageUrl, tcUrl)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		d.Channel, d.App, d.PlayPath, d.FlashVer, d.SwfURL, d.URL, d.PageURL, d.TcURL,
	)
	if err != nil {
		return fmt.Errorf("InsertChannelDetail: %w", err)
	}
	return nil
}
