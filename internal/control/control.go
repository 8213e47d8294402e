// Package control implements the channel control API: listing enabled
// channels with their latest stream URL and recording submitted channel details.
package control

import (
	"context"
	"errors"

	"github.com/voyagen/videoswitch/internal/models"
	"github.com/voyagen/videoswitch/internal/store"
)

// Service runs control operations against a Store.
type Service struct {
	store store.Store
}

// New creates a Service backed by s.
func New(s store.Store) *Service {
	return &Service{store: s}
}

// ListChannels returns every enabled channel with LastURL set to the url of its
// newest detail row, or "" when it has none. The channel query and the
// per-channel lookups are not one transaction, so a concurrent submission can
// make LastURL stale by the time it is returned.
func (s *Service) ListChannels(ctx context.Context) ([]models.Channel, error) {
	channels, err := s.store.ListEnabledChannels(ctx)
	if err != nil {
		return nil, &Error{Kind: KindStore, Op: "ListChannels", Err: err}
	}
	if channels == nil {
		channels = []models.Channel{}
	}

	for i := range channels {
		d, err := s.store.LatestChannelDetail(ctx, channels[i].ID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			channels[i].LastURL = ""
		case err != nil:
			return nil, &Error{Kind: KindStore, Op: "ListChannels", Err: err}
		default:
			channels[i].LastURL = d.URL
		}
	}
	return channels, nil
}

// SubmitResult describes an accepted submission.
type SubmitResult struct {
	DataType string
	Channel  int64
}

// Submit records a submission of the given classification. Only
// models.DataTypeChannelDetails is recognised; anything else returns a
// KindUnknownDataType error without touching the store.
func (s *Service) Submit(ctx context.Context, dataType, payload string) (*SubmitResult, error) {
	switch dataType {
	case models.DataTypeChannelDetails:
		d, err := DecodeChannelDetails(payload)
		if err != nil {
			return nil, &Error{Kind: KindDecode, Op: "Submit", Err: err}
		}
		if err := s.store.InsertChannelDetail(ctx, d); err != nil {
			return nil, &Error{Kind: KindStore, Op: "Submit", Err: err}
		}
		return &SubmitResult{DataType: dataType, Channel: d.Channel}, nil
	default:
		return nil, &Error{Kind: KindUnknownDataType, Op: "Submit"}
	}
}
