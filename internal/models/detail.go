package models

import "time"

// ChannelDetail is one submitted snapshot of stream connection parameters for a channel.
// Rows are append-only; CreatedAt is assigned by the store.
type ChannelDetail struct {
	Channel   int64      `json:"channel" db:"channel"`
	App       string     `json:"app" db:"app"`
	PlayPath  string     `json:"playpath" db:"playpath"`
	FlashVer  string     `json:"flashver" db:"flashver"`
	SwfURL    string     `json:"swfurl" db:"swfurl"`
	URL       string     `json:"url" db:"url"`
	PageURL   string     `json:"pageurl" db:"pageurl"`
	TcURL     string     `json:"tcurl" db:"tcurl"`
	CreatedAt *time.Time `json:"tm_created,omitempty" db:"tm_created"`
}
