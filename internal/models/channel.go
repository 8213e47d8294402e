package models

// Channel is an enabled video stream source as listed by the control API.
type Channel struct {
	ID       int64  `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	URI      string `json:"uri" db:"uri"`
	ChanType string `json:"chan_type" db:"chan_type"`
	LastURL  string `json:"lastUrl" db:"-"` // url of the newest channel detail, "" when none
}
