package control

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/voyagen/videoswitch/internal/models"
)

// channelRef accepts a channel id sent either as a JSON number or as a numeric string.
type channelRef int64

func (c *channelRef) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// 7.0 is still channel 7
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int64(f)) {
			return fmt.Errorf("channel: %s is not an integer id", string(b))
		}
		n = int64(f)
	}
	*c = channelRef(n)
	return nil
}

// text accepts a JSON string, number or boolean and keeps it as text.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = text(s)
		return nil
	}
	var v any
	d := json.NewDecoder(bytes.NewReader(b))
	d.UseNumber()
	if err := d.Decode(&v); err != nil {
		return err
	}
	switch x := v.(type) {
	case json.Number:
		*t = text(x.String())
	case bool:
		*t = text(strconv.FormatBool(x))
	default:
		return fmt.Errorf("expected a scalar, got %s", string(b))
	}
	return nil
}

// channelDetailsInput is the submission payload. A nil field was absent or null.
type channelDetailsInput struct {
	Channel  *channelRef `json:"channel"`
	App      *text       `json:"app"`
	PlayPath *text       `json:"playpath"`
	FlashVer *text       `json:"flashver"`
	SwfURL   *text       `json:"swfurl"`
	URL      *text       `json:"url"`
	PageURL  *text       `json:"pageurl"`
	TcURL    *text       `json:"tcurl"`
}

// DecodeChannelDetails parses a channelDetails payload. Every field is required.
func DecodeChannelDetails(payload string) (*models.ChannelDetail, error) {
	var in channelDetailsInput
	if err := json.Unmarshal([]byte(payload), &in); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	var missing []string
	need := func(name string, present bool) {
		if !present {
			missing = append(missing, name)
		}
	}
	need("channel", in.Channel != nil)
	need("app", in.App != nil)
	need("playpath", in.PlayPath != nil)
	need("flashver", in.FlashVer != nil)
	need("swfurl", in.SwfURL != nil)
	need("url", in.URL != nil)
	need("pageurl", in.PageURL != nil)
	need("tcurl", in.TcURL != nil)
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing fields: %s", strings.Join(missing, ", "))
	}

	return &models.ChannelDetail{
		Channel:  int64(*in.Channel),
		App:      string(*in.App),
		PlayPath: string(*in.PlayPath),
		FlashVer: string(*in.FlashVer),
		SwfURL:   string(*in.SwfURL),
		URL:      string(*in.URL),
		PageURL:  string(*in.PageURL),
		TcURL:    string(*in.TcURL),
	}, nil
}
