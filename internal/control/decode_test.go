package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voyagen/videoswitch/internal/models"
)

func TestDecodeChannelDetails(t *testing.T) {
	d, err := DecodeChannelDetails(examplePayload)
	require.NoError(t, err)
	assert.Equal(t, &models.ChannelDetail{
		Channel:  7,
		App:      "live",
		PlayPath: "a",
		FlashVer: "1",
		SwfURL:   "s",
		URL:      "rtmp://x/live/a",
		PageURL:  "p",
		TcURL:    "t",
	}, d)
}

func TestDecodeChannelDetails_Coercion(t *testing.T) {
	payload := `{"channel":"12","app":"live","playpath":42,"flashver":"LNX 11,2,202,235","swfurl":true,` +
		`"url":"rtmp://h/live","pageurl":"","tcurl":1.5}`
	d, err := DecodeChannelDetails(payload)
	require.NoError(t, err)
	assert.Equal(t, int64(12), d.Channel)
	assert.Equal(t, "42", d.PlayPath)
	assert.Equal(t, "LNX 11,2,202,235", d.FlashVer)
	assert.Equal(t, "true", d.SwfURL)
	assert.Equal(t, "", d.PageURL)
	assert.Equal(t, "1.5", d.TcURL)
}

func TestDecodeChannelDetails_ChannelForms(t *testing.T) {
	base := `,"app":"a","playpath":"p","flashver":"f","swfurl":"s","url":"u","pageurl":"g","tcurl":"t"}`

	tests := []struct {
		name    string
		channel string
		want    int64
		wantErr bool
	}{
		{name: "number", channel: `7`, want: 7},
		{name: "string", channel: `"7"`, want: 7},
		{name: "padded string", channel: `" 7 "`, want: 7},
		{name: "integral float", channel: `7.0`, want: 7},
		{name: "fraction", channel: `7.5`, wantErr: true},
		{name: "word", channel: `"seven"`, wantErr: true},
		{name: "bool", channel: `true`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := DecodeChannelDetails(`{"channel":` + tt.channel + base)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Channel)
		})
	}
}

func TestDecodeChannelDetails_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{name: "empty", payload: ``, want: "invalid JSON"},
		{name: "not json", payload: `channel=7`, want: "invalid JSON"},
		{name: "array", payload: `[]`, want: "invalid JSON"},
		{name: "object field", payload: `{"channel":7,"app":{"x":1}}`, want: "invalid JSON"},
		{name: "null document", payload: `null`, want: "missing fields: channel, app, playpath"},
		{name: "missing some", payload: `{"channel":7,"app":"live","url":"u"}`, want: "missing fields: playpath, flashver, swfurl, pageurl, tcurl"},
		{name: "null field", payload: `{"channel":7,"app":null,"playpath":"a","flashver":"1","swfurl":"s","url":"u","pageurl":"p","tcurl":"t"}`, want: "missing fields: app"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeChannelDetails(tt.payload)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
