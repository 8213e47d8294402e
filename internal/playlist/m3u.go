package playlist

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/voyagen/videoswitch/internal/models"
)

// attrReplacer keeps attribute values inside their double quotes and the
// title on one line.
var attrReplacer = strings.NewReplacer(`"`, `'`, "\n", " ", "\r", " ")

// WriteM3U writes an extended M3U playlist of channels. Each entry points at the
// channel's latest submitted URL, falling back to its configured uri. Channels
// with neither are skipped. It returns the number of entries written.
func WriteM3U(w io.Writer, channels []models.Channel) (int, error) {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("#EXTM3U\n"); err != nil {
		return 0, err
	}
	n := 0
	for _, ch := range channels {
		streamURL := StreamURL(ch)
		if streamURL == "" {
			continue
		}
		name := attrReplacer.Replace(ch.Name)
		_, err := fmt.Fprintf(bw, "#EXTINF:-1 tvg-id=\"%d\" tvg-name=\"%s\" group-title=\"%s\",%s\n%s\n",
			ch.ID, name, attrReplacer.Replace(ch.ChanType), name, strings.TrimSpace(streamURL))
		if err != nil {
			return n, err
		}
		n++
	}
	return n, bw.Flush()
}

// StreamURL returns the URL a player should open for ch.
func StreamURL(ch models.Channel) string {
	if u := strings.TrimSpace(ch.LastURL); u != "" {
		return u
	}
	return strings.TrimSpace(ch.URI)
}
