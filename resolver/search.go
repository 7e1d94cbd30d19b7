package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"Nocturne/player"
)

// search runs a best-match lookup for a free-text term through yt-dlp.
func (y *YouTube) search(ctx context.Context, term string) (player.Track, error) {
	cmd := exec.CommandContext(ctx, "yt-dlp", "-j", "--flat-playlist", "ytsearch1:"+term)
	out, err := cmd.Output()
	if err != nil {
		return player.Track{}, fmt.Errorf("%w: %v", ErrResolutionFailed, err)
	}

	t, ok := parseSearchResult(out)
	if !ok {
		return player.Track{}, ErrNotFound
	}
	return t, nil
}

// parseSearchResult decodes the first result line of yt-dlp's JSON output.
func parseSearchResult(out []byte) (player.Track, bool) {
	for _, line := range bytes.Split(out, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var entry struct {
			ID       string  `json:"id"`
			Title    string  `json:"title"`
			Duration float64 `json:"duration"`
		}
		if err := json.Unmarshal(line, &entry); err != nil || entry.ID == "" {
			continue
		}
		return player.Track{
			Title:     entry.Title,
			SourceRef: entry.ID,
			Duration:  time.Duration(entry.Duration * float64(time.Second)),
		}, true
	}
	return player.Track{}, false
}
