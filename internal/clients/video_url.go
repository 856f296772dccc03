package clients

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fetchora/fetchora/internal/models"
)

var (
	// Watch (?v= / &v=), legacy /v/, embed, shorts, live, and youtu.be short links.
	videoIDPattern = regexp.MustCompile(`(?:v=|/v/|embed/|shorts/|live/|youtu\.be/)([A-Za-z0-9_-]{11})`)
	// Fallback: a bare 11-character id, possibly at the end of an URL.
	bareVideoIDPattern = regexp.MustCompile(`([A-Za-z0-9_-]{11})$`)
)

// ExtractVideoID normalizes any supported YouTube URL shape (watch, embed,
// shorts, live, legacy /v/, youtu.be) or a bare id to the canonical
// 11-character video id. Fails with models.InvalidInputError before any
// network call.
func ExtractVideoID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", &models.InvalidInputError{Detail: "empty video URL"}
	}

	if m := videoIDPattern.FindStringSubmatch(raw); m != nil {
		return m[1], nil
	}
	if m := bareVideoIDPattern.FindStringSubmatch(raw); m != nil {
		return m[1], nil
	}

	if len(raw) > 120 {
		raw = raw[:120] + "..."
	}
	return "", &models.InvalidInputError{Detail: fmt.Sprintf("could not extract a video id from %q", raw)}
}
