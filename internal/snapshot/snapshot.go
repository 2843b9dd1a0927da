// Package snapshot defines the versioned encoding of a page's full
// highlight set. The presentation layer produces these blobs; the
// reconciliation engine decodes them to rebuild the normalized
// highlight rows. The envelope carries its own version so old blobs
// stay decodable after the format evolves.
package snapshot

import (
	"encoding/json"
	"fmt"
)

// Version is the envelope version this build writes.
const Version = 1

type Envelope struct {
	Version    int     `json:"version"`
	Highlights []Entry `json:"highlights"`
}

// Entry is one highlight as serialized by the presentation layer.
// Note text is deliberately absent: notes are attached store-side and
// must never be overwritten by a snapshot.
type Entry struct {
	HighlightID        int    `json:"highlight_id"`
	ClassName          string `json:"class_name"`
	ContainerElementID int    `json:"container_element_id"`
	Text               string `json:"text"`
	Timestamp          string `json:"timestamp"`
}

// Encode wraps entries in a current-version envelope.
func Encode(entries []Entry) (string, error) {
	if entries == nil {
		entries = []Entry{}
	}
	blob, err := json.Marshal(Envelope{Version: Version, Highlights: entries})
	if err != nil {
		return "", fmt.Errorf("encode highlight snapshot: %w", err)
	}
	return string(blob), nil
}

// Decode parses a snapshot blob. Blobs from unknown envelope versions
// are rejected rather than guessed at.
func Decode(blob string) ([]Entry, error) {
	var env Envelope
	if err := json.Unmarshal([]byte(blob), &env); err != nil {
		return nil, fmt.Errorf("decode highlight snapshot: %w", err)
	}
	if env.Version != Version {
		return nil, fmt.Errorf("decode highlight snapshot: unsupported version %d", env.Version)
	}
	return env.Highlights, nil
}
