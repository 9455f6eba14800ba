package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// QuickAddPlaylistName is the system playlist that collects tracks added via
// the hold-select gesture. It is created on first use and always sorts first.
const QuickAddPlaylistName = "On-the-Go"

type Playlist struct {
	ID        string
	Name      string
	TrackIDs  []string
	System    bool
	CreatedAt time.Time
}

func NewPlaylist(name string) Playlist {
	return Playlist{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now().UTC(),
	}
}

func (p Playlist) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("model: playlist id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("model: playlist name is required")
	}
	if p.CreatedAt.IsZero() {
		return errors.New("model: playlist created_at is required")
	}
	return nil
}

// Contains reports whether the playlist already holds the given track.
func (p Playlist) Contains(trackID string) bool {
	for _, id := range p.TrackIDs {
		if id == trackID {
			return true
		}
	}
	return false
}
