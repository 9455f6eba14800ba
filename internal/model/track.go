package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidRating = errors.New("model: invalid track rating")

const (
	RatingMin = 0
	RatingMax = 5
)

type Track struct {
	ID       string
	Title    string
	Artist   string
	Album    string
	Folder   string
	Duration time.Duration
	Rating   int
	Data     []byte
	AddedAt  time.Time
}

func NewTrack(title, artist, album, folder string, duration time.Duration, data []byte) Track {
	return Track{
		ID:       uuid.NewString(),
		Title:    strings.TrimSpace(title),
		Artist:   strings.TrimSpace(artist),
		Album:    strings.TrimSpace(album),
		Folder:   strings.TrimSpace(folder),
		Duration: duration,
		Data:     data,
		AddedAt:  time.Now().UTC(),
	}
}

func (t Track) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: track id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: track title is required")
	}
	if t.Duration < 0 {
		return errors.New("model: track duration must not be negative")
	}
	if t.Rating < RatingMin || t.Rating > RatingMax {
		return fmt.Errorf("%w: %d", ErrInvalidRating, t.Rating)
	}
	if t.AddedAt.IsZero() {
		return errors.New("model: track added_at is required")
	}
	return nil
}

// ImportKey identifies a track for import deduplication: two files with the
// same normalized title, artist and album are the same track.
func (t Track) ImportKey() string {
	return ImportKey(t.Title, t.Artist, t.Album)
}

func ImportKey(title, artist, album string) string {
	norm := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	return norm(title) + "\x1f" + norm(artist) + "\x1f" + norm(album)
}
