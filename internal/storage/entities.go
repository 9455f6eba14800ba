package storage

import "time"

// Track carries metadata plus the raw media bytes. List operations leave
// Data empty and set HasData instead so a large library is cheap to page
// through; GetTrack returns the blob.
type Track struct {
	ID          string
	Title       string
	Artist      string
	Album       string
	Folder      string
	DurationSec int
	Rating      int
	ImportKey   string
	Data        []byte
	HasData     bool
	AddedAt     time.Time
}

type Playlist struct {
	ID        string
	Name      string
	System    bool
	TrackIDs  []string
	CreatedAt time.Time
}

// FocusSettings is a singleton row (id 1).
type FocusSettings struct {
	WorkMinutes       int
	ShortBreakMinutes int
	LongBreakMinutes  int
	LongBreakInterval int
	AutoContinue      bool
}

type FocusSession struct {
	ID          string
	Type        string
	StartedAt   time.Time
	DurationSec int
}

type TrackListFilter struct {
	Artist string
	Album  string
	Folder string
	Limit  int
	Offset int
}

type PlaylistListFilter struct {
	Limit  int
	Offset int
}

type FocusSessionListFilter struct {
	Type   string
	Limit  int
	Offset int
}
