// Package menu resolves the current view into its list of selectable rows.
// Resolution is pure: the same route and snapshot always produce the same
// rows, and nothing is mutated. A row's effect is the message it carries;
// the update loop is the only writer of state.
package menu

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hveldt/retropod/internal/model"
	"github.com/hveldt/retropod/internal/nav"
	"github.com/hveldt/retropod/internal/player"
	"github.com/hveldt/retropod/internal/storage"
)

// Action is one selectable menu row.
type Action struct {
	Label    string
	Subtext  string
	HasArrow bool
	// Rating is the star count shown on rated song rows, 0 for none.
	Rating int
	// TrackID marks rows that refer to a song; the hold-select quick-add
	// gesture only applies to these.
	TrackID string
	// Msg is delivered to the update loop when the row is selected.
	Msg tea.Msg
}

// Snapshot is the read-only data menus are resolved against.
type Snapshot struct {
	Tracks    []storage.Track
	Playlists []storage.Playlist
	Focus     model.FocusSettings
	Shuffle   bool
	Repeat    string
	Theme     string
	HighScore int
	// HasCurrent reports whether a current track exists; it gates the Now
	// Playing row on the home menu.
	HasCurrent bool
}

// PushMsg navigates forward to a route.
type PushMsg struct {
	Route nav.Route
}

// PlayMsg starts playback of Context at Index.
type PlayMsg struct {
	Context []player.TrackRef
	Index   int
}

// ShuffleAllMsg plays the whole library shuffled.
type ShuffleAllMsg struct{}

// WipeLibraryMsg clears all tracks and non-system playlists.
type WipeLibraryMsg struct{}

// ResetHighScoreMsg zeroes the persisted Bounce high score.
type ResetHighScoreMsg struct{}
