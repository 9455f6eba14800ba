package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hveldt/retropod/internal/model"
)

// seekStep is how far one seek key press moves the position.
const seekStep = 5 * time.Second

func (m Model) handleNowPlayingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.stack.Pop()
		return m, nil

	case key.Matches(msg, m.keys.Select):
		return m.cycleRating()

	case key.Matches(msg, m.keys.SeekFwd):
		m.transport.Seek(m.transport.State().Position + seekStep)
		return m, nil

	case key.Matches(msg, m.keys.SeekBack):
		m.transport.Seek(m.transport.State().Position - seekStep)
		return m, nil
	}
	return m.handleTransportKey(msg)
}

// cycleRating steps the current track's rating 0 through 5 and back to 0,
// persisting each step.
func (m Model) cycleRating() (tea.Model, tea.Cmd) {
	cur, ok := m.transport.Current()
	if !ok {
		return m, nil
	}
	rating := 0
	for _, t := range m.tracks {
		if t.ID == cur.ID {
			rating = t.Rating
			break
		}
	}
	next := rating + 1
	if next > model.RatingMax {
		next = 0
	}

	ctx := context.Background()
	if err := m.lib.Rate(ctx, cur.ID, next); err != nil {
		m.log.Error().Err(err).Str("track_id", cur.ID).Msg("rating update failed")
		return m.setStatus("could not save rating", true)
	}
	for i := range m.tracks {
		if m.tracks[i].ID == cur.ID {
			m.tracks[i].Rating = next
			break
		}
	}
	return m, nil
}

// afterTrackChange refreshes loading state and the media session after an
// explicit next/prev.
func (m Model) afterTrackChange() (tea.Model, tea.Cmd) {
	if _, ok := m.transport.Current(); !ok {
		return m, nil
	}
	m.loading = true
	m.publishNowPlaying()
	return m, m.spin.Tick
}

func (m Model) adjustVolume(delta float64) (tea.Model, tea.Cmd) {
	m.transport.AdjustVolume(delta)
	m.prefs.Volume = m.transport.State().Volume
	if err := m.prefs.Save(); err != nil {
		m.log.Warn().Err(err).Msg("saving prefs failed")
	}
	return m, nil
}
