package update

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hveldt/retropod/internal/menu"
	"github.com/hveldt/retropod/internal/model"
	"github.com/hveldt/retropod/internal/nav"
	"github.com/hveldt/retropod/internal/player"
	"github.com/hveldt/retropod/internal/storage"
	"github.com/hveldt/retropod/internal/wheel"
)

func (m Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.rows()
	cursor := m.clampedCursor(len(rows))

	switch {
	case key.Matches(msg, m.keys.Up):
		if cursor > 0 {
			m.stack.SetCursor(cursor - 1)
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if cursor < len(rows)-1 {
			m.stack.SetCursor(cursor + 1)
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		// A tap is a press that releases before the long-press deadline.
		now := m.now()
		m.hold.Press(now)
		if m.hold.Release(now) != wheel.ActionSelect {
			return m, nil
		}
		if len(rows) == 0 || rows[cursor].Msg == nil {
			return m, nil
		}
		return m.Update(rows[cursor].Msg)

	case key.Matches(msg, m.keys.Hold):
		// Terminals deliver no key-release, so the hold key stands in for
		// keeping select pressed past the deadline: the timer fires and wins.
		now := m.now()
		m.hold.Press(now)
		if m.hold.Fire(m.hold.Deadline()) != wheel.ActionLongPress {
			return m, nil
		}
		if len(rows) == 0 || rows[cursor].TrackID == "" {
			return m, nil
		}
		return m.quickAdd(rows[cursor].TrackID)

	case key.Matches(msg, m.keys.Back):
		m.stack.Pop()
		return m, nil
	}
	return m.handleTransportKey(msg)
}

// clampedCursor keeps the stored cursor inside the current row count; rows
// shrink when the library changes underneath a frame.
func (m *Model) clampedCursor(rowCount int) int {
	cursor := m.stack.Top().Cursor
	if cursor >= rowCount {
		cursor = rowCount - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	m.stack.SetCursor(cursor)
	return cursor
}

// enterRoute pushes a route and runs its entry effects. Activities pause
// music on entry; the track and position are preserved and nothing resumes
// automatically.
func (m Model) enterRoute(r nav.Route) (tea.Model, tea.Cmd) {
	switch route := r.(type) {
	case nav.GameRoute, nav.FocusRoute:
		m.transport.Pause()
		m.publishNowPlaying()
	case nav.EditSettingRoute:
		m.edit = m.seedEdit(route.Setting)
	case nav.SearchRoute:
		m.search = searchState{}
	case nav.FocusStatsRoute:
		m.loadSessions()
	case nav.AboutRoute:
		if m.about == "" {
			m.about = renderAbout()
		}
	}
	m.stack.Push(r)
	return m, nil
}

// startPlayback hands a queue to the transport and jumps to now playing.
// Starting music pauses an active focus timer; a game can only be entered
// from its own screen, so it needs no handling here.
func (m Model) startPlayback(queue []player.TrackRef, index int) (tea.Model, tea.Cmd) {
	if err := m.transport.Play(queue, index); err != nil {
		m.log.Error().Err(err).Msg("playback start failed")
		return m.setStatus(err.Error(), true)
	}
	m.pauseFocusTimer()
	m.loading = true
	m.publishNowPlaying()
	if _, ok := m.stack.Top().Route.(nav.NowPlayingRoute); !ok {
		m.stack.Push(nav.NowPlayingRoute{})
	}
	return m, m.spin.Tick
}

// shuffleAll turns shuffle on and plays the whole library from a random
// track.
func (m Model) shuffleAll() (tea.Model, tea.Cmd) {
	if len(m.tracks) == 0 {
		return m.setStatus("library is empty", false)
	}
	m.transport.SetShuffle(true)
	if !m.prefs.Shuffle {
		m.prefs.Shuffle = true
		if err := m.prefs.Save(); err != nil {
			m.log.Warn().Err(err).Msg("saving prefs failed")
		}
	}
	if err := m.transport.PlayAll(menu.TrackRefs(m.tracks)); err != nil {
		return m.setStatus(err.Error(), true)
	}
	m.pauseFocusTimer()
	m.loading = true
	m.publishNowPlaying()
	m.stack.ReplaceAll(nav.NowPlayingRoute{})
	return m, m.spin.Tick
}

// quickAdd is the hold-select gesture on a song row.
func (m Model) quickAdd(trackID string) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	added, err := m.lib.QuickAdd(ctx, trackID)
	if err != nil {
		m.log.Error().Err(err).Str("track_id", trackID).Msg("quick-add failed")
		return m.setStatus("could not add to "+model.QuickAddPlaylistName, true)
	}
	m.reloadLibrary(ctx)
	if !added {
		return m.setStatus("already in "+model.QuickAddPlaylistName, false)
	}
	return m.setStatus("added to "+model.QuickAddPlaylistName, false)
}

// wipeLibrary clears all tracks and stops whatever was playing them.
func (m Model) wipeLibrary() (tea.Model, tea.Cmd) {
	ctx := context.Background()
	deleted, err := m.lib.Wipe(ctx)
	m.transport.Stop()
	m.session.Clear()
	m.reloadLibrary(ctx)
	if err != nil {
		m.log.Error().Err(err).Int("deleted", deleted).Msg("library wipe failed")
		return m.setStatus("wipe failed, library partially cleared", true)
	}
	return m.setStatus("library cleared", false)
}

func (m Model) resetHighScore() (tea.Model, tea.Cmd) {
	m.game.ResetHighScore()
	m.prefs.HighScore = 0
	if err := m.prefs.Save(); err != nil {
		m.log.Warn().Err(err).Msg("saving prefs failed")
		return m.setStatus("high score reset (not saved)", true)
	}
	return m.setStatus("high score reset", false)
}

func (m *Model) loadSessions() {
	sessions, err := m.repo.ListFocusSessions(context.Background(), storage.FocusSessionListFilter{})
	if err != nil {
		m.log.Error().Err(err).Msg("listing focus sessions failed")
		return
	}
	m.sessions = sessions
}
