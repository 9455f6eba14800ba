package update

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hveldt/retropod/internal/menu"
	"github.com/hveldt/retropod/internal/nav"
)

func (m Model) Init() tea.Cmd {
	return waitForPlayerEvent(m.engineC)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)

	case playerEventMsg:
		return m.handlePlayerEvent(typed)

	case focusTickMsg:
		return m.handleFocusTick(typed)

	case frameTickMsg:
		return m.handleFrameTick(typed)

	case clearStatusMsg:
		if typed.seq == m.statusSeq {
			m.status = StatusBar{}
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(typed)
		return m, cmd

	case menu.PushMsg:
		return m.enterRoute(typed.Route)

	case menu.PlayMsg:
		return m.startPlayback(typed.Context, typed.Index)

	case menu.ShuffleAllMsg:
		return m.shuffleAll()

	case menu.WipeLibraryMsg:
		return m.wipeLibrary()

	case menu.ResetHighScoreMsg:
		return m.resetHighScore()
	}
	return m, nil
}

// handleKey routes input by the top frame's route. The route decides who owns
// the wheel; there are no mode flags to fall out of sync.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		m.session.Clear()
		return m, tea.Quit
	}

	switch m.stack.Top().Route.(type) {
	case nav.NowPlayingRoute:
		return m.handleNowPlayingKey(msg)
	case nav.GameRoute:
		return m.handleGameKey(msg)
	case nav.FocusRoute:
		return m.handleFocusKey(msg)
	case nav.SearchRoute:
		return m.handleSearchKey(msg)
	case nav.EditSettingRoute:
		return m.handleEditKey(msg)
	case nav.FocusStatsRoute, nav.AboutRoute:
		return m.handleStaticKey(msg)
	default:
		return m.handleMenuKey(msg)
	}
}

// handleStaticKey serves the read-only screens: back pops, transport keys
// still work.
func (m Model) handleStaticKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) {
		m.stack.Pop()
		return m, nil
	}
	return m.handleTransportKey(msg)
}

// handleTransportKey is the shared fallback for playback control outside the
// now-playing screen.
func (m Model) handleTransportKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.PlayPause):
		if m.transport.TogglePause() {
			if m.transport.State().Playing {
				m.pauseFocusTimer()
			}
			m.publishNowPlaying()
		}
		return m, nil
	case key.Matches(msg, m.keys.Next):
		m.transport.Next()
		return m.afterTrackChange()
	case key.Matches(msg, m.keys.Prev):
		m.transport.Prev()
		return m.afterTrackChange()
	case key.Matches(msg, m.keys.VolUp):
		return m.adjustVolume(0.05)
	case key.Matches(msg, m.keys.VolDown):
		return m.adjustVolume(-0.05)
	}
	return m, nil
}
