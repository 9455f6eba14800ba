package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hveldt/retropod/internal/player"
	"github.com/hveldt/retropod/internal/remote"
)

// waitForPlayerEvent blocks on the engine channel and delivers one event into
// the update loop. The handler re-arms it, so exactly one pump is ever
// outstanding.
func waitForPlayerEvent(c <-chan player.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-c
		return playerEventMsg{ev: ev, ok: ok}
	}
}

func (m Model) handlePlayerEvent(msg playerEventMsg) (tea.Model, tea.Cmd) {
	if !msg.ok {
		// Engine shut down; the pump dies with it.
		return m, nil
	}

	if _, isLoaded := msg.ev.(player.EventLoaded); isLoaded {
		m.loading = false
	}

	res := m.transport.HandleEvent(msg.ev)
	cmds := []tea.Cmd{waitForPlayerEvent(m.engineC)}

	if res.TrackChanged {
		m.loading = true
		m.publishNowPlaying()
		cmds = append(cmds, m.spin.Tick)
	}
	if res.QueueEnded {
		m.loading = false
		m.publishNowPlaying()
	}
	if res.SkippedTitle != "" {
		next, cmd := m.setStatus("skipped "+res.SkippedTitle+" (no media)", true)
		return next, tea.Batch(append(cmds, cmd)...)
	}
	return m, tea.Batch(cmds...)
}

// publishNowPlaying pushes the current track to the media session, or clears
// the session when nothing is loaded. Handlers are left unsupported: the
// session binding runs off the update loop and must not call the transport
// directly.
func (m Model) publishNowPlaying() {
	cur, ok := m.transport.Current()
	if !ok {
		m.session.Clear()
		return
	}
	st := m.transport.State()
	m.session.Publish(remote.NowPlaying{
		Title:    cur.Title,
		Artist:   cur.Artist,
		Album:    cur.Album,
		Duration: st.Duration,
		Playing:  st.Playing,
	}, remote.Handlers{})
}
