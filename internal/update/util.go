package update

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hveldt/retropod/internal/views"
)

// setStatus shows a transient status line and schedules its expiry. The seq
// stamp keeps an old expiry from wiping a newer message.
func (m Model) setStatus(text string, isError bool) (Model, tea.Cmd) {
	m.status = StatusBar{Text: text, IsError: isError}
	m.statusSeq++
	seq := m.statusSeq
	return m, tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

const aboutMarkdown = `# retropod

A click-wheel music player for the terminal.

* **Music**: browse playlists, artists and albums, rate songs,
  shuffle the whole library
* **Bounce**: keep the ball alive with the paddle
* **Focus Timer**: work and break sessions with a history log

Hold select on any song to add it to *On-the-Go*.
`

func renderAbout() string {
	return views.RenderMarkdown(aboutMarkdown)
}
