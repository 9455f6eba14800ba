package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/hveldt/retropod/internal/focus"
	"github.com/hveldt/retropod/internal/model"
	"github.com/hveldt/retropod/internal/storage"
)

func (m Model) handleFocusKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		// The countdown keeps running off-screen; only explicit pause or
		// another activity stops it.
		m.stack.Pop()
		return m, nil

	case key.Matches(msg, m.keys.Select):
		return m.startFocus()

	case key.Matches(msg, m.keys.PlayPause):
		if m.timer.Active() {
			m.pauseFocusTimer()
			return m, nil
		}
		if !m.timer.Idle() {
			return m.resumeFocus()
		}
		return m, nil

	case key.Matches(msg, m.keys.Next):
		return m.skipFocusSession()

	case key.Matches(msg, m.keys.Prev):
		m.timer.Reset()
		m.focusSeq++
		return m, nil
	}
	return m, nil
}

// startFocus starts from idle or resumes from pause with the same control.
// A running timer and a running game are mutually exclusive, and starting
// the timer silences music.
func (m Model) startFocus() (tea.Model, tea.Cmd) {
	if m.timer.Active() {
		return m, nil
	}
	m.game.Pause()
	m.frameSeq++
	m.transport.Pause()
	m.publishNowPlaying()
	m.timer.Start(m.now())
	return m.armFocusClock()
}

func (m Model) resumeFocus() (tea.Model, tea.Cmd) {
	m.timer.Resume()
	if !m.timer.Active() {
		return m, nil
	}
	return m.armFocusClock()
}

func (m Model) armFocusClock() (tea.Model, tea.Cmd) {
	m.focusSeq++
	return m, focusTickCmd(m.focusSeq)
}

// pauseFocusTimer halts the countdown and retires its tick generation.
func (m *Model) pauseFocusTimer() {
	m.timer.Pause()
	m.focusSeq++
}

func focusTickCmd(seq int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return focusTickMsg{seq: seq}
	})
}

func (m Model) handleFocusTick(msg focusTickMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.focusSeq {
		return m, nil
	}

	completed, done := m.timer.Tick(m.now())
	if !done {
		if !m.timer.Active() {
			return m, nil
		}
		return m, focusTickCmd(m.focusSeq)
	}

	m.recordFocusSession(completed)
	next, cmd := m.setStatus(sessionDoneText(completed.Type), false)
	if m.timer.Active() {
		// The consumed tick is this generation's only one; re-arming the
		// same seq keeps a single clock.
		return next, tea.Batch(cmd, focusTickCmd(m.focusSeq))
	}
	return next, cmd
}

// skipFocusSession ends the current session early, logging its real elapsed
// time, and advances the cycle.
func (m Model) skipFocusSession() (tea.Model, tea.Cmd) {
	completed, done := m.timer.Skip(m.now())
	if !done {
		return m, nil
	}
	m.recordFocusSession(completed)
	// A skip may land while a tick of the old generation is in flight;
	// retire the generation so at most one fresh clock survives.
	m.focusSeq++
	next, cmd := m.setStatus(sessionDoneText(completed.Type), false)
	if m.timer.Active() {
		return next, tea.Batch(cmd, focusTickCmd(m.focusSeq))
	}
	return next, cmd
}

// recordFocusSession appends to the session log. A storage failure costs one
// log row, never the running timer.
func (m *Model) recordFocusSession(c focus.Completed) {
	rec := storage.FocusSession{
		ID:          uuid.NewString(),
		Type:        string(c.Type),
		StartedAt:   c.StartedAt,
		DurationSec: int(c.Elapsed / time.Second),
	}
	if err := m.repo.AppendFocusSession(context.Background(), rec); err != nil {
		m.log.Error().Err(err).Str("type", rec.Type).Msg("recording focus session failed")
		return
	}
	m.sessions = append([]storage.FocusSession{rec}, m.sessions...)
}

func sessionDoneText(t model.SessionType) string {
	switch t {
	case model.SessionTypeShortBreak:
		return "short break over"
	case model.SessionTypeLongBreak:
		return "long break over"
	default:
		return "work session complete"
	}
}
