package update

import (
	"math"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hveldt/retropod/internal/bounce"
	"github.com/hveldt/retropod/internal/nav"
)

// frameInterval is the simulation frame rate.
const frameInterval = time.Second / 30

// maxFrameDelta caps the simulation step after a stall, so the ball cannot
// tunnel through the rim when frames were delayed.
const maxFrameDelta = 250 * time.Millisecond

func (m Model) handleGameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		// Leaving the screen freezes the round; the frame clock dies with
		// its generation.
		m.game.Pause()
		m.frameSeq++
		m.stack.Pop()
		return m, nil

	case key.Matches(msg, m.keys.Select):
		switch m.game.Phase() {
		case bounce.PhaseIdle, bounce.PhaseGameOver:
			return m.startGame()
		case bounce.PhasePaused:
			return m.resumeGame()
		}
		return m, nil

	case key.Matches(msg, m.keys.PlayPause):
		switch m.game.Phase() {
		case bounce.PhasePlaying:
			m.game.Pause()
			m.frameSeq++
			return m, nil
		case bounce.PhasePaused:
			return m.resumeGame()
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.game.MovePaddle(1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.game.MovePaddle(-1)
		return m, nil
	}
	return m, nil
}

// startGame begins a round. The game and the focus timer never run at once,
// and music stays paused while the arena is up.
func (m Model) startGame() (tea.Model, tea.Cmd) {
	m.pauseFocusTimer()
	m.transport.Pause()
	m.game.Start()
	m.paddleAnim = m.game.Snapshot().PaddleDeg
	m.paddleVel = 0
	return m.armFrameClock()
}

func (m Model) resumeGame() (tea.Model, tea.Cmd) {
	m.game.Resume()
	return m.armFrameClock()
}

func (m Model) armFrameClock() (tea.Model, tea.Cmd) {
	m.frameSeq++
	m.lastFrame = m.now()
	return m, frameTickCmd(m.frameSeq)
}

func frameTickCmd(seq int) tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameTickMsg{seq: seq, at: t}
	})
}

func (m Model) handleFrameTick(msg frameTickMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.frameSeq {
		return m, nil
	}

	dt := msg.at.Sub(m.lastFrame)
	if dt <= 0 {
		dt = time.Millisecond
	}
	if dt > maxFrameDelta {
		dt = maxFrameDelta
	}
	m.lastFrame = msg.at

	res := m.game.Advance(dt)
	m.animatePaddle()
	if res.GameOver {
		m.log.Debug().Int("score", m.game.Snapshot().Score).Msg("bounce round ended")
		if res.NewHighScore {
			return m.setStatus("new high score!", false)
		}
		return m.setStatus("game over", false)
	}

	// Re-arm only while the arena is both on screen and live.
	if _, onGame := m.stack.Top().Route.(nav.GameRoute); !onGame || m.game.Phase() != bounce.PhasePlaying {
		return m, nil
	}
	return m, frameTickCmd(m.frameSeq)
}

// animatePaddle eases the rendered paddle toward the simulated angle along
// the shortest arc, so wrapping at 360 never swings the long way around.
func (m *Model) animatePaddle() {
	target := m.game.Snapshot().PaddleDeg
	diff := math.Mod(target-m.paddleAnim, 360)
	if diff > 180 {
		diff -= 360
	}
	if diff < -180 {
		diff += 360
	}
	m.paddleAnim, m.paddleVel = m.paddleSpring.Update(m.paddleAnim, m.paddleVel, m.paddleAnim+diff)
}
