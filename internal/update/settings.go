package update

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hveldt/retropod/internal/config"
	"github.com/hveldt/retropod/internal/nav"
	"github.com/hveldt/retropod/internal/storage"
)

// Editable minute and interval bounds.
const (
	minMinutes  = 1
	maxMinutes  = 180
	minInterval = 1
	maxInterval = 12
)

// seedEdit copies the live value of one setting into the editor.
func (m Model) seedEdit(setting nav.Setting) editState {
	st := m.transport.State()
	return editState{
		active:  true,
		setting: setting,
		focus:   m.focusSet,
		shuffle: st.Shuffle,
		repeat:  st.Repeat,
		theme:   m.prefs.Theme,
	}
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.edit = stepEdit(m.edit, 1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.edit = stepEdit(m.edit, -1)
		return m, nil

	case key.Matches(msg, m.keys.Select), key.Matches(msg, m.keys.Back):
		// Backing out commits; there is no cancel on a one-value editor.
		next, cmd := m.commitEdit()
		next.stack.Pop()
		next.edit = editState{}
		return next, cmd
	}
	return m, nil
}

// stepEdit applies one scroll click to the working value.
func stepEdit(e editState, delta int) editState {
	switch e.setting {
	case nav.SettingWorkMinutes:
		e.focus.WorkMinutes = clampInt(e.focus.WorkMinutes+delta, minMinutes, maxMinutes)
	case nav.SettingShortBreakMinutes:
		e.focus.ShortBreakMinutes = clampInt(e.focus.ShortBreakMinutes+delta, minMinutes, maxMinutes)
	case nav.SettingLongBreakMinutes:
		e.focus.LongBreakMinutes = clampInt(e.focus.LongBreakMinutes+delta, minMinutes, maxMinutes)
	case nav.SettingLongBreakInterval:
		e.focus.LongBreakInterval = clampInt(e.focus.LongBreakInterval+delta, minInterval, maxInterval)
	case nav.SettingAutoContinue:
		e.focus.AutoContinue = !e.focus.AutoContinue
	case nav.SettingShuffle:
		e.shuffle = !e.shuffle
	case nav.SettingRepeat:
		if delta >= 0 {
			e.repeat = e.repeat.Next()
		} else {
			e.repeat = e.repeat.Next().Next()
		}
	case nav.SettingTheme:
		if e.theme == config.ThemeClassic {
			e.theme = config.ThemeNoir
		} else {
			e.theme = config.ThemeClassic
		}
	}
	return e
}

// commitEdit writes the edited value to its home: focus settings to the
// database and the running timer, playback and theme settings to the
// transport and the prefs file.
func (m Model) commitEdit() (Model, tea.Cmd) {
	switch m.edit.setting {
	case nav.SettingWorkMinutes, nav.SettingShortBreakMinutes,
		nav.SettingLongBreakMinutes, nav.SettingLongBreakInterval,
		nav.SettingAutoContinue:
		return m.commitFocusSettings()

	case nav.SettingShuffle:
		m.transport.SetShuffle(m.edit.shuffle)
		m.prefs.Shuffle = m.edit.shuffle
		return m.savePrefs()

	case nav.SettingRepeat:
		m.transport.SetRepeat(m.edit.repeat)
		m.prefs.Repeat = m.edit.repeat.String()
		return m.savePrefs()

	case nav.SettingTheme:
		m.prefs.Theme = m.edit.theme
		return m.savePrefs()
	}
	return m, nil
}

func (m Model) commitFocusSettings() (Model, tea.Cmd) {
	if err := m.edit.focus.Validate(); err != nil {
		m.log.Warn().Err(err).Msg("edited focus settings invalid, discarded")
		return m.setStatus("invalid value, not saved", true)
	}
	rec := storage.FocusSettings{
		WorkMinutes:       m.edit.focus.WorkMinutes,
		ShortBreakMinutes: m.edit.focus.ShortBreakMinutes,
		LongBreakMinutes:  m.edit.focus.LongBreakMinutes,
		LongBreakInterval: m.edit.focus.LongBreakInterval,
		AutoContinue:      m.edit.focus.AutoContinue,
	}
	if err := m.repo.SaveFocusSettings(context.Background(), rec); err != nil {
		m.log.Error().Err(err).Msg("saving focus settings failed")
		return m.setStatus("could not save setting", true)
	}
	m.focusSet = m.edit.focus
	m.timer.ApplySettings(m.focusSet)
	return m, nil
}

func (m Model) savePrefs() (Model, tea.Cmd) {
	if err := m.prefs.Save(); err != nil {
		m.log.Error().Err(err).Msg("saving prefs failed")
		return m.setStatus("could not save setting", true)
	}
	return m, nil
}

// editValue renders the working value for the editor screen.
func editValue(e editState) string {
	switch e.setting {
	case nav.SettingWorkMinutes:
		return fmt.Sprintf("%d min", e.focus.WorkMinutes)
	case nav.SettingShortBreakMinutes:
		return fmt.Sprintf("%d min", e.focus.ShortBreakMinutes)
	case nav.SettingLongBreakMinutes:
		return fmt.Sprintf("%d min", e.focus.LongBreakMinutes)
	case nav.SettingLongBreakInterval:
		return fmt.Sprintf("every %d sessions", e.focus.LongBreakInterval)
	case nav.SettingAutoContinue:
		return onOffText(e.focus.AutoContinue)
	case nav.SettingShuffle:
		return onOffText(e.shuffle)
	case nav.SettingRepeat:
		return e.repeat.String()
	case nav.SettingTheme:
		return e.theme
	}
	return ""
}

func editLabel(setting nav.Setting) string {
	switch setting {
	case nav.SettingWorkMinutes:
		return "Work Minutes"
	case nav.SettingShortBreakMinutes:
		return "Short Break"
	case nav.SettingLongBreakMinutes:
		return "Long Break"
	case nav.SettingLongBreakInterval:
		return "Long Break Interval"
	case nav.SettingAutoContinue:
		return "Auto Continue"
	case nav.SettingShuffle:
		return "Shuffle"
	case nav.SettingRepeat:
		return "Repeat"
	case nav.SettingTheme:
		return "Theme"
	}
	return string(setting)
}

func onOffText(v bool) string {
	if v {
		return "On"
	}
	return "Off"
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
