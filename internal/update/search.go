package update

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hveldt/retropod/internal/menu"
)

// handleSearchKey drives the letter-strip search: scroll moves over the
// strip, select types the highlighted letter, next/prev move through the
// matches and play/pause starts the highlighted one.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		// Back rubs out first; only an empty query navigates away.
		if m.search.query != "" {
			q := []rune(m.search.query)
			m.search.query = string(q[:len(q)-1])
			return m.refreshMatches()
		}
		m.search = searchState{}
		m.stack.Pop()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.search.letterCursor--
		if m.search.letterCursor < 0 {
			m.search.letterCursor = len(searchLetters) - 1
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.search.letterCursor = (m.search.letterCursor + 1) % len(searchLetters)
		return m, nil

	case key.Matches(msg, m.keys.Select):
		return m.typeSearchLetter()

	case key.Matches(msg, m.keys.Prev):
		if m.search.matchCursor > 0 {
			m.search.matchCursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Next):
		if m.search.matchCursor < len(m.search.matches)-1 {
			m.search.matchCursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.PlayPause):
		if len(m.search.matches) == 0 {
			return m, nil
		}
		return m.startPlayback(menu.TrackRefs(m.search.matches), m.search.matchCursor)
	}
	return m, nil
}

func (m Model) typeSearchLetter() (tea.Model, tea.Cmd) {
	switch r := searchLetters[m.search.letterCursor]; r {
	case '␣':
		m.search.query += " "
	case '⌫':
		if q := []rune(m.search.query); len(q) > 0 {
			m.search.query = string(q[:len(q)-1])
		}
	default:
		m.search.query += string(r)
	}
	return m.refreshMatches()
}

func (m Model) refreshMatches() (tea.Model, tea.Cmd) {
	matches, err := m.lib.Search(context.Background(), m.search.query)
	if err != nil {
		m.log.Error().Err(err).Str("query", m.search.query).Msg("search failed")
		return m.setStatus("search failed", true)
	}
	m.search.matches = matches
	m.search.matchCursor = 0
	return m, nil
}
