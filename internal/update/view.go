package update

import (
	"time"

	"github.com/hveldt/retropod/internal/menu"
	"github.com/hveldt/retropod/internal/model"
	"github.com/hveldt/retropod/internal/nav"
	"github.com/hveldt/retropod/internal/views"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	top := m.stack.Top()
	return views.RenderDevice(views.DeviceData{
		Title:      m.routeTitle(top.Route),
		TitleGlyph: m.titleGlyph(),
		Body:       m.routeBody(top),
		Status:     m.status.Text,
		IsError:    m.status.IsError,
		Footer:     m.helpView.View(m.keys),
		Theme:      m.prefs.Theme,
	})
}

func (m Model) titleGlyph() string {
	st := m.transport.State()
	if _, ok := st.Current(); !ok {
		return ""
	}
	if st.Playing {
		return "▶"
	}
	return "‖"
}

func (m Model) routeTitle(r nav.Route) string {
	switch route := r.(type) {
	case nav.HomeRoute:
		return "retropod"
	case nav.MusicRoute:
		return "Music"
	case nav.PlaylistsRoute:
		return "Playlists"
	case nav.PlaylistTracksRoute:
		for _, pl := range m.playlists {
			if pl.ID == route.PlaylistID {
				return pl.Name
			}
		}
		return "Playlist"
	case nav.ArtistsRoute:
		return "Artists"
	case nav.ArtistAlbumsRoute:
		return route.Artist
	case nav.AlbumsRoute:
		return "Albums"
	case nav.AlbumTracksRoute:
		if route.Album == "" {
			return "All Songs"
		}
		return route.Album
	case nav.SongsRoute:
		return "Songs"
	case nav.SearchRoute:
		return "Search"
	case nav.NowPlayingRoute:
		return "Now Playing"
	case nav.ExtrasRoute:
		return "Extras"
	case nav.GameRoute:
		return "Bounce"
	case nav.FocusRoute:
		return "Focus Timer"
	case nav.FocusStatsRoute:
		return "Focus Stats"
	case nav.SettingsRoute:
		return "Settings"
	case nav.EditSettingRoute:
		return editLabel(route.Setting)
	case nav.AboutRoute:
		return "About"
	}
	return "retropod"
}

func (m Model) routeBody(top nav.Frame) string {
	switch top.Route.(type) {
	case nav.NowPlayingRoute:
		return m.nowPlayingBody()
	case nav.GameRoute:
		return m.gameBody()
	case nav.FocusRoute:
		return m.focusBody()
	case nav.FocusStatsRoute:
		return m.statsBody()
	case nav.SearchRoute:
		return m.searchBody()
	case nav.EditSettingRoute:
		return views.RenderEditor(views.EditorData{
			Label: "scrolling changes the value",
			Value: editValue(m.edit),
			Hint:  "back saves",
			Theme: m.prefs.Theme,
		})
	case nav.AboutRoute:
		return m.about
	default:
		return m.menuBody(top)
	}
}

func (m Model) menuBody(top nav.Frame) string {
	rows := m.rows()
	cursor := top.Cursor
	if cursor >= len(rows) {
		cursor = len(rows) - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return views.RenderMenu(views.MenuData{
		Rows:   toMenuRows(rows),
		Cursor: cursor,
		Theme:  m.prefs.Theme,
	})
}

func toMenuRows(rows []menu.Action) []views.MenuRow {
	out := make([]views.MenuRow, 0, len(rows))
	for _, a := range rows {
		out = append(out, views.MenuRow{
			Label:    a.Label,
			Subtext:  a.Subtext,
			HasArrow: a.HasArrow,
			Rating:   a.Rating,
		})
	}
	return out
}

func (m Model) nowPlayingBody() string {
	st := m.transport.State()
	cur, ok := st.Current()
	if !ok {
		return "\n  Nothing playing."
	}

	rating := 0
	for _, t := range m.tracks {
		if t.ID == cur.ID {
			rating = t.Rating
			break
		}
	}

	pct := 0.0
	if st.Duration > 0 {
		pct = float64(st.Position) / float64(st.Duration)
	}
	return views.RenderNowPlaying(views.NowPlayingData{
		Title:    cur.Title,
		Artist:   cur.Artist,
		Album:    cur.Album,
		Index:    st.Index + 1,
		Total:    len(st.Queue),
		Position: st.Position,
		Duration: st.Duration,
		Bar:      m.playBar.ViewAs(pct),
		Playing:  st.Playing,
		Loading:  m.loading,
		Spinner:  m.spin.View(),
		Volume:   st.Volume,
		Shuffle:  st.Shuffle,
		Repeat:   st.Repeat.String(),
		Rating:   rating,
		Theme:    m.prefs.Theme,
	})
}

func (m Model) gameBody() string {
	snap := m.game.Snapshot()
	return views.RenderGame(views.GameData{
		Phase:     snap.Phase.String(),
		Score:     snap.Score,
		HighScore: snap.HighScore,
		PaddleDeg: m.paddleAnim,
		BallX:     snap.BallX,
		BallY:     snap.BallY,
		Theme:     m.prefs.Theme,
	})
}

func (m Model) focusBody() string {
	snap := m.timer.Snapshot()
	pct := 0.0
	if snap.Total > 0 {
		pct = 1 - float64(snap.Remaining)/float64(snap.Total)
	}
	return views.RenderFocus(views.FocusData{
		Idle:      snap.Idle,
		Active:    snap.Active,
		Session:   string(snap.Session),
		Remaining: snap.Remaining,
		Total:     snap.Total,
		Bar:       m.focusBar.ViewAs(pct),
		CycleWork: snap.CycleWork,
		Interval:  m.focusSet.LongBreakInterval,
		Theme:     m.prefs.Theme,
	})
}

// statsBody aggregates the session log. The log arrives newest first.
func (m Model) statsBody() string {
	data := views.StatsData{Theme: m.prefs.Theme}
	for _, s := range m.sessions {
		d := time.Duration(s.DurationSec) * time.Second
		if s.Type == string(model.SessionTypeWork) {
			data.WorkCount++
			data.WorkTotal += d
		} else {
			data.BreakCount++
			data.BreakTotal += d
		}
	}
	for i, s := range m.sessions {
		if i >= 8 {
			break
		}
		data.Recent = append(data.Recent, views.StatsRow{
			When:     s.StartedAt.Format("Jan 02 15:04"),
			Type:     s.Type,
			Duration: time.Duration(s.DurationSec) * time.Second,
		})
	}
	return views.RenderStats(data)
}

func (m Model) searchBody() string {
	matches := make([]views.MenuRow, 0, len(m.search.matches))
	for _, t := range m.search.matches {
		matches = append(matches, views.MenuRow{Label: t.Title, Subtext: t.Artist})
	}
	return views.RenderSearch(views.SearchData{
		Query:        m.search.query,
		Letters:      searchLetters,
		LetterCursor: m.search.letterCursor,
		Matches:      matches,
		MatchCursor:  m.search.matchCursor,
		Theme:        m.prefs.Theme,
	})
}
