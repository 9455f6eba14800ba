package menu

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hveldt/retropod/internal/model"
	"github.com/hveldt/retropod/internal/nav"
	"github.com/hveldt/retropod/internal/player"
	"github.com/hveldt/retropod/internal/storage"
)

// Resolve maps the top frame's route to its menu rows. Full-screen views
// (now playing, game, focus, search, editors) resolve to nil: they render
// their own surface and take input directly. An empty slice from a list
// view means the collection is empty and the renderer shows its "no items"
// affordance.
func Resolve(route nav.Route, s Snapshot) []Action {
	switch r := route.(type) {
	case nav.HomeRoute:
		return homeMenu(s)
	case nav.MusicRoute:
		return musicMenu()
	case nav.PlaylistsRoute:
		return playlistsMenu(s)
	case nav.PlaylistTracksRoute:
		return songRows(playlistTracks(s, r.PlaylistID))
	case nav.ArtistsRoute:
		return artistsMenu(s)
	case nav.ArtistAlbumsRoute:
		return artistAlbumsMenu(s, r.Artist)
	case nav.AlbumsRoute:
		return albumsMenu(s)
	case nav.AlbumTracksRoute:
		return songRows(filterTracks(s.Tracks, r.Artist, r.Album))
	case nav.SongsRoute:
		return songRows(sortedByTitle(s.Tracks))
	case nav.ExtrasRoute:
		return extrasMenu()
	case nav.SettingsRoute:
		return settingsMenu(s)
	default:
		return nil
	}
}

func homeMenu(s Snapshot) []Action {
	out := []Action{
		{Label: "Music", HasArrow: true, Msg: PushMsg{Route: nav.MusicRoute{}}},
		{Label: "Extras", HasArrow: true, Msg: PushMsg{Route: nav.ExtrasRoute{}}},
		{Label: "Settings", HasArrow: true, Msg: PushMsg{Route: nav.SettingsRoute{}}},
		{Label: "Shuffle Songs", Msg: ShuffleAllMsg{}},
	}
	if s.HasCurrent {
		out = append(out, Action{Label: "Now Playing", HasArrow: true, Msg: PushMsg{Route: nav.NowPlayingRoute{}}})
	}
	return out
}

func musicMenu() []Action {
	return []Action{
		{Label: "Playlists", HasArrow: true, Msg: PushMsg{Route: nav.PlaylistsRoute{}}},
		{Label: "Artists", HasArrow: true, Msg: PushMsg{Route: nav.ArtistsRoute{}}},
		{Label: "Albums", HasArrow: true, Msg: PushMsg{Route: nav.AlbumsRoute{}}},
		{Label: "Songs", HasArrow: true, Msg: PushMsg{Route: nav.SongsRoute{}}},
		{Label: "Search", HasArrow: true, Msg: PushMsg{Route: nav.SearchRoute{}}},
	}
}

func extrasMenu() []Action {
	return []Action{
		{Label: "Bounce", HasArrow: true, Msg: PushMsg{Route: nav.GameRoute{}}},
		{Label: "Focus Timer", HasArrow: true, Msg: PushMsg{Route: nav.FocusRoute{}}},
		{Label: "Focus Stats", HasArrow: true, Msg: PushMsg{Route: nav.FocusStatsRoute{}}},
		{Label: "About", HasArrow: true, Msg: PushMsg{Route: nav.AboutRoute{}}},
	}
}

// playlistsMenu lists the quick-add playlist first, then the rest in
// storage order.
func playlistsMenu(s Snapshot) []Action {
	out := make([]Action, 0, len(s.Playlists))
	for _, pl := range s.Playlists {
		if pl.Name == model.QuickAddPlaylistName {
			out = append([]Action{playlistRow(pl)}, out...)
			continue
		}
		out = append(out, playlistRow(pl))
	}
	return out
}

func playlistRow(pl storage.Playlist) Action {
	return Action{
		Label:    pl.Name,
		Subtext:  songCount(len(pl.TrackIDs)),
		HasArrow: true,
		Msg:      PushMsg{Route: nav.PlaylistTracksRoute{PlaylistID: pl.ID}},
	}
}

func artistsMenu(s Snapshot) []Action {
	artists := dedupeSorted(s.Tracks, func(t storage.Track) string { return t.Artist })
	out := make([]Action, 0, len(artists))
	for _, artist := range artists {
		out = append(out, Action{
			Label:    artist,
			HasArrow: true,
			Msg:      PushMsg{Route: nav.ArtistAlbumsRoute{Artist: artist}},
		})
	}
	return out
}

func artistAlbumsMenu(s Snapshot, artist string) []Action {
	byArtist := filterTracks(s.Tracks, artist, "")
	if len(byArtist) == 0 {
		return nil
	}
	out := []Action{{
		Label:    "All Songs",
		HasArrow: true,
		Msg:      PushMsg{Route: nav.AlbumTracksRoute{Artist: artist}},
	}}
	for _, album := range dedupeSorted(byArtist, func(t storage.Track) string { return t.Album }) {
		out = append(out, Action{
			Label:    album,
			HasArrow: true,
			Msg:      PushMsg{Route: nav.AlbumTracksRoute{Artist: artist, Album: album}},
		})
	}
	return out
}

func albumsMenu(s Snapshot) []Action {
	albums := dedupeSorted(s.Tracks, func(t storage.Track) string { return t.Album })
	out := make([]Action, 0, len(albums))
	for _, album := range albums {
		out = append(out, Action{
			Label:    album,
			HasArrow: true,
			Msg:      PushMsg{Route: nav.AlbumTracksRoute{Album: album}},
		})
	}
	return out
}

func settingsMenu(s Snapshot) []Action {
	return []Action{
		{Label: "Work Minutes", Subtext: fmt.Sprintf("%d min", s.Focus.WorkMinutes), HasArrow: true,
			Msg: PushMsg{Route: nav.EditSettingRoute{Setting: nav.SettingWorkMinutes}}},
		{Label: "Short Break", Subtext: fmt.Sprintf("%d min", s.Focus.ShortBreakMinutes), HasArrow: true,
			Msg: PushMsg{Route: nav.EditSettingRoute{Setting: nav.SettingShortBreakMinutes}}},
		{Label: "Long Break", Subtext: fmt.Sprintf("%d min", s.Focus.LongBreakMinutes), HasArrow: true,
			Msg: PushMsg{Route: nav.EditSettingRoute{Setting: nav.SettingLongBreakMinutes}}},
		{Label: "Long Break Interval", Subtext: fmt.Sprintf("every %d", s.Focus.LongBreakInterval), HasArrow: true,
			Msg: PushMsg{Route: nav.EditSettingRoute{Setting: nav.SettingLongBreakInterval}}},
		{Label: "Auto Continue", Subtext: onOff(s.Focus.AutoContinue), HasArrow: true,
			Msg: PushMsg{Route: nav.EditSettingRoute{Setting: nav.SettingAutoContinue}}},
		{Label: "Shuffle", Subtext: onOff(s.Shuffle), HasArrow: true,
			Msg: PushMsg{Route: nav.EditSettingRoute{Setting: nav.SettingShuffle}}},
		{Label: "Repeat", Subtext: s.Repeat, HasArrow: true,
			Msg: PushMsg{Route: nav.EditSettingRoute{Setting: nav.SettingRepeat}}},
		{Label: "Theme", Subtext: s.Theme, HasArrow: true,
			Msg: PushMsg{Route: nav.EditSettingRoute{Setting: nav.SettingTheme}}},
		{Label: "Reset High Score", Subtext: fmt.Sprintf("best %d", s.HighScore), Msg: ResetHighScoreMsg{}},
		{Label: "Reset Library", Msg: WipeLibraryMsg{}},
	}
}

// songRows turns an ordered track list into playable rows. Every row plays
// within the context of the whole list, so next/prev walk it.
func songRows(tracks []storage.Track) []Action {
	context := TrackRefs(tracks)
	out := make([]Action, 0, len(tracks))
	for i, t := range tracks {
		out = append(out, Action{
			Label:   t.Title,
			Subtext: t.Artist,
			Rating:  t.Rating,
			TrackID: t.ID,
			Msg:     PlayMsg{Context: context, Index: i},
		})
	}
	return out
}

// TrackRefs converts stored metadata rows into the transport's track refs.
func TrackRefs(tracks []storage.Track) []player.TrackRef {
	out := make([]player.TrackRef, 0, len(tracks))
	for _, t := range tracks {
		out = append(out, player.TrackRef{
			ID:       t.ID,
			Title:    t.Title,
			Artist:   t.Artist,
			Album:    t.Album,
			Duration: time.Duration(t.DurationSec) * time.Second,
			HasData:  t.HasData,
		})
	}
	return out
}

func playlistTracks(s Snapshot, playlistID string) []storage.Track {
	var pl *storage.Playlist
	for i := range s.Playlists {
		if s.Playlists[i].ID == playlistID {
			pl = &s.Playlists[i]
			break
		}
	}
	if pl == nil {
		return nil
	}
	byID := make(map[string]storage.Track, len(s.Tracks))
	for _, t := range s.Tracks {
		byID[t.ID] = t
	}
	out := make([]storage.Track, 0, len(pl.TrackIDs))
	for _, id := range pl.TrackIDs {
		if t, ok := byID[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

// filterTracks narrows by artist and album, title-ordered. Empty values
// match everything.
func filterTracks(tracks []storage.Track, artist, album string) []storage.Track {
	out := make([]storage.Track, 0)
	for _, t := range tracks {
		if artist != "" && t.Artist != artist {
			continue
		}
		if album != "" && t.Album != album {
			continue
		}
		out = append(out, t)
	}
	return sortedByTitle(out)
}

func sortedByTitle(tracks []storage.Track) []storage.Track {
	out := make([]storage.Track, len(tracks))
	copy(out, tracks)
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
	})
	return out
}

// dedupeSorted collects the distinct non-empty values of key, sorted
// case-insensitively.
func dedupeSorted(tracks []storage.Track, key func(storage.Track) string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, t := range tracks {
		v := key(t)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}

func songCount(n int) string {
	if n == 1 {
		return "1 song"
	}
	return fmt.Sprintf("%d songs", n)
}

func onOff(v bool) string {
	if v {
		return "On"
	}
	return "Off"
}
