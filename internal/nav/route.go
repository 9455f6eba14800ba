// Package nav holds the device's navigation state: a stack of frames, each a
// typed route plus its cursor position. The stack is never empty; the bottom
// frame is always the home menu.
package nav

// Route identifies a screen. It is a closed set: every variant is a struct in
// this package, and dispatch is a type switch, so adding a screen fails to
// compile anywhere a handler is missing rather than falling through on a
// string id.
type Route interface {
	isRoute()
}

type HomeRoute struct{}

type MusicRoute struct{}

type PlaylistsRoute struct{}

// PlaylistTracksRoute lists one playlist's tracks.
type PlaylistTracksRoute struct {
	PlaylistID string
}

type ArtistsRoute struct{}

// ArtistAlbumsRoute lists the albums of one artist.
type ArtistAlbumsRoute struct {
	Artist string
}

type AlbumsRoute struct{}

// AlbumTracksRoute lists an album's tracks. Artist narrows the album when the
// route was reached through an artist; empty means any artist.
type AlbumTracksRoute struct {
	Artist string
	Album  string
}

type SongsRoute struct{}

type SearchRoute struct{}

type NowPlayingRoute struct{}

type ExtrasRoute struct{}

type GameRoute struct{}

type FocusRoute struct{}

type FocusStatsRoute struct{}

type SettingsRoute struct{}

// EditSettingRoute is a value editor for a single setting; scroll changes the
// value and backing out commits it.
type EditSettingRoute struct {
	Setting Setting
}

type AboutRoute struct{}

func (HomeRoute) isRoute()           {}
func (MusicRoute) isRoute()          {}
func (PlaylistsRoute) isRoute()      {}
func (PlaylistTracksRoute) isRoute() {}
func (ArtistsRoute) isRoute()        {}
func (ArtistAlbumsRoute) isRoute()   {}
func (AlbumsRoute) isRoute()         {}
func (AlbumTracksRoute) isRoute()    {}
func (SongsRoute) isRoute()          {}
func (SearchRoute) isRoute()         {}
func (NowPlayingRoute) isRoute()     {}
func (ExtrasRoute) isRoute()         {}
func (GameRoute) isRoute()           {}
func (FocusRoute) isRoute()          {}
func (FocusStatsRoute) isRoute()     {}
func (SettingsRoute) isRoute()       {}
func (EditSettingRoute) isRoute()    {}
func (AboutRoute) isRoute()          {}

// Setting names one editable device setting.
type Setting string

const (
	SettingWorkMinutes       Setting = "work-minutes"
	SettingShortBreakMinutes Setting = "short-break-minutes"
	SettingLongBreakMinutes  Setting = "long-break-minutes"
	SettingLongBreakInterval Setting = "long-break-interval"
	SettingAutoContinue      Setting = "auto-continue"
	SettingShuffle           Setting = "shuffle"
	SettingRepeat            Setting = "repeat"
	SettingTheme             Setting = "theme"
)
