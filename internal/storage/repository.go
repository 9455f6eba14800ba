package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

type Repository interface {
	CreateTrack(ctx context.Context, in Track) error
	GetTrack(ctx context.Context, id string) (Track, error)
	FindTrackByImportKey(ctx context.Context, key string) (Track, error)
	ListTracks(ctx context.Context, filter TrackListFilter) ([]Track, error)
	UpdateTrackRating(ctx context.Context, id string, rating int) error
	DeleteTracks(ctx context.Context, ids []string) (int, error)

	CreatePlaylist(ctx context.Context, in Playlist) error
	GetPlaylist(ctx context.Context, id string) (Playlist, error)
	GetPlaylistByName(ctx context.Context, name string) (Playlist, error)
	ListPlaylists(ctx context.Context, filter PlaylistListFilter) ([]Playlist, error)
	UpdatePlaylist(ctx context.Context, in Playlist) error
	DeletePlaylist(ctx context.Context, id string) error

	GetFocusSettings(ctx context.Context) (FocusSettings, error)
	SaveFocusSettings(ctx context.Context, in FocusSettings) error

	AppendFocusSession(ctx context.Context, in FocusSession) error
	ListFocusSessions(ctx context.Context, filter FocusSessionListFilter) ([]FocusSession, error)
}
