// Package library implements the operations over the stored music library:
// bulk import with duplicate suppression and folder playlists, the quick-add
// playlist, search, and the chunked wipe. It is the only writer of tracks
// and playlists; the UI reads through it as well.
package library

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/rs/zerolog"

	"github.com/hveldt/retropod/internal/model"
	"github.com/hveldt/retropod/internal/storage"
)

// wipeChunkSize bounds one delete statement during a wipe.
const wipeChunkSize = 64

type Library struct {
	repo storage.Repository
	log  zerolog.Logger
}

func New(repo storage.Repository, log zerolog.Logger) *Library {
	return &Library{repo: repo, log: log.With().Str("component", "library").Logger()}
}

// File is one import candidate with metadata already extracted by the
// caller; the library only decides whether and how to store it.
type File struct {
	Title    string
	Artist   string
	Album    string
	Folder   string
	Duration time.Duration
	Data     []byte
}

// Report summarizes an import. Failed files do not abort the run; whatever
// imported before and after them stays imported.
type Report struct {
	Added     int
	Skipped   int
	Failed    int
	Playlists []string
}

// Import stores every file that is not already in the library. Duplicate
// detection uses the normalized (title, artist, album) key, both against the
// library and within the batch itself. New tracks are grouped by folder and
// each folder becomes a playlist, appended to if one of that name exists.
func (l *Library) Import(ctx context.Context, files []File) (Report, error) {
	var report Report
	seen := make(map[string]bool)
	byFolder := make(map[string][]string)
	folderOrder := make([]string, 0)

	for _, f := range files {
		track := model.NewTrack(f.Title, f.Artist, f.Album, f.Folder, f.Duration, f.Data)
		if err := track.Validate(); err != nil {
			l.log.Warn().Str("title", f.Title).Err(err).Msg("import: invalid file skipped")
			report.Failed++
			continue
		}

		key := track.ImportKey()
		if seen[key] {
			report.Skipped++
			continue
		}
		seen[key] = true

		_, err := l.repo.FindTrackByImportKey(ctx, key)
		switch {
		case err == nil:
			report.Skipped++
			continue
		case !errors.Is(err, storage.ErrNotFound):
			l.log.Error().Str("title", track.Title).Err(err).Msg("import: duplicate lookup failed")
			report.Failed++
			continue
		}

		if err := l.repo.CreateTrack(ctx, toStorageTrack(track)); err != nil {
			l.log.Error().Str("title", track.Title).Err(err).Msg("import: create track failed")
			report.Failed++
			continue
		}
		report.Added++

		if track.Folder != "" {
			if _, ok := byFolder[track.Folder]; !ok {
				folderOrder = append(folderOrder, track.Folder)
			}
			byFolder[track.Folder] = append(byFolder[track.Folder], track.ID)
		}
	}

	for _, folder := range folderOrder {
		name, err := l.addToNamedPlaylist(ctx, folder, false, byFolder[folder]...)
		if err != nil {
			l.log.Error().Str("folder", folder).Err(err).Msg("import: folder playlist failed")
			continue
		}
		report.Playlists = append(report.Playlists, name)
	}

	l.log.Info().Int("added", report.Added).Int("skipped", report.Skipped).
		Int("failed", report.Failed).Msg("import finished")
	return report, nil
}

// QuickAdd appends a track to the quick-add playlist, creating the playlist
// on first use. Adding a track it already holds is a no-op reported to the
// caller.
func (l *Library) QuickAdd(ctx context.Context, trackID string) (added bool, err error) {
	pl, err := l.repo.GetPlaylistByName(ctx, model.QuickAddPlaylistName)
	if errors.Is(err, storage.ErrNotFound) {
		created := model.NewPlaylist(model.QuickAddPlaylistName)
		created.System = true
		created.TrackIDs = []string{trackID}
		if err := l.repo.CreatePlaylist(ctx, toStoragePlaylist(created)); err != nil {
			return false, fmt.Errorf("create quick-add playlist: %w", err)
		}
		return true, nil
	}
	if err != nil {
		return false, err
	}

	for _, id := range pl.TrackIDs {
		if id == trackID {
			return false, nil
		}
	}
	pl.TrackIDs = append(pl.TrackIDs, trackID)
	if err := l.repo.UpdatePlaylist(ctx, pl); err != nil {
		return false, fmt.Errorf("append to quick-add playlist: %w", err)
	}
	return true, nil
}

// WipeError carries the progress a failed wipe had already made. Deletion is
// at-least-once, not atomic: what was removed stays removed.
type WipeError struct {
	TracksDeleted int
	Err           error
}

func (e *WipeError) Error() string {
	return fmt.Sprintf("library wipe failed after %d tracks: %v", e.TracksDeleted, e.Err)
}

func (e *WipeError) Unwrap() error { return e.Err }

// Wipe deletes every track in chunks, then every non-system playlist. The
// quick-add playlist survives, emptied by the track cascade.
func (l *Library) Wipe(ctx context.Context) (int, error) {
	tracks, err := l.repo.ListTracks(ctx, storage.TrackListFilter{})
	if err != nil {
		return 0, &WipeError{Err: err}
	}
	ids := make([]string, 0, len(tracks))
	for _, tr := range tracks {
		ids = append(ids, tr.ID)
	}

	deleted := 0
	for start := 0; start < len(ids); start += wipeChunkSize {
		end := start + wipeChunkSize
		if end > len(ids) {
			end = len(ids)
		}
		n, err := l.repo.DeleteTracks(ctx, ids[start:end])
		deleted += n
		if err != nil {
			return deleted, &WipeError{TracksDeleted: deleted, Err: err}
		}
	}

	playlists, err := l.repo.ListPlaylists(ctx, storage.PlaylistListFilter{})
	if err != nil {
		return deleted, &WipeError{TracksDeleted: deleted, Err: err}
	}
	for _, pl := range playlists {
		if pl.System {
			continue
		}
		if err := l.repo.DeletePlaylist(ctx, pl.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return deleted, &WipeError{TracksDeleted: deleted, Err: err}
		}
	}

	l.log.Info().Int("tracks", deleted).Msg("library wiped")
	return deleted, nil
}

// Tracks lists all track metadata, title-ordered, without media blobs.
func (l *Library) Tracks(ctx context.Context) ([]storage.Track, error) {
	return l.repo.ListTracks(ctx, storage.TrackListFilter{})
}

func (l *Library) Playlists(ctx context.Context) ([]storage.Playlist, error) {
	return l.repo.ListPlaylists(ctx, storage.PlaylistListFilter{})
}

// Search fuzzy-ranks the query against track titles; best match first. An
// empty query matches nothing.
func (l *Library) Search(ctx context.Context, query string) ([]storage.Track, error) {
	if query == "" {
		return nil, nil
	}
	tracks, err := l.repo.ListTracks(ctx, storage.TrackListFilter{})
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(tracks))
	for _, tr := range tracks {
		titles = append(titles, tr.Title)
	}

	ranks := fuzzy.RankFindNormalizedFold(query, titles)
	sort.Sort(ranks)

	out := make([]storage.Track, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, tracks[r.OriginalIndex])
	}
	return out, nil
}

// Rate persists a track rating.
func (l *Library) Rate(ctx context.Context, trackID string, rating int) error {
	if rating < model.RatingMin || rating > model.RatingMax {
		return fmt.Errorf("%w: %d", model.ErrInvalidRating, rating)
	}
	return l.repo.UpdateTrackRating(ctx, trackID, rating)
}

// addToNamedPlaylist appends track ids to the playlist of the given name,
// creating it when missing, and returns the playlist name.
func (l *Library) addToNamedPlaylist(ctx context.Context, name string, system bool, trackIDs ...string) (string, error) {
	pl, err := l.repo.GetPlaylistByName(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		created := model.NewPlaylist(name)
		created.System = system
		created.TrackIDs = trackIDs
		return name, l.repo.CreatePlaylist(ctx, toStoragePlaylist(created))
	}
	if err != nil {
		return name, err
	}

	existing := make(map[string]bool, len(pl.TrackIDs))
	for _, id := range pl.TrackIDs {
		existing[id] = true
	}
	for _, id := range trackIDs {
		if !existing[id] {
			pl.TrackIDs = append(pl.TrackIDs, id)
		}
	}
	return name, l.repo.UpdatePlaylist(ctx, pl)
}

func toStorageTrack(t model.Track) storage.Track {
	return storage.Track{
		ID:          t.ID,
		Title:       t.Title,
		Artist:      t.Artist,
		Album:       t.Album,
		Folder:      t.Folder,
		DurationSec: int(t.Duration / time.Second),
		Rating:      t.Rating,
		ImportKey:   t.ImportKey(),
		Data:        t.Data,
		AddedAt:     t.AddedAt,
	}
}

func toStoragePlaylist(p model.Playlist) storage.Playlist {
	return storage.Playlist{
		ID:        p.ID,
		Name:      p.Name,
		System:    p.System,
		TrackIDs:  p.TrackIDs,
		CreatedAt: p.CreatedAt,
	}
}
