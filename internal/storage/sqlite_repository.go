package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

func (r *SQLiteRepository) CreateTrack(ctx context.Context, in Track) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tracks (id, title, artist, album, folder, duration_sec, rating, import_key, data, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Title, in.Artist, in.Album, in.Folder, in.DurationSec, in.Rating,
		in.ImportKey, in.Data, mustTime(in.AddedAt),
	)
	return err
}

const trackMetaColumns = `id, title, artist, album, folder, duration_sec, rating, import_key, (data IS NOT NULL AND length(data) > 0), added_at`

func (r *SQLiteRepository) GetTrack(ctx context.Context, id string) (Track, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+trackMetaColumns+`, data
		FROM tracks WHERE id = ?`, id)
	track, err := scanTrackWithData(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Track{}, ErrNotFound
		}
		return Track{}, err
	}
	return track, nil
}

func (r *SQLiteRepository) FindTrackByImportKey(ctx context.Context, key string) (Track, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+trackMetaColumns+`
		FROM tracks WHERE import_key = ?`, key)
	track, err := scanTrack(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Track{}, ErrNotFound
		}
		return Track{}, err
	}
	return track, nil
}

func (r *SQLiteRepository) ListTracks(ctx context.Context, filter TrackListFilter) ([]Track, error) {
	query := `SELECT ` + trackMetaColumns + ` FROM tracks`
	clauses := make([]string, 0, 3)
	args := make([]any, 0, 5)
	if filter.Artist != "" {
		clauses = append(clauses, "artist = ?")
		args = append(args, filter.Artist)
	}
	if filter.Album != "" {
		clauses = append(clauses, "album = ?")
		args = append(args, filter.Album)
	}
	if filter.Folder != "" {
		clauses = append(clauses, "folder = ?")
		args = append(args, filter.Folder)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY title COLLATE NOCASE ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Track, 0)
	for rows.Next() {
		track, scanErr := scanTrack(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, track)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateTrackRating(ctx context.Context, id string, rating int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tracks SET rating = ? WHERE id = ?`, rating, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

// DeleteTracks removes every listed track in one statement and returns how
// many rows went away. Playlist membership rows follow via cascade.
func (r *SQLiteRepository) DeleteTracks(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM tracks WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

func (r *SQLiteRepository) CreatePlaylist(ctx context.Context, in Playlist) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO playlists (id, name, is_system, created_at)
		VALUES (?, ?, ?, ?)`,
		in.ID, in.Name, boolInt(in.System), mustTime(in.CreatedAt),
	); err != nil {
		return err
	}
	if err := insertPlaylistTracks(ctx, tx, in.ID, in.TrackIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLiteRepository) GetPlaylist(ctx context.Context, id string) (Playlist, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, is_system, created_at FROM playlists WHERE id = ?`, id)
	return r.finishPlaylist(ctx, row)
}

func (r *SQLiteRepository) GetPlaylistByName(ctx context.Context, name string) (Playlist, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, is_system, created_at FROM playlists WHERE name = ?`, name)
	return r.finishPlaylist(ctx, row)
}

func (r *SQLiteRepository) finishPlaylist(ctx context.Context, row *sql.Row) (Playlist, error) {
	pl, err := scanPlaylist(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Playlist{}, ErrNotFound
		}
		return Playlist{}, err
	}
	trackIDs, err := r.playlistTrackIDs(ctx, pl.ID)
	if err != nil {
		return Playlist{}, err
	}
	pl.TrackIDs = trackIDs
	return pl, nil
}

func (r *SQLiteRepository) ListPlaylists(ctx context.Context, filter PlaylistListFilter) ([]Playlist, error) {
	args := make([]any, 0, 2)
	query := `SELECT id, name, is_system, created_at FROM playlists ORDER BY created_at ASC` +
		applyPagination(&args, filter.Limit, filter.Offset)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Playlist, 0)
	for rows.Next() {
		pl, scanErr := scanPlaylist(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, pl)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		trackIDs, idsErr := r.playlistTrackIDs(ctx, out[i].ID)
		if idsErr != nil {
			return nil, idsErr
		}
		out[i].TrackIDs = trackIDs
	}
	return out, nil
}

// UpdatePlaylist rewrites the playlist row and its full membership in one
// transaction.
func (r *SQLiteRepository) UpdatePlaylist(ctx context.Context, in Playlist) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE playlists SET name = ?, is_system = ? WHERE id = ?`,
		in.Name, boolInt(in.System), in.ID,
	)
	if err != nil {
		return err
	}
	if err := checkRowsAffected(res); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM playlist_tracks WHERE playlist_id = ?`, in.ID); err != nil {
		return err
	}
	if err := insertPlaylistTracks(ctx, tx, in.ID, in.TrackIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLiteRepository) DeletePlaylist(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM playlists WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) playlistTrackIDs(ctx context.Context, playlistID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT track_id FROM playlist_tracks WHERE playlist_id = ? ORDER BY position ASC`, playlistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func insertPlaylistTracks(ctx context.Context, tx *sql.Tx, playlistID string, trackIDs []string) error {
	for i, trackID := range trackIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO playlist_tracks (playlist_id, track_id, position)
			VALUES (?, ?, ?)`,
			playlistID, trackID, i,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepository) GetFocusSettings(ctx context.Context) (FocusSettings, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT work_minutes, short_break_minutes, long_break_minutes, long_break_interval, auto_continue
		FROM focus_settings WHERE id = 1`)
	var out FocusSettings
	var autoContinue int
	err := row.Scan(&out.WorkMinutes, &out.ShortBreakMinutes, &out.LongBreakMinutes, &out.LongBreakInterval, &autoContinue)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return FocusSettings{}, ErrNotFound
		}
		return FocusSettings{}, err
	}
	out.AutoContinue = autoContinue == 1
	return out, nil
}

func (r *SQLiteRepository) SaveFocusSettings(ctx context.Context, in FocusSettings) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO focus_settings (id, work_minutes, short_break_minutes, long_break_minutes, long_break_interval, auto_continue)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			work_minutes = excluded.work_minutes,
			short_break_minutes = excluded.short_break_minutes,
			long_break_minutes = excluded.long_break_minutes,
			long_break_interval = excluded.long_break_interval,
			auto_continue = excluded.auto_continue`,
		in.WorkMinutes, in.ShortBreakMinutes, in.LongBreakMinutes, in.LongBreakInterval, boolInt(in.AutoContinue),
	)
	return err
}

func (r *SQLiteRepository) AppendFocusSession(ctx context.Context, in FocusSession) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO focus_sessions (id, type, started_at, duration_sec)
		VALUES (?, ?, ?, ?)`,
		in.ID, in.Type, mustTime(in.StartedAt), in.DurationSec,
	)
	return err
}

func (r *SQLiteRepository) ListFocusSessions(ctx context.Context, filter FocusSessionListFilter) ([]FocusSession, error) {
	query := `SELECT id, type, started_at, duration_sec FROM focus_sessions`
	args := make([]any, 0, 3)
	if filter.Type != "" {
		query += ` WHERE type = ?`
		args = append(args, filter.Type)
	}
	query += ` ORDER BY started_at DESC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]FocusSession, 0)
	for rows.Next() {
		session, scanErr := scanFocusSession(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, session)
	}
	return out, rows.Err()
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrack(s scanner) (Track, error) {
	var out Track
	var hasData int
	var added string
	if err := s.Scan(&out.ID, &out.Title, &out.Artist, &out.Album, &out.Folder,
		&out.DurationSec, &out.Rating, &out.ImportKey, &hasData, &added); err != nil {
		return Track{}, err
	}
	addedAt, err := parseRequiredTime(added)
	if err != nil {
		return Track{}, err
	}
	out.HasData = hasData == 1
	out.AddedAt = addedAt
	return out, nil
}

func scanTrackWithData(s scanner) (Track, error) {
	var out Track
	var hasData int
	var added string
	if err := s.Scan(&out.ID, &out.Title, &out.Artist, &out.Album, &out.Folder,
		&out.DurationSec, &out.Rating, &out.ImportKey, &hasData, &added, &out.Data); err != nil {
		return Track{}, err
	}
	addedAt, err := parseRequiredTime(added)
	if err != nil {
		return Track{}, err
	}
	out.HasData = hasData == 1
	out.AddedAt = addedAt
	return out, nil
}

func scanPlaylist(s scanner) (Playlist, error) {
	var out Playlist
	var system int
	var created string
	if err := s.Scan(&out.ID, &out.Name, &system, &created); err != nil {
		return Playlist{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Playlist{}, err
	}
	out.System = system == 1
	out.CreatedAt = createdAt
	return out, nil
}

func scanFocusSession(s scanner) (FocusSession, error) {
	var out FocusSession
	var started string
	if err := s.Scan(&out.ID, &out.Type, &started, &out.DurationSec); err != nil {
		return FocusSession{}, err
	}
	startedAt, err := parseRequiredTime(started)
	if err != nil {
		return FocusSession{}, err
	}
	out.StartedAt = startedAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
