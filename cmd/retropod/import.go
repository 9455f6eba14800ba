package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hveldt/retropod/internal/library"
	"github.com/hveldt/retropod/internal/logging"
	"github.com/hveldt/retropod/internal/storage"
)

// audioExtensions are the file types the importer picks up while walking.
var audioExtensions = map[string]bool{
	".mp3":  true,
	".m4a":  true,
	".flac": true,
	".ogg":  true,
	".wav":  true,
}

var importCmd = &cobra.Command{
	Use:   "import <path>...",
	Short: "Import audio files into the library",
	Long: `Import walks the given files and directories and adds every audio file
to the library. Filenames of the form "Artist - Title.ext" provide the
metadata; each containing directory becomes a playlist of its tracks.
Files already in the library are skipped.`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(args)
	},
}

func runImport(paths []string) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	log, closeLog, err := logging.New(filepath.Join(dataDir, "retropod.log"), logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging disabled: %v\n", err)
	}
	defer closeLog()

	repo, err := storage.OpenSQLite(filepath.Join(dataDir, "library.db"))
	if err != nil {
		return fmt.Errorf("open library: %w", err)
	}
	defer repo.Close()
	if err := storage.MigrateUp(repo.DB()); err != nil {
		return fmt.Errorf("migrate library: %w", err)
	}

	files, err := collectFiles(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("no audio files found")
		return nil
	}

	report, err := library.New(repo, log).Import(context.Background(), files)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	fmt.Printf("imported %d, skipped %d duplicates, %d failed\n",
		report.Added, report.Skipped, report.Failed)
	for _, name := range report.Playlists {
		fmt.Printf("playlist: %s\n", name)
	}
	return nil
}

func collectFiles(paths []string) ([]library.File, error) {
	var out []library.File
	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !audioExtensions[strings.ToLower(filepath.Ext(path))] {
				return nil
			}
			f, readErr := readAudioFile(path)
			if readErr != nil {
				fmt.Fprintf(os.Stderr, "skipping %s: %v\n", path, readErr)
				return nil
			}
			out = append(out, f)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}
	return out, nil
}

// readAudioFile builds an import candidate from one path. Title and artist
// come from an "Artist - Title" filename; the containing directory doubles
// as the album and the folder playlist.
func readAudioFile(path string) (library.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return library.File{}, err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	artist, title := "", name
	if before, after, found := strings.Cut(name, " - "); found {
		artist = strings.TrimSpace(before)
		title = strings.TrimSpace(after)
	}
	folder := filepath.Base(filepath.Dir(path))
	if folder == "." || folder == string(filepath.Separator) {
		folder = ""
	}

	return library.File{
		Title:  title,
		Artist: artist,
		Album:  folder,
		Folder: folder,
		Data:   data,
	}, nil
}
