package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/hveldt/retropod/internal/bounce"
	"github.com/hveldt/retropod/internal/config"
	"github.com/hveldt/retropod/internal/focus"
	"github.com/hveldt/retropod/internal/library"
	"github.com/hveldt/retropod/internal/logging"
	"github.com/hveldt/retropod/internal/model"
	"github.com/hveldt/retropod/internal/player"
	"github.com/hveldt/retropod/internal/remote"
	"github.com/hveldt/retropod/internal/storage"
	"github.com/hveldt/retropod/internal/update"
)

var (
	dataDir  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:          "retropod",
	Short:        "A click-wheel media player for the terminal",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDevice()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", config.DefaultDir(),
		"directory for the library database, preferences and log")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level: debug, info, warn or error")
	rootCmd.AddCommand(importCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runDevice() error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	// The screen belongs to the device; logs go to a file. A failed open
	// just means a silent run.
	log, closeLog, err := logging.New(filepath.Join(dataDir, "retropod.log"), logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging disabled: %v\n", err)
	}
	defer closeLog()

	prefs, err := config.Load(dataDir)
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}

	repo, err := storage.OpenSQLite(filepath.Join(dataDir, "library.db"))
	if err != nil {
		return fmt.Errorf("open library: %w", err)
	}
	defer repo.Close()
	if err := storage.MigrateUp(repo.DB()); err != nil {
		return fmt.Errorf("migrate library: %w", err)
	}

	engine := player.NewSimEngine(player.DefaultSimConfig(), log)
	engine.Start()
	defer engine.Stop()

	m := update.NewModel(update.Config{
		Repo:      repo,
		Library:   library.New(repo, log),
		Transport: player.NewTransport(engine, log, nil),
		EngineC:   engine.C(),
		Game:      bounce.NewEngine(config.ScoreStore{Prefs: prefs}, log, nil),
		Timer:     focus.NewTimer(model.DefaultFocusSettings()),
		Prefs:     prefs,
		Session:   remote.NoopSession{},
		Log:       log,
	})

	log.Info().Str("data_dir", dataDir).Msg("device starting")
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run device: %w", err)
	}
	return nil
}
