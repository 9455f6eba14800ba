// Package config holds the device preferences: the small mutable settings
// that belong to the device rather than the library, persisted as a yaml
// file under the user config dir.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	ThemeClassic = "classic"
	ThemeNoir    = "noir"
)

// Prefs is the loaded preferences record. Mutate fields, then Save; the file
// is rewritten wholesale.
type Prefs struct {
	Theme     string
	Volume    float64
	Shuffle   bool
	Repeat    string
	HighScore int

	dir string
}

// Load reads prefs from dir/config.yaml, falling back to defaults for
// anything unset. Environment variables prefixed RETROPOD_ override the
// file.
func Load(dir string) (*Prefs, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetDefault("theme", ThemeClassic)
	v.SetDefault("volume", 0.8)
	v.SetDefault("shuffle", false)
	v.SetDefault("repeat", "Off")
	v.SetDefault("high_score", 0)

	// A missing file is fine: first run.
	_ = v.ReadInConfig()

	v.SetEnvPrefix("RETROPOD")
	v.AutomaticEnv()

	return &Prefs{
		Theme:     v.GetString("theme"),
		Volume:    clampVolume(v.GetFloat64("volume")),
		Shuffle:   v.GetBool("shuffle"),
		Repeat:    v.GetString("repeat"),
		HighScore: v.GetInt("high_score"),
		dir:       dir,
	}, nil
}

func (p *Prefs) Save() error {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return err
	}
	v := viper.New()
	v.Set("theme", p.Theme)
	v.Set("volume", p.Volume)
	v.Set("shuffle", p.Shuffle)
	v.Set("repeat", p.Repeat)
	v.Set("high_score", p.HighScore)
	return v.WriteConfigAs(filepath.Join(p.dir, "config.yaml"))
}

// ScoreStore adapts Prefs to the game's persistence interface. Writes go
// straight to disk so a high score survives however the session ends.
type ScoreStore struct {
	Prefs *Prefs
}

func (s ScoreStore) HighScore() int {
	return s.Prefs.HighScore
}

func (s ScoreStore) SetHighScore(score int) error {
	if score <= s.Prefs.HighScore {
		return nil
	}
	s.Prefs.HighScore = score
	return s.Prefs.Save()
}

// DefaultDir is the per-user data directory for the device: config, library
// database and log file all live here.
func DefaultDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(base, "retropod")
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
