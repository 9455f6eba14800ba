package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	p, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Theme != ThemeClassic {
		t.Fatalf("expected default theme %q, got %q", ThemeClassic, p.Theme)
	}
	if p.Volume != 0.8 {
		t.Fatalf("expected default volume 0.8, got %v", p.Volume)
	}
	if p.Shuffle || p.Repeat != "Off" || p.HighScore != 0 {
		t.Fatalf("unexpected defaults: %+v", p)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	p, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p.Theme = ThemeNoir
	p.Volume = 0.5
	p.Shuffle = true
	p.Repeat = "All"
	p.HighScore = 42
	if err := p.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Theme != ThemeNoir || got.Volume != 0.5 || !got.Shuffle || got.Repeat != "All" || got.HighScore != 42 {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	p, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p.Theme = ThemeClassic
	if err := p.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	t.Setenv("RETROPOD_THEME", ThemeNoir)
	got, err := Load(dir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Theme != ThemeNoir {
		t.Fatalf("expected env override, got %q", got.Theme)
	}
}

func TestScoreStoreIsMonotonic(t *testing.T) {
	p, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	store := ScoreStore{Prefs: p}

	if err := store.SetHighScore(10); err != nil {
		t.Fatalf("set high score: %v", err)
	}
	if store.HighScore() != 10 {
		t.Fatalf("expected 10, got %d", store.HighScore())
	}

	if err := store.SetHighScore(5); err != nil {
		t.Fatalf("lower score write: %v", err)
	}
	if store.HighScore() != 10 {
		t.Fatalf("high score must never decrease, got %d", store.HighScore())
	}
}

func TestVolumeClampedOnLoad(t *testing.T) {
	t.Setenv("RETROPOD_VOLUME", "3.5")
	p, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Volume != 1 {
		t.Fatalf("expected clamped volume 1, got %v", p.Volume)
	}
}
