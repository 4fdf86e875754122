package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWritesDefaultsOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := loadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Lang != "deu+eng" || cfg.Suffix != "_ocr" || cfg.LogPath != "ocr_log.csv" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Jobs < 1 {
		t.Fatalf("default jobs must be >= 1, got %d", cfg.Jobs)
	}

	// Defaults are persisted so the next load sees a file.
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file was not written: %v", err)
	}
}

func TestLoadRoundTripsSavedValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := loadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Lang = "eng"
	cfg.Jobs = 7
	if err := saveTo(path, cfg); err != nil {
		t.Fatal(err)
	}

	again, err := loadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if again.Lang != "eng" || again.Jobs != 7 {
		t.Fatalf("saved values did not round-trip: %+v", again)
	}
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadFrom(path); err == nil {
		t.Fatal("expected an error for corrupt config")
	}
}
