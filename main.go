package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/amertu/ocr-converter/cmd"
	"github.com/amertu/ocr-converter/internal/config"
	"github.com/amertu/ocr-converter/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// The run history lives in the data dir; losing it never blocks an
	// OCR run.
	var store *storage.Store
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Print("Failed to create data directory, run history disabled:", err)
	} else {
		dbPath := filepath.Join(cfg.DataDir, "history.db")
		store, err = storage.NewStore(dbPath)
		if err != nil {
			log.Print("Failed to open run history store, run history disabled:", err)
			store = nil
		}
	}

	os.Exit(cmd.Execute(store, cfg))
}
