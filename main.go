// ChessBot - interactive chess board, legal move generator, and perft
// debugger for the terminal.
package main

import (
	"log"

	"github.com/Robotino04/ChessBot/internal/storage"
	"github.com/Robotino04/ChessBot/internal/ui"
)

func main() {
	var store *storage.Storage
	prefs := storage.DefaultPreferences()

	dbDir, err := storage.DatabaseDir()
	if err == nil {
		store, err = storage.Open(dbDir)
	}
	if err != nil {
		// The session still works without persistence.
		log.Printf("preferences database unavailable: %v", err)
	} else {
		defer store.Close()
		if loaded, err := store.LoadPreferences(); err == nil {
			prefs = loaded
		} else {
			log.Printf("loading preferences: %v", err)
		}
	}

	if err := ui.Run(store, prefs); err != nil {
		log.Fatal(err)
	}
}
