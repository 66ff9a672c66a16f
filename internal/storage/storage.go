// Package storage persists CLI preferences and the history of perft
// runs in a BadgerDB database.
package storage

import (
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyRunHistory  = "run_history"
)

// maxRunHistory caps the number of retained run records.
const maxRunHistory = 100

// Preferences stores the user-tunable defaults of the interactive CLI.
type Preferences struct {
	StartFEN      string    `json:"start_fen"`
	PerftDepth    int       `json:"perft_depth"`
	EnginePath    string    `json:"engine_path"`
	UnicodePieces bool      `json:"unicode_pieces"`
	LastUsed      time.Time `json:"last_used"`
}

// DefaultPreferences returns the defaults used before any are saved.
func DefaultPreferences() *Preferences {
	return &Preferences{
		StartFEN:      "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		PerftDepth:    4,
		EnginePath:    "stockfish",
		UnicodePieces: true,
	}
}

// RunRecord describes one completed perft run.
type RunRecord struct {
	FEN      string        `json:"fen"`
	Depth    int           `json:"depth"`
	Nodes    int64         `json:"nodes"`
	Filtered int64         `json:"filtered"`
	Duration time.Duration `json:"duration"`
	When     time.Time     `json:"when"`
}

// Storage wraps BadgerDB for persistent storage.
type Storage struct {
	db *badger.DB
}

// Open opens (or creates) the database in the given directory.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Badger's own logging is noise in a TUI

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Storage{db: db}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SavePreferences saves the preferences, stamping the usage time.
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastUsed = time.Now()

	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPreferences), data)
	})
}

// LoadPreferences loads the saved preferences, or the defaults if none
// were saved yet.
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPreferences))
		if err == badger.ErrKeyNotFound {
			return nil // Use defaults
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, prefs)
		})
	})

	return prefs, err
}

// RecordRun appends a run record to the history, trimming the oldest
// entries beyond the cap.
func (s *Storage) RecordRun(rec RunRecord) error {
	history, err := s.Runs()
	if err != nil {
		return err
	}

	history = append(history, rec)
	if len(history) > maxRunHistory {
		history = history[len(history)-maxRunHistory:]
	}

	data, err := json.Marshal(history)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyRunHistory), data)
	})
}

// Runs returns the recorded run history, oldest first.
func (s *Storage) Runs() ([]RunRecord, error) {
	var history []RunRecord

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyRunHistory))
		if err == badger.ErrKeyNotFound {
			return nil // No runs yet
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &history)
		})
	})

	return history, err
}
