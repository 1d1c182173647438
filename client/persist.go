package client

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

// persistStore is the durable copy of the response cache, surviving
// restarts so the app can render immediately while offline.
type persistStore struct {
	db *sql.DB
}

const persistSchema = `
CREATE TABLE IF NOT EXISTS cache_entries (
	key        TEXT PRIMARY KEY,
	payload    BLOB NOT NULL,
	fetched_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS meta (
	k TEXT PRIMARY KEY,
	v TEXT NOT NULL
);
`

// openPersist opens or creates the cache database. When the stored
// buster token differs from the given one, every persisted entry is
// discarded: the server's data shapes changed.
func openPersist(dbPath, buster string) (*persistStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(persistSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	store := &persistStore{db: db}
	if err := store.checkBuster(buster); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *persistStore) checkBuster(buster string) error {
	var stored string
	err := s.db.QueryRow(`SELECT v FROM meta WHERE k = 'buster'`).Scan(&stored)
	if err != nil && err != sql.ErrNoRows {
		return err
	}
	if stored == buster {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM cache_entries`); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta (k, v) VALUES ('buster', ?)`, buster); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *persistStore) close() error {
	return s.db.Close()
}

// loadAll hydrates the in-memory cache on startup.
func (s *persistStore) loadAll() (map[string]cacheEntry, error) {
	rows, err := s.db.Query(`SELECT key, payload, fetched_at FROM cache_entries`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	entries := make(map[string]cacheEntry)
	for rows.Next() {
		var key, fetchedAt string
		var payload []byte
		if err := rows.Scan(&key, &payload, &fetchedAt); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339Nano, fetchedAt)
		if err != nil {
			continue
		}
		entries[key] = cacheEntry{payload: payload, fetchedAt: t}
	}
	return entries, rows.Err()
}

func (s *persistStore) save(key string, payload []byte, fetchedAt time.Time) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO cache_entries (key, payload, fetched_at) VALUES (?, ?, ?)`,
		key, payload, fetchedAt.UTC().Format(time.RFC3339Nano))
	return err
}

func (s *persistStore) delete(keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, key := range keys {
		if _, err := tx.Exec(`DELETE FROM cache_entries WHERE key = ?`, key); err != nil {
			return err
		}
	}
	return tx.Commit()
}
