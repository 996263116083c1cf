// Package sqlitestore keeps key/value documents in a single SQLite table.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/idilsaglam/techtrack/internal/store"
)

// FileName is the database file created inside the data directory.
const FileName = "techtrack.sqlite"

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

const schema = `CREATE TABLE IF NOT EXISTS kv (
	k TEXT PRIMARY KEY,
	v BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`

// Store is a Backend over a SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Path is the database file.
func (s *Store) Path() string { return s.path }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Get(key string) ([]byte, error) {
	var v []byte
	err := s.db.QueryRowContext(context.Background(), `SELECT v FROM kv WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return v, nil
}

func (s *Store) Set(key string, data []byte) error {
	_, err := s.db.ExecContext(context.Background(),
		`INSERT INTO kv(k, v, updated_at) VALUES(?, ?, ?)
		 ON CONFLICT(k) DO UPDATE SET v = excluded.v, updated_at = excluded.updated_at`,
		key, data, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (s *Store) Remove(key string) error {
	res, err := s.db.ExecContext(context.Background(), `DELETE FROM kv WHERE k = ?`, key)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}
