// Package archive keeps generated levels in a local SQLite file so they can
// be reloaded without a server.
package archive

import (
	"bytes"
	"database/sql"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/vancomm/crystal-levels/internal/level"
)

// Archive is a key/value table with gob encoded values.
type Archive struct {
	mu   sync.Mutex
	name string
	db   *sql.DB
}

var (
	ErrBadName  = fmt.Errorf("bad name for archive table")
	ErrNotFound = fmt.Errorf("value not found")
)

const DefaultTable = "levels"

func isLetters(s string) bool {
	for _, c := range s {
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
			return false
		}
	}
	return s != ""
}

// Open opens or creates the SQLite file at path with the default table.
func Open(path string) (*Archive, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create archive directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	a, err := New(db, DefaultTable)
	if err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

// New creates the table if needed. name may only contain upper- or lowercase
// Latin letters since it is spliced into the SQL.
func New(db *sql.DB, name string) (*Archive, error) {
	if !isLetters(name) {
		return nil, ErrBadName
	}

	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS ` + name + ` (
	key		TEXT PRIMARY KEY,
	value	BLOB
);`)
	if err != nil {
		return nil, err
	}
	return &Archive{name: name, db: db}, nil
}

func (a *Archive) Close() error {
	return a.db.Close()
}

// Get reads key into value, which must be a pointer or nil. A nil value
// only checks that key exists.
func (a *Archive) Get(key string, value any) error {
	var v []byte
	err := a.db.QueryRow(`SELECT value FROM `+a.name+` WHERE key = ?;`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if value == nil {
		return nil
	}
	return gob.NewDecoder(bytes.NewReader(v)).Decode(value)
}

// Set inserts key or replaces its value.
func (a *Archive) Set(key string, value any) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(value); err != nil {
		return err
	}
	_, err := a.db.Exec(`
INSERT INTO `+a.name+` (key, value)
VALUES (?, ?)
ON CONFLICT(key)
DO UPDATE SET value = excluded.value;`,
		key, buf.Bytes())
	return err
}

// Delete does not check that key existed.
func (a *Archive) Delete(key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	_, err := a.db.Exec(`DELETE FROM `+a.name+` WHERE key = ?;`, key)
	return err
}

func (a *Archive) Count() (count int, err error) {
	err = a.db.QueryRow(`SELECT COUNT(*) FROM ` + a.name + `;`).Scan(&count)
	return count, err
}

func (a *Archive) Keys() ([]string, error) {
	rows, err := a.db.Query(`SELECT key FROM ` + a.name + ` ORDER BY key;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// LevelKey names a level by the inputs that rebuild it, e.g. "22x16/42".
func LevelKey(params level.Params, seed uint64) string {
	return fmt.Sprintf("%s/%d", params, seed)
}

func (a *Archive) PutLevel(lvl *level.Level) (string, error) {
	state, err := lvl.Bytes()
	if err != nil {
		return "", err
	}
	key := LevelKey(lvl.Params(), lvl.Seed)
	return key, a.Set(key, state)
}

func (a *Archive) Level(key string) (*level.Level, error) {
	var state []byte
	if err := a.Get(key, &state); err != nil {
		return nil, err
	}
	return level.DecodeLevel(state)
}
