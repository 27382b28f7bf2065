package persistence

import (
	"database/sql"
	"fmt"

	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite"
)

// saveKey is the single slot this store manages. One database holds one
// game's save.
const saveKey = "player"

const schema = `
CREATE TABLE IF NOT EXISTS saves (
	key        TEXT PRIMARY KEY,
	payload    BLOB NOT NULL,
	updated_at INTEGER NOT NULL
) STRICT;
`

var pragmas = []string{
	"PRAGMA journal_mode=WAL;",
	"PRAGMA synchronous=NORMAL;",
	"PRAGMA busy_timeout=5000;",
}

// Shared stateless codec instances. EncodeAll/DecodeAll are safe for
// concurrent use.
var (
	zstdEnc, _ = zstd.NewWriter(nil)
	zstdDec, _ = zstd.NewReader(nil)
)

// SQLiteStore is the primary snapshot tier. Payloads are zstd-compressed
// before they hit the database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the save database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening save db: %w", err)
	}
	// A single connection sidesteps SQLITE_BUSY between writer goroutines.
	db.SetMaxOpenConns(1)
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying pragma %q: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating save schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get() ([]byte, error) {
	var payload []byte
	err := s.db.QueryRow(`SELECT payload FROM saves WHERE key = ?`, saveKey).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading save: %w", err)
	}
	data, err := zstdDec.DecodeAll(payload, nil)
	if err != nil {
		return nil, fmt.Errorf("decompressing save: %w", err)
	}
	return data, nil
}

func (s *SQLiteStore) Put(data []byte) error {
	payload := zstdEnc.EncodeAll(data, nil)
	_, err := s.db.Exec(`
		INSERT INTO saves (key, payload, updated_at) VALUES (?, ?, CAST(unixepoch('now', 'subsec') * 1000 AS INTEGER))
		ON CONFLICT (key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		saveKey, payload)
	if err != nil {
		return fmt.Errorf("writing save: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete() error {
	if _, err := s.db.Exec(`DELETE FROM saves WHERE key = ?`, saveKey); err != nil {
		return fmt.Errorf("deleting save: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
