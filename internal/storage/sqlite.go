package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/ansuz/internal/apperr"
)

const snapshotSchemaSQL = `
CREATE TABLE IF NOT EXISTS snapshots (
	key        TEXT PRIMARY KEY,
	data       BLOB NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// snapshotKey is the single slot the chat collection lives in. The table is
// keyed anyway so the schema does not need to change for future slots.
const snapshotKey = "chat_history"

// SQLiteSlot implements Slot backed by a one-row SQLite table.
type SQLiteSlot struct {
	conn *sql.DB
}

// OpenSQLite opens (or creates) the SQLite database and applies the schema.
func OpenSQLite(dsn string) (*SQLiteSlot, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("storage: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("storage: ping: %w", err)
	}
	if _, err := conn.Exec(snapshotSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("storage: apply schema: %w", err)
	}
	return &SQLiteSlot{conn: conn}, nil
}

// Load reads the snapshot row.
func (s *SQLiteSlot) Load() ([]byte, error) {
	var data []byte
	err := s.conn.QueryRow(`SELECT data FROM snapshots WHERE key = ?`, snapshotKey).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: load snapshot: %w", err)
	}
	return data, nil
}

// Save upserts the snapshot row.
func (s *SQLiteSlot) Save(data []byte) error {
	_, err := s.conn.Exec(`
		INSERT INTO snapshots (key, data, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			data       = excluded.data,
			updated_at = excluded.updated_at
	`, snapshotKey, data, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("storage: save snapshot: %w", err)
	}
	return nil
}

// Clear deletes the snapshot row.
func (s *SQLiteSlot) Clear() error {
	if _, err := s.conn.Exec(`DELETE FROM snapshots WHERE key = ?`, snapshotKey); err != nil {
		return fmt.Errorf("storage: clear snapshot: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteSlot) Close() error {
	return s.conn.Close()
}

// Verify both implementations satisfy Slot at compile time.
var (
	_ Slot = (*FileSlot)(nil)
	_ Slot = (*SQLiteSlot)(nil)
)
