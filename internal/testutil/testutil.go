// Package testutil provides shared test helpers for snapshot slots.
package testutil

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/storage"
)

// MemSlot is an in-memory storage.Slot for tests. SaveErr, when set, makes
// every Save fail to exercise degraded-persistence paths.
type MemSlot struct {
	mu      sync.Mutex
	data    []byte
	present bool

	SaveErr error
}

// Load returns the stored snapshot.
func (m *MemSlot) Load() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.present {
		return nil, apperr.ErrNotFound
	}
	cp := make([]byte, len(m.data))
	copy(cp, m.data)
	return cp, nil
}

// Save stores a copy of data.
func (m *MemSlot) Save(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.data = append([]byte(nil), data...)
	m.present = true
	return nil
}

// Clear empties the slot.
func (m *MemSlot) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	m.present = false
	return nil
}

// Put seeds the slot directly, bypassing SaveErr.
func (m *MemSlot) Put(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	m.present = true
}

var _ storage.Slot = (*MemSlot)(nil)

// TestFileSlot creates a file-backed slot in a temp directory.
func TestFileSlot(t *testing.T) *storage.FileSlot {
	t.Helper()
	slot, err := storage.NewFileSlot(filepath.Join(t.TempDir(), "history.json"))
	if err != nil {
		t.Fatal(err)
	}
	return slot
}

// TestSQLiteSlot creates a temporary SQLite-backed slot that is
// automatically cleaned up.
func TestSQLiteSlot(t *testing.T) *storage.SQLiteSlot {
	t.Helper()
	dbFile, err := os.CreateTemp("", "ansuz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	slot, err := storage.OpenSQLite(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { slot.Close() })
	return slot
}
