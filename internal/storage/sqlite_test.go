package storage

import (
	"errors"
	"os"
	"testing"

	"github.com/starford/ansuz/internal/apperr"
)

func testSQLiteSlot(t *testing.T) *SQLiteSlot {
	t.Helper()
	dbFile, err := os.CreateTemp("", "ansuz-storage-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	slot, err := OpenSQLite(dbFile.Name())
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { slot.Close() })
	return slot
}

func TestSQLiteSlot_RoundTrip(t *testing.T) {
	slot := testSQLiteSlot(t)

	if err := slot.Save([]byte(`{"v":1}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := slot.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != `{"v":1}` {
		t.Errorf("Load = %s", got)
	}

	if err := slot.Save([]byte(`{"v":2}`)); err != nil {
		t.Fatalf("Save upsert: %v", err)
	}
	got, _ = slot.Load()
	if string(got) != `{"v":2}` {
		t.Errorf("Load after upsert = %s", got)
	}
}

func TestSQLiteSlot_LoadMissing(t *testing.T) {
	slot := testSQLiteSlot(t)
	if _, err := slot.Load(); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Load missing = %v, want ErrNotFound", err)
	}
}

func TestSQLiteSlot_Clear(t *testing.T) {
	slot := testSQLiteSlot(t)
	if err := slot.Save([]byte("data")); err != nil {
		t.Fatal(err)
	}
	if err := slot.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := slot.Load(); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Load after clear = %v, want ErrNotFound", err)
	}
	if err := slot.Clear(); err != nil {
		t.Errorf("Clear empty = %v, want nil", err)
	}
}
