package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/ansuz/internal/apperr"
)

func TestFileSlot_RoundTrip(t *testing.T) {
	slot, err := NewFileSlot(filepath.Join(t.TempDir(), "nested", "history.json"))
	if err != nil {
		t.Fatalf("NewFileSlot: %v", err)
	}

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

	// Overwrite replaces the previous snapshot entirely.
	if err := slot.Save([]byte(`{"v":2}`)); err != nil {
		t.Fatalf("Save overwrite: %v", err)
	}
	got, _ = slot.Load()
	if string(got) != `{"v":2}` {
		t.Errorf("Load after overwrite = %s", got)
	}
}

func TestFileSlot_LoadMissing(t *testing.T) {
	slot, err := NewFileSlot(filepath.Join(t.TempDir(), "history.json"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := slot.Load(); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Load missing = %v, want ErrNotFound", err)
	}
}

func TestFileSlot_Clear(t *testing.T) {
	slot, err := NewFileSlot(filepath.Join(t.TempDir(), "history.json"))
	if err != nil {
		t.Fatal(err)
	}
	if err := slot.Save([]byte("data")); err != nil {
		t.Fatal(err)
	}
	if err := slot.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := slot.Load(); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Load after clear = %v, want ErrNotFound", err)
	}
	// Clearing an empty slot is a no-op.
	if err := slot.Clear(); err != nil {
		t.Errorf("Clear empty = %v, want nil", err)
	}
}

func TestFileSlot_NoTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	slot, err := NewFileSlot(filepath.Join(dir, "history.json"))
	if err != nil {
		t.Fatal(err)
	}
	if err := slot.Save([]byte("data")); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("dir entries = %d, want only the snapshot file", len(entries))
	}
}
