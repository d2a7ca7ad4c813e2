// Package storage defines the durable snapshot slot abstraction.
//
// The chat collection is persisted as a single serialized blob: read once at
// startup, overwritten on every mutating store operation, erased on clear-all.
package storage

// Slot is a single string-keyed durable slot holding one snapshot.
type Slot interface {
	// Load returns the stored snapshot, or apperr.ErrNotFound when the slot
	// is empty.
	Load() ([]byte, error)
	// Save atomically overwrites the snapshot.
	Save(data []byte) error
	// Clear erases the slot. Clearing an empty slot is a no-op.
	Clear() error
}
