package chatstore

import (
	"encoding/json"
	"fmt"

	"github.com/starford/ansuz/internal/models"
)

// snapshotVersion guards the persisted envelope. Unknown versions fail
// closed: the store starts empty rather than guessing at the schema.
const snapshotVersion = 1

// snapshot is the serialized form of the full chat collection. Instants are
// carried as RFC 3339 strings by encoding/json.
type snapshot struct {
	Version       int           `json:"version"`
	Chats         []models.Chat `json:"chats"`
	CurrentChatID string        `json:"current_chat_id,omitempty"`
}

func encodeSnapshot(chats []models.Chat, currentID string) ([]byte, error) {
	if chats == nil {
		chats = []models.Chat{}
	}
	return json.Marshal(snapshot{
		Version:       snapshotVersion,
		Chats:         chats,
		CurrentChatID: currentID,
	})
}

// decodeSnapshot validates the stored blob. Any structural problem is an
// error; the caller treats it as an absent snapshot.
func decodeSnapshot(data []byte) (snapshot, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return snapshot{}, fmt.Errorf("chatstore: decode snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return snapshot{}, fmt.Errorf("chatstore: unsupported snapshot version %d", snap.Version)
	}
	for _, c := range snap.Chats {
		if c.ID == "" {
			return snapshot{}, fmt.Errorf("chatstore: snapshot chat without id")
		}
		for _, m := range c.Messages {
			if m.ID == "" {
				return snapshot{}, fmt.Errorf("chatstore: snapshot message without id in chat %s", c.ID)
			}
		}
	}
	if snap.Chats == nil {
		snap.Chats = []models.Chat{}
	}
	return snap, nil
}
