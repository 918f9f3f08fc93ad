package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Entity types carried by change messages.
const (
	EntityEnvelope = "envelope"
	EntityGoal     = "goal"
)

// Change actions carried by change messages.
const (
	ActionUpserted = "upserted"
	ActionDeleted  = "deleted"
)

// EntityChangeMessage is the lightweight message published after every write.
// It carries only the identity and version; the worker fetches the full row
// from the database.
type EntityChangeMessage struct {
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityId"`
	Version    int64     `json:"version"`
	Action     string    `json:"action"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewEntityChangeMessage creates a change message stamped with the current time.
func NewEntityChangeMessage(entityType, entityID string, version int64, action string) *EntityChangeMessage {
	return &EntityChangeMessage{
		EntityType: entityType,
		EntityID:   entityID,
		Version:    version,
		Action:     action,
		Timestamp:  time.Now(),
	}
}

// Validate checks the message carries a known entity type and action.
func (m *EntityChangeMessage) Validate() error {
	if m.EntityType != EntityEnvelope && m.EntityType != EntityGoal {
		return fmt.Errorf("unknown entity type: %q", m.EntityType)
	}
	if m.Action != ActionUpserted && m.Action != ActionDeleted {
		return fmt.Errorf("unknown action: %q", m.Action)
	}
	if m.EntityID == "" {
		return fmt.Errorf("empty entity id")
	}
	return nil
}

// ToJSON converts the message to JSON bytes
func (m *EntityChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EntityChangeMessageFromJSON creates a message from JSON bytes
func EntityChangeMessageFromJSON(data []byte) (*EntityChangeMessage, error) {
	var msg EntityChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
