package domain

import (
	"encoding/json"
	"fmt"

	"github.com/bytedance/sonic"
)

// EventType identifies a message on the sync channel. The set is closed:
// one constant per protocol message, matched exhaustively on both ends.
type EventType string

const (
	// server -> client, once per connection at connect time
	EventSyncTasks EventType = "sync:tasks"

	// client -> server intents
	EventTaskCreate EventType = "task:create"
	EventTaskUpdate EventType = "task:update"
	EventTaskMove   EventType = "task:move"
	EventTaskDelete EventType = "task:delete"

	// server -> client broadcasts, echoed to the originator too
	EventTaskCreated EventType = "task:created"
	EventTaskUpdated EventType = "task:updated"
	EventTaskMoved   EventType = "task:moved"
	EventTaskDeleted EventType = "task:deleted"
)

// Move is the payload of task:move and task:moved. It carries only the
// id and target status, never the whole task.
type Move struct {
	TaskID    string `json:"taskId"`
	NewStatus string `json:"newStatus"`
}

// Envelope is the wire frame: one tagged event per websocket text
// message, payload kept raw until the type is known.
type Envelope struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope wraps the payload for the given event type.
func NewEnvelope(t EventType, payload any) (Envelope, error) {
	data, err := sonic.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", t, err)
	}
	return Envelope{Type: t, Payload: data}, nil
}

// Decode unmarshals the payload into v.
func (e Envelope) Decode(v any) error {
	return sonic.Unmarshal(e.Payload, v)
}
