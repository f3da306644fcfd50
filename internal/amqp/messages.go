package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventKind names a ledger mutation.
type EventKind string

const (
	EventCreated  EventKind = "created"
	EventSettled  EventKind = "settled"
	EventImported EventKind = "imported"
	EventReset    EventKind = "reset"
)

// IsValid reports whether k is a known kind.
func (k EventKind) IsValid() bool {
	switch k {
	case EventCreated, EventSettled, EventImported, EventReset:
		return true
	}
	return false
}

// WagerEventMessage announces a ledger change. It carries ids only; consumers
// read the current state from the store.
type WagerEventMessage struct {
	Kind      EventKind `json:"kind"`
	IDs       []string  `json:"ids,omitempty"`
	Revision  int64     `json:"revision"`
	Timestamp time.Time `json:"timestamp"`
}

// NewWagerEventMessage creates a message stamped with the current time.
func NewWagerEventMessage(kind EventKind, revision int64, ids ...string) *WagerEventMessage {
	return &WagerEventMessage{
		Kind:      kind,
		IDs:       ids,
		Revision:  revision,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *WagerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// WagerEventMessageFromJSON decodes and validates a message.
func WagerEventMessageFromJSON(data []byte) (*WagerEventMessage, error) {
	var msg WagerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if !msg.Kind.IsValid() {
		return nil, fmt.Errorf("unknown event kind %q", msg.Kind)
	}
	return &msg, nil
}
