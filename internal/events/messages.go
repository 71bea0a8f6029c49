package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Expense lifecycle event names carried in the routing payload.
const (
	ExpenseCreated = "expense.created"
	ExpenseUpdated = "expense.updated"
	ExpenseDeleted = "expense.deleted"
)

// Message is the JSON body published for an expense lifecycle event.
type Message struct {
	Event      string    `json:"event"`
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewMessage builds a message stamped with the current UTC time.
func NewMessage(event, id string) *Message {
	return &Message{
		Event:      event,
		ID:         id,
		OccurredAt: time.Now().UTC(),
	}
}

// ToJSON serializes the message.
func (m *Message) ToJSON() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal event message: %w", err)
	}
	return data, nil
}

// MessageFromJSON deserializes a message.
func MessageFromJSON(data []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal event message: %w", err)
	}
	return &m, nil
}
