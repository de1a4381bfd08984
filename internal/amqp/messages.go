package amqp

import (
	"encoding/json"
	"time"

	"budgetbuddy/internal/events"
)

// LedgerEventMessage is the wire form of a state-change notification.
// Amounts travel as decimal strings so no precision is lost.
type LedgerEventMessage struct {
	Type      string    `json:"type"`
	Email     string    `json:"email"`
	RecordID  string    `json:"record_id,omitempty"`
	Amount    string    `json:"amount,omitempty"`
	Category  string    `json:"category,omitempty"`
	Currency  string    `json:"currency,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerEventMessage copies e into a message, stamping it now if e has no timestamp.
func NewLedgerEventMessage(e events.Event) *LedgerEventMessage {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return &LedgerEventMessage{
		Type:      string(e.Type),
		Email:     e.Email,
		RecordID:  e.RecordID,
		Amount:    e.Amount,
		Category:  e.Category,
		Currency:  e.Currency,
		Timestamp: ts,
	}
}

// Event converts the message back into an in-process event.
func (m *LedgerEventMessage) Event() events.Event {
	return events.Event{
		Type:      events.Type(m.Type),
		Email:     m.Email,
		RecordID:  m.RecordID,
		Amount:    m.Amount,
		Category:  m.Category,
		Currency:  m.Currency,
		Timestamp: m.Timestamp,
	}
}

func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
