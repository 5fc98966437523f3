// Package events publishes what happens to a capital book to a message broker.
package events

import (
	"encoding/json"
	"time"

	"github.com/etnz/capital"
)

// Message is the JSON body published for each event.
type Message struct {
	Event         string    `json:"event"`
	Owner         string    `json:"owner"`
	Month         string    `json:"month,omitempty"`
	TransactionID string    `json:"transactionId,omitempty"`
	CapitalBase   string    `json:"capitalBase,omitempty"`
	Net           string    `json:"net,omitempty"`
	Currency      string    `json:"currency,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewMessage converts a book event into its message.
func NewMessage(e capital.Event) *Message {
	m := &Message{
		Event:         string(e.Kind),
		Owner:         e.Owner,
		TransactionID: e.TransactionID,
		Timestamp:     e.Time,
	}
	if !e.Month.IsZero() {
		m.Month = e.Month.String()
	}
	if e.Kind == capital.EventMonthClosed {
		m.CapitalBase = e.CapitalBase.Decimal().String()
		m.Net = e.Net.Decimal().String()
		m.Currency = e.CapitalBase.Currency()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	return m
}

// ToJSON converts the message to JSON bytes
func (m *Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MessageFromJSON creates a message from JSON bytes
func MessageFromJSON(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
