package amqp

import (
	"encoding/json"
	"time"
)

// LedgerChangedMessage tells consumers that the local transaction store
// changed. It carries no transaction data.
type LedgerChangedMessage struct {
	Op        string    `json:"op"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerChangedMessage(op string, count int) *LedgerChangedMessage {
	return &LedgerChangedMessage{
		Op:        op,
		Count:     count,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
