package amqp

import (
	"encoding/json"
	"time"
)

// Operations a sync message can carry. The worker mirrors each one to the
// remote feed.
const (
	OpCreate  = "create"
	OpDelete  = "delete"
	OpRestore = "restore"
)

// TransactionSyncMessage is a lightweight pointer to a transaction that
// changed locally. It carries only the id and the operation, the worker
// fetches the full record from the local database.
type TransactionSyncMessage struct {
	ID        string    `json:"id"`
	Op        string    `json:"op"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionSyncMessage(id, op string) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		ID:        id,
		Op:        op,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func TransactionSyncMessageFromJSON(data []byte) (*TransactionSyncMessage, error) {
	var msg TransactionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Op == "" {
		msg.Op = OpCreate
	}
	return &msg, nil
}
