package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	KindExport = "export"
	KindDelete = "delete"
)

// ExportMessage tells the worker to export or un-export one transaction.
// It carries only the ID; the worker loads the row itself, so a message
// arriving after further edits exports the latest state.
type ExportMessage struct {
	Kind          string    `json:"kind"`
	TransactionID string    `json:"transaction_id"`
	UserID        string    `json:"user_id"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewExportMessage(kind, transactionID, userID string) *ExportMessage {
	return &ExportMessage{
		Kind:          kind,
		TransactionID: transactionID,
		UserID:        userID,
		Timestamp:     time.Now(),
	}
}

func (m *ExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExportMessageFromJSON(data []byte) (*ExportMessage, error) {
	var msg ExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Kind != KindExport && msg.Kind != KindDelete {
		return nil, fmt.Errorf("unknown message kind %q", msg.Kind)
	}
	return &msg, nil
}
