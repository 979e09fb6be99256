package amqp

import (
	"encoding/json"
	"time"
)

// ExpenseRecordedMessage tells the worker that an expense was written. It
// carries only identifiers; the worker re-reads the trip from storage so the
// message can never go stale.
type ExpenseRecordedMessage struct {
	TripID    string    `json:"trip_id"`
	ExpenseID string    `json:"expense_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseRecordedMessage(tripID, expenseID string) *ExpenseRecordedMessage {
	return &ExpenseRecordedMessage{
		TripID:    tripID,
		ExpenseID: expenseID,
		Timestamp: time.Now(),
	}
}

func (m *ExpenseRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseRecordedMessageFromJSON(data []byte) (*ExpenseRecordedMessage, error) {
	var msg ExpenseRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.TripID == "" {
		return nil, errEmptyTripID
	}
	return &msg, nil
}
