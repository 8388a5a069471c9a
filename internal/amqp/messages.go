package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Action is the kind of change a TransactionEvent reports.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// TransactionEvent tells consumers that a transaction changed.
// It carries ids only; consumers read the current state from the database.
type TransactionEvent struct {
	ID        string    `json:"id"`
	Action    Action    `json:"action"`
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionEvent(id string, action Action, userID string) TransactionEvent {
	return TransactionEvent{
		ID:        id,
		Action:    action,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
	}
}

func (e TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionEventFromJSON decodes and checks an event body.
func TransactionEventFromJSON(data []byte) (TransactionEvent, error) {
	var e TransactionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return TransactionEvent{}, err
	}
	if e.ID == "" {
		return TransactionEvent{}, fmt.Errorf("transaction event without id")
	}
	switch e.Action {
	case ActionCreated, ActionUpdated, ActionDeleted:
	default:
		return TransactionEvent{}, fmt.Errorf("unknown transaction event action %q", e.Action)
	}
	return e, nil
}
