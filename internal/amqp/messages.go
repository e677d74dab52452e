package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"arha/internal/core"
)

// Action is what happened to a transaction.
type Action string

const (
	ActionSaved   Action = "saved"
	ActionDeleted Action = "deleted"
)

// TransactionEvent notifies listeners that a record changed. It carries the
// record's date so consumers can tell which month is affected without
// reading the record, which may already be gone.
type TransactionEvent struct {
	Action    Action    `json:"action"`
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionEvent(action Action, id string, date core.Date) *TransactionEvent {
	return &TransactionEvent{
		Action:    action,
		ID:        id,
		Date:      date.String(),
		Timestamp: time.Now(),
	}
}

// Period returns the month and year the event belongs to.
func (e *TransactionEvent) Period() (time.Month, int, error) {
	d, err := core.ParseDate(e.Date)
	if err != nil {
		return 0, 0, err
	}
	return d.Month(), d.Year(), nil
}

// ToJSON converts the event to JSON bytes
func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionEventFromJSON decodes and checks an event.
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var ev TransactionEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	switch ev.Action {
	case ActionSaved, ActionDeleted:
	default:
		return nil, fmt.Errorf("unknown action %q", ev.Action)
	}
	if ev.ID == "" {
		return nil, core.ErrEmptyID
	}
	return &ev, nil
}
