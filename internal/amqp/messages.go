package amqp

import (
	"encoding/json"
	"time"
)

const (
	EventTransactionCreated = "transaction.created"
	EventTransactionDeleted = "transaction.deleted"
)

// LedgerEvent is published after every committed ledger mutation. It carries
// the balance effect of the mutation so the audit worker can log it without
// re-reading the transaction, which may already be gone for deletions.
type LedgerEvent struct {
	Event         string    `json:"event"`
	TransactionID int64     `json:"transaction_id"`
	UserID        int64     `json:"user_id"`
	AccountID     int64     `json:"account_id,omitempty"` // 0 for card-origin transactions
	DeltaCents    int64     `json:"delta_cents"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewLedgerEvent(event string, transactionID, userID, accountID, deltaCents int64) *LedgerEvent {
	return &LedgerEvent{
		Event:         event,
		TransactionID: transactionID,
		UserID:        userID,
		AccountID:     accountID,
		DeltaCents:    deltaCents,
		Timestamp:     time.Now(),
	}
}

func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
