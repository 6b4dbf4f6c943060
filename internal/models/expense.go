package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNonPositiveAmount   = errors.New("amount must be greater than 0")
	ErrNoParticipants      = errors.New("participants must not be empty")
	ErrPayerNotParticipant = errors.New("payer must be listed as a participant")
)

// Expense is one shared cost and its split configuration. Records are
// immutable once appended to the store; corrections are compensating events.
type Expense struct {
	ID           string          `json:"id"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	Payer        string          `json:"payer"`
	Participants Participants    `json:"participants"`
	SplitMode    string          `json:"split_mode"`
	Notes        string          `json:"notes"`
	Date         time.Time       `json:"date"`
	GroupID      string          `json:"group_id,omitempty"`
}

func (e *Expense) Validate() error {
	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrNonPositiveAmount
	}
	if len(e.Participants) == 0 {
		return ErrNoParticipants
	}
	if !e.Participants.Contains(e.Payer) {
		return ErrPayerNotParticipant
	}
	return nil
}
