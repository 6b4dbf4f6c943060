package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrSamePartySettlement = errors.New("payer and payee must be different")

// Settlement is a real payment from payer to payee that reduces the payer's
// debt.
type Settlement struct {
	ID          string          `json:"id"`
	Payer       string          `json:"payer"`
	Payee       string          `json:"payee"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Notes       string          `json:"notes"`
}

func (s *Settlement) Validate() error {
	if s.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrNonPositiveAmount
	}
	if s.Payer == s.Payee {
		return ErrSamePartySettlement
	}
	return nil
}
