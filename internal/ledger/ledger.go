// Package ledger keeps the in-memory table of pairwise debts. The table is a
// disposable projection: it is never persisted and is rebuilt in full from
// the event history after every mutation.
package ledger

import (
	"github.com/shopspring/decimal"

	"splitledger/internal/models"
	"splitledger/internal/split"
)

// Ledger tracks net pairwise balances. balance[A][B] > 0 means A owes B that
// amount. The table is sparse: missing entries are zero, and entries that
// land within epsilon of zero are deleted rather than stored.
type Ledger struct {
	balance map[string]map[string]decimal.Decimal
}

func New() *Ledger {
	return &Ledger{balance: make(map[string]map[string]decimal.Decimal)}
}

// ApplyExpense adds each non-payer participant's allocation to what they owe
// the payer. The payer never owes themselves.
func (l *Ledger) ApplyExpense(exp *models.Expense) error {
	alloc, err := split.Allocate(exp.Amount, exp.Participants, split.Mode(exp.SplitMode))
	if err != nil {
		return err
	}

	for identity, owed := range alloc {
		if identity == exp.Payer {
			continue
		}
		l.add(identity, exp.Payer, owed)
	}
	return nil
}

// ApplySettlement reduces what the payer owes the payee. This is raw
// accumulation: overpaying flips the balance negative, meaning the payee now
// owes the payer. Guarding against that is the caller's job, not the
// engine's.
func (l *Ledger) ApplySettlement(st *models.Settlement) {
	l.add(st.Payer, st.Payee, st.Amount.Neg())
}

func (l *Ledger) add(debtor, creditor string, amount decimal.Decimal) {
	row := l.balance[debtor]
	if row == nil {
		row = make(map[string]decimal.Decimal)
		l.balance[debtor] = row
	}

	updated := row[creditor].Add(amount)
	if split.NearZero(updated) {
		delete(row, creditor)
		if len(row) == 0 {
			delete(l.balance, debtor)
		}
		return
	}
	row[creditor] = updated
}

// NetFor nets both directions of every pairwise balance involving me.
// Positive means I owe the counterparty, negative means they owe me. Entries
// within epsilon of zero are omitted; returned values are rounded to currency
// precision for display stability.
func (l *Ledger) NetFor(me string) map[string]decimal.Decimal {
	net := make(map[string]decimal.Decimal)

	for other, amount := range l.balance[me] {
		net[other] = amount
	}
	for other, row := range l.balance {
		if other == me {
			continue
		}
		if amount, ok := row[me]; ok {
			net[other] = net[other].Sub(amount)
		}
	}

	result := make(map[string]decimal.Decimal, len(net))
	for other, amount := range net {
		if split.NearZero(amount) {
			continue
		}
		result[other] = split.Round2(amount)
	}
	return result
}

// Balances returns a deep copy of the raw table, mainly for tests and
// debugging dumps.
func (l *Ledger) Balances() map[string]map[string]decimal.Decimal {
	out := make(map[string]map[string]decimal.Decimal, len(l.balance))
	for debtor, row := range l.balance {
		cp := make(map[string]decimal.Decimal, len(row))
		for creditor, amount := range row {
			cp[creditor] = amount
		}
		out[debtor] = cp
	}
	return out
}
