// Package manager orchestrates the event store and the ledger. The live
// ledger is always a pure function of the persisted history: every successful
// append is followed by a full rebuild, so the projection can never silently
// drift from the source of truth. This trades O(history) work per mutation
// for that guarantee and is deliberate; it is fine for small-to-moderate
// event volumes.
package manager

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"splitledger/internal/ledger"
	"splitledger/internal/models"
	"splitledger/internal/split"
)

// Store is the persistence collaborator: an ordered, appendable record source
// with atomic-write semantics. Appends either durably succeed or return an
// error; listed records come back in insertion order.
type Store interface {
	AppendExpense(models.Expense) error
	AppendSettlement(models.Settlement) error
	Expenses() ([]models.Expense, error)
	Settlements() ([]models.Settlement, error)
}

// Manager owns the current ledger projection. All dependencies are explicit;
// there are no package-level singletons. Mutations are serialized through one
// writer lock; reads share a snapshot that is swapped wholesale on rebuild.
type Manager struct {
	store  Store
	logger *logrus.Logger

	mu     sync.RWMutex
	ledger *ledger.Ledger
}

// New builds a manager and immediately reconciles against whatever history
// the store already holds.
func New(store Store, logger *logrus.Logger) (*Manager, error) {
	m := &Manager{
		store:  store,
		logger: logger,
		ledger: ledger.New(),
	}
	if err := m.Rebuild(); err != nil {
		return nil, fmt.Errorf("initial ledger rebuild failed: %w", err)
	}
	return m, nil
}

// AddExpense validates the expense, persists it, then rebuilds the ledger.
// Validation includes a dry-run allocation so a bad split never reaches the
// store. If persistence fails nothing is rebuilt and the prior ledger stands.
func (m *Manager) AddExpense(exp models.Expense) error {
	if err := exp.Validate(); err != nil {
		return err
	}
	if _, err := split.Allocate(exp.Amount, exp.Participants, split.Mode(exp.SplitMode)); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.AppendExpense(exp); err != nil {
		return fmt.Errorf("failed to persist expense %s: %w", exp.ID, err)
	}

	m.logger.WithFields(logrus.Fields{
		"expense_id": exp.ID,
		"payer":      exp.Payer,
		"amount":     exp.Amount.StringFixed(2),
		"split_mode": exp.SplitMode,
	}).Info("expense recorded")

	return m.rebuild()
}

// AddSettlement validates the settlement, persists it, then rebuilds.
func (m *Manager) AddSettlement(st models.Settlement) error {
	if err := st.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.AppendSettlement(st); err != nil {
		return fmt.Errorf("failed to persist settlement %s: %w", st.ID, err)
	}

	m.logger.WithFields(logrus.Fields{
		"settlement_id": st.ID,
		"payer":         st.Payer,
		"payee":         st.Payee,
		"amount":        st.Amount.StringFixed(2),
	}).Info("settlement recorded")

	return m.rebuild()
}

type timelineEntry struct {
	at    time.Time
	apply func(*ledger.Ledger) error
}

// Rebuild reconstructs the ledger from the full persisted history. Expenses
// and settlements are merged into one timeline sorted ascending by date; the
// sort is stable, so records with equal timestamps keep their insertion
// order. One unreadable record (unknown split mode) aborts the whole rebuild
// and leaves the previous ledger in place; a partial projection is worse than
// a stale one.
func (m *Manager) Rebuild() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rebuild()
}

func (m *Manager) rebuild() error {
	expenses, err := m.store.Expenses()
	if err != nil {
		return fmt.Errorf("failed to list expenses: %w", err)
	}
	settlements, err := m.store.Settlements()
	if err != nil {
		return fmt.Errorf("failed to list settlements: %w", err)
	}

	timeline := make([]timelineEntry, 0, len(expenses)+len(settlements))
	for i := range expenses {
		exp := expenses[i]
		timeline = append(timeline, timelineEntry{
			at: exp.Date,
			apply: func(l *ledger.Ledger) error {
				return l.ApplyExpense(&exp)
			},
		})
	}
	for i := range settlements {
		st := settlements[i]
		timeline = append(timeline, timelineEntry{
			at: st.Date,
			apply: func(l *ledger.Ledger) error {
				l.ApplySettlement(&st)
				return nil
			},
		})
	}

	sort.SliceStable(timeline, func(i, j int) bool {
		return timeline[i].at.Before(timeline[j].at)
	})

	rebuilt := ledger.New()
	for _, entry := range timeline {
		if err := entry.apply(rebuilt); err != nil {
			return fmt.Errorf("ledger rebuild aborted: %w", err)
		}
	}

	m.ledger = rebuilt
	return nil
}

// BalancesFor is the netted per-counterparty view for one identity: positive
// means they owe the counterparty, negative means the counterparty owes them.
func (m *Manager) BalancesFor(identity string) map[string]decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ledger.NetFor(identity)
}

// Balances exposes a copy of the raw pairwise table, mainly for tests and
// debugging dumps.
func (m *Manager) Balances() map[string]map[string]decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ledger.Balances()
}

// DashboardTotals aggregates the net view into the two dashboard numbers:
// what identity owes in total, and what is owed to them in total.
func (m *Manager) DashboardTotals(identity string) (youOwe, owedToYou decimal.Decimal) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, amount := range m.ledger.NetFor(identity) {
		if amount.IsPositive() {
			youOwe = youOwe.Add(amount)
		} else {
			owedToYou = owedToYou.Sub(amount)
		}
	}
	return split.Round2(youOwe), split.Round2(owedToYou)
}
