package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splitledger/internal/models"
	"splitledger/internal/split"
)

func equalExpense(id, payer string, amount string, identities ...string) *models.Expense {
	p := models.Participants{}
	for _, identity := range identities {
		p = append(p, models.Participant{Identity: identity, Weight: decimal.Zero})
	}
	return &models.Expense{
		ID:           id,
		Description:  "test expense",
		Amount:       decimal.RequireFromString(amount),
		Payer:        payer,
		Participants: p,
		SplitMode:    string(split.ModeEqual),
		Date:         time.Now().UTC(),
	}
}

func netAmounts(l *Ledger, identity string) map[string]string {
	out := make(map[string]string)
	for k, v := range l.NetFor(identity) {
		out[k] = v.StringFixed(2)
	}
	return out
}

func TestApplyExpense(t *testing.T) {
	l := New()
	require.NoError(t, l.ApplyExpense(equalExpense("e1", "you", "90", "you", "sam", "lee")))

	assert.Equal(t, map[string]string{"sam": "-30.00", "lee": "-30.00"}, netAmounts(l, "you"))
	assert.Equal(t, map[string]string{"you": "30.00"}, netAmounts(l, "sam"))
	assert.Equal(t, map[string]string{"you": "30.00"}, netAmounts(l, "lee"))
}

func TestApplyExpensePayerNeverOwesSelf(t *testing.T) {
	l := New()
	require.NoError(t, l.ApplyExpense(equalExpense("e1", "you", "90", "you", "sam", "lee")))

	for debtor, row := range l.Balances() {
		_, ok := row[debtor]
		assert.False(t, ok, "%s holds a self balance", debtor)
	}
	_, ok := l.NetFor("you")["you"]
	assert.False(t, ok)
}

func TestApplyExpenseUnknownMode(t *testing.T) {
	l := New()
	exp := equalExpense("e1", "you", "90", "you", "sam")
	exp.SplitMode = "FibonacciSplit"

	err := l.ApplyExpense(exp)
	require.ErrorIs(t, err, split.ErrUnknownMode)
	assert.Empty(t, l.Balances())
}

func TestApplySettlementReducesDebt(t *testing.T) {
	l := New()
	require.NoError(t, l.ApplyExpense(equalExpense("e1", "you", "90", "you", "sam", "lee")))

	l.ApplySettlement(&models.Settlement{
		ID:     "s1",
		Payer:  "sam",
		Payee:  "you",
		Amount: decimal.RequireFromString("20"),
		Date:   time.Now().UTC(),
	})

	assert.Equal(t, map[string]string{"sam": "-10.00", "lee": "-30.00"}, netAmounts(l, "you"))
	assert.Equal(t, map[string]string{"you": "10.00"}, netAmounts(l, "sam"))
}

func TestSettlementZeroing(t *testing.T) {
	l := New()
	require.NoError(t, l.ApplyExpense(equalExpense("e1", "you", "90", "you", "sam", "lee")))

	l.ApplySettlement(&models.Settlement{
		ID:     "s1",
		Payer:  "sam",
		Payee:  "you",
		Amount: decimal.RequireFromString("30"),
		Date:   time.Now().UTC(),
	})

	// Paying exactly the outstanding balance removes the entry entirely.
	_, ok := l.NetFor("you")["sam"]
	assert.False(t, ok)
	assert.Empty(t, l.NetFor("sam"))
}

func TestSettlementOverpaymentFlipsBalance(t *testing.T) {
	l := New()
	l.ApplySettlement(&models.Settlement{
		ID:     "s1",
		Payer:  "sam",
		Payee:  "you",
		Amount: decimal.RequireFromString("25"),
		Date:   time.Now().UTC(),
	})

	// sam had no debt, so you now logically owe sam.
	assert.Equal(t, map[string]string{"sam": "25.00"}, netAmounts(l, "you"))
	assert.Equal(t, map[string]string{"you": "-25.00"}, netAmounts(l, "sam"))
}

func TestNetForAntisymmetry(t *testing.T) {
	l := New()
	require.NoError(t, l.ApplyExpense(equalExpense("e1", "you", "90", "you", "sam", "lee")))
	require.NoError(t, l.ApplyExpense(equalExpense("e2", "sam", "45", "you", "sam", "lee")))
	l.ApplySettlement(&models.Settlement{
		ID:     "s1",
		Payer:  "lee",
		Payee:  "you",
		Amount: decimal.RequireFromString("12.50"),
		Date:   time.Now().UTC(),
	})

	identities := []string{"you", "sam", "lee"}
	for _, a := range identities {
		netA := l.NetFor(a)
		for _, b := range identities {
			if a == b {
				continue
			}
			netB := l.NetFor(b)
			amtAB, okAB := netA[b]
			amtBA, okBA := netB[a]
			if !okAB && !okBA {
				continue
			}
			require.True(t, okAB && okBA, "net entry present in only one direction for %s/%s", a, b)
			assert.True(t, amtAB.Equal(amtBA.Neg()),
				"net_for(%s)[%s]=%s is not the negation of net_for(%s)[%s]=%s", a, b, amtAB, b, a, amtBA)
		}
	}
}
