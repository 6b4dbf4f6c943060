// Package split divides a shared amount among participants under one of a
// closed set of split modes. Allocation is a pure function: the same amount,
// participants (in the same order) and mode always produce the same result,
// and the returned shares always sum to the amount at currency precision.
package split

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"splitledger/internal/models"
)

// Mode is the persisted tag identifying a split policy. The tag is the only
// thing stored with an expense; rebuilds look the allocation function up by
// tag.
type Mode string

const (
	ModeEqual Mode = "EqualSplit"
	ModeExact Mode = "ExactSplit"
	ModeShare Mode = "ShareSplit"
)

var (
	ErrUnknownMode         = errors.New("unknown split mode")
	ErrSplitSumMismatch    = errors.New("exact split weights do not sum to the amount")
	ErrNonPositiveShare    = errors.New("all shares must be positive")
	ErrRedistributionStuck = errors.New("remainder redistribution did not converge")
)

// Func computes per-participant owed amounts for one split policy.
type Func func(amount decimal.Decimal, participants models.Participants) (map[string]decimal.Decimal, error)

var modeFuncs = map[Mode]Func{
	ModeEqual: equalSplit,
	ModeExact: exactSplit,
	ModeShare: shareSplit,
}

// ForMode resolves a persisted tag to its allocation function.
func ForMode(mode Mode) (Func, error) {
	fn, ok := modeFuncs[mode]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	return fn, nil
}

// Allocate divides amount across participants under mode.
func Allocate(amount decimal.Decimal, participants models.Participants, mode Mode) (map[string]decimal.Decimal, error) {
	fn, err := ForMode(mode)
	if err != nil {
		return nil, err
	}
	if len(participants) == 0 {
		return nil, models.ErrNoParticipants
	}
	return fn(amount, participants)
}

func equalSplit(amount decimal.Decimal, participants models.Participants) (map[string]decimal.Decimal, error) {
	n := len(participants)
	base := Round2(amount.Div(decimal.NewFromInt(int64(n))))

	shares := make([]decimal.Decimal, n)
	for i := range shares {
		shares[i] = base
	}
	if err := redistribute(amount, shares); err != nil {
		return nil, err
	}

	return zip(participants, shares), nil
}

func exactSplit(amount decimal.Decimal, participants models.Participants) (map[string]decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range participants {
		total = total.Add(p.Weight)
	}
	// Allow one cent of slack for callers that keyed amounts off rounded
	// displays.
	if total.Sub(amount).Abs().GreaterThan(Cent) {
		return nil, fmt.Errorf("%w: weights total %s, amount is %s",
			ErrSplitSumMismatch, total.StringFixed(2), amount.StringFixed(2))
	}

	// Caller-specified amounts are authoritative; no redistribution.
	alloc := make(map[string]decimal.Decimal, len(participants))
	for _, p := range participants {
		alloc[p.Identity] = Round2(p.Weight)
	}
	return alloc, nil
}

func shareSplit(amount decimal.Decimal, participants models.Participants) (map[string]decimal.Decimal, error) {
	totalWeight := decimal.Zero
	for _, p := range participants {
		if p.Weight.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: %s has weight %s", ErrNonPositiveShare, p.Identity, p.Weight)
		}
		totalWeight = totalWeight.Add(p.Weight)
	}

	shares := make([]decimal.Decimal, len(participants))
	for i, p := range participants {
		shares[i] = Round2(amount.Mul(p.Weight).Div(totalWeight))
	}
	if err := redistribute(amount, shares); err != nil {
		return nil, err
	}

	return zip(participants, shares), nil
}

// redistributionCap bounds the fix-up loop. Any valid input converges in at
// most a handful of cents; hitting the cap means a logic fault, not bad user
// input.
const redistributionCap = 1000

// redistribute moves one cent at a time between amount and the rounded
// shares, cycling through participants in order, until the shares sum to
// amount exactly.
func redistribute(amount decimal.Decimal, shares []decimal.Decimal) error {
	diff := Round2(amount.Sub(sum(shares)))
	step := Cent
	if diff.IsNegative() {
		step = Cent.Neg()
	}

	for i := 0; diff.Abs().GreaterThanOrEqual(Cent); i++ {
		if i >= redistributionCap {
			return fmt.Errorf("%w: residual %s", ErrRedistributionStuck, diff)
		}
		idx := i % len(shares)
		shares[idx] = Round2(shares[idx].Add(step))
		diff = Round2(amount.Sub(sum(shares)))
	}
	return nil
}

func sum(shares []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, s := range shares {
		total = total.Add(s)
	}
	return total
}

func zip(participants models.Participants, shares []decimal.Decimal) map[string]decimal.Decimal {
	alloc := make(map[string]decimal.Decimal, len(participants))
	for i, p := range participants {
		alloc[p.Identity] = shares[i]
	}
	return alloc
}
