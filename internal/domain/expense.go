package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense represents a shared cost paid by one member and split among a set
// of members. Expenses are immutable facts: they can be created and deleted,
// never edited.
type Expense struct {
	ID          string
	GroupID     string
	Description string
	Amount      decimal.Decimal
	PaidBy      string
	SplitAmong  []string
	InvoiceID   *string
	Date        time.Time
	CreatedAt   time.Time
}

// Validate validates an expense before it is recorded.
func (e *Expense) Validate() error {
	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if len(e.SplitAmong) == 0 {
		return ErrEmptySplit
	}

	return nil
}

// Splittable reports whether the expense can contribute to balance
// computation. Historical records that fail this check are skipped per-item
// rather than failing the whole computation.
func (e *Expense) Splittable() bool {
	return e.Amount.GreaterThan(decimal.Zero) && len(e.SplitAmong) > 0
}

// PerPersonShare returns the equal share of the expense for each split
// participant. Callers must check Splittable first.
func (e *Expense) PerPersonShare() decimal.Decimal {
	return e.Amount.Div(decimal.NewFromInt(int64(len(e.SplitAmong))))
}

// InSplit reports whether the given member is a split participant.
func (e *Expense) InSplit(member string) bool {
	for _, s := range e.SplitAmong {
		if s == member {
			return true
		}
	}
	return false
}
