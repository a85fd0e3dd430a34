package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settlement represents a direct payment between two members that offsets
// expense-driven balances. Like expenses, settlements are immutable facts.
type Settlement struct {
	ID        string
	GroupID   string
	PaidBy    string
	PaidTo    string
	Amount    decimal.Decimal
	Date      time.Time
	CreatedAt time.Time
}

// Validate validates a settlement before it is recorded.
func (s *Settlement) Validate() error {
	if s.PaidBy == s.PaidTo {
		return ErrSamePayerPayee
	}

	if s.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	return nil
}
