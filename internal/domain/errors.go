package domain

import "errors"

var (
	// Group errors
	ErrGroupNotFound   = errors.New("group not found")
	ErrDuplicateMember = errors.New("group members must be unique")
	ErrNoMembers       = errors.New("group must have at least one member")

	// Expense errors
	ErrExpenseNotFound = errors.New("expense not found")
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrEmptySplit      = errors.New("split must include at least one member")

	// Settlement errors
	ErrSettlementNotFound = errors.New("settlement not found")
	ErrSamePayerPayee     = errors.New("cannot settle with yourself")
	ErrNotGroupMember     = errors.New("not a member of the group")

	// Balance engine input contract errors
	ErrNilMembers     = errors.New("members list is required")
	ErrNilExpenses    = errors.New("expenses list is required")
	ErrNilSettlements = errors.New("settlements list is required")
	ErrNilGroups      = errors.New("groups list is required")
	ErrEmptyUser      = errors.New("current user is required")
)
