package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/evenly/internal/usecase"
)

// CreateGroupRequest represents a request to create a group.
type CreateGroupRequest struct {
	Name     string   `json:"name"`
	Currency string   `json:"currency"`
	Members  []string `json:"members"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateGroupRequest) ToUseCaseInput() usecase.CreateGroupInput {
	return usecase.CreateGroupInput{
		Name:     r.Name,
		Currency: r.Currency,
		Members:  r.Members,
	}
}

// UpdateGroupRequest represents a request to update a group.
type UpdateGroupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateGroupRequest) ToUseCaseInput(id string) usecase.UpdateGroupInput {
	return usecase.UpdateGroupInput{
		ID:      id,
		Name:    r.Name,
		Members: r.Members,
	}
}

// AddExpenseRequest represents a request to record an expense.
type AddExpenseRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	PaidBy      string          `json:"paid_by"`
	SplitAmong  []string        `json:"split_among"`
	InvoiceID   *string         `json:"invoice_id,omitempty"`
	Date        *time.Time      `json:"date,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *AddExpenseRequest) ToUseCaseInput(groupID string) usecase.AddExpenseInput {
	input := usecase.AddExpenseInput{
		GroupID:     groupID,
		Description: r.Description,
		Amount:      r.Amount,
		PaidBy:      r.PaidBy,
		SplitAmong:  r.SplitAmong,
		InvoiceID:   r.InvoiceID,
	}
	if r.Date != nil {
		input.Date = *r.Date
	}
	return input
}

// RecordSettlementRequest represents a request to record a settlement.
type RecordSettlementRequest struct {
	PaidBy string          `json:"paid_by"`
	PaidTo string          `json:"paid_to"`
	Amount decimal.Decimal `json:"amount"`
	Date   *time.Time      `json:"date,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordSettlementRequest) ToUseCaseInput(groupID string) usecase.RecordSettlementInput {
	input := usecase.RecordSettlementInput{
		GroupID: groupID,
		PaidBy:  r.PaidBy,
		PaidTo:  r.PaidTo,
		Amount:  r.Amount,
	}
	if r.Date != nil {
		input.Date = *r.Date
	}
	return input
}
