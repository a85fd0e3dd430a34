package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAddExpenseRequest_ToUseCaseInput(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	invoice := "inv-42"

	req := AddExpenseRequest{
		Description: "groceries",
		Amount:      decimal.NewFromInt(90),
		PaidBy:      "a@example.com",
		SplitAmong:  []string{"a@example.com", "b@example.com"},
		InvoiceID:   &invoice,
		Date:        &date,
	}

	input := req.ToUseCaseInput("g1")

	assert.Equal(t, "g1", input.GroupID)
	assert.Equal(t, "a@example.com", input.PaidBy)
	assert.True(t, input.Amount.Equal(decimal.NewFromInt(90)))
	assert.Equal(t, date, input.Date)
	assert.Equal(t, &invoice, input.InvoiceID)
}

func TestAddExpenseRequest_ToUseCaseInput_NoDate(t *testing.T) {
	req := AddExpenseRequest{
		Amount:     decimal.NewFromInt(10),
		PaidBy:     "a@example.com",
		SplitAmong: []string{"a@example.com"},
	}

	input := req.ToUseCaseInput("g1")

	// The use case substitutes the current time for a zero date.
	assert.True(t, input.Date.IsZero())
	assert.Nil(t, input.InvoiceID)
}

func TestRecordSettlementRequest_ToUseCaseInput(t *testing.T) {
	date := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	req := RecordSettlementRequest{
		PaidBy: "b@example.com",
		PaidTo: "a@example.com",
		Amount: decimal.NewFromInt(30),
		Date:   &date,
	}

	input := req.ToUseCaseInput("g1")

	assert.Equal(t, "g1", input.GroupID)
	assert.Equal(t, "b@example.com", input.PaidBy)
	assert.Equal(t, "a@example.com", input.PaidTo)
	assert.Equal(t, date, input.Date)
}

func TestUpdateGroupRequest_ToUseCaseInput(t *testing.T) {
	req := UpdateGroupRequest{
		Name:    "Flat 12",
		Members: []string{"a@example.com", "c@example.com"},
	}

	input := req.ToUseCaseInput("g1")

	assert.Equal(t, "g1", input.ID)
	assert.Equal(t, "Flat 12", input.Name)
	assert.Len(t, input.Members, 2)
}
