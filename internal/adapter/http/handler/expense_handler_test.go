package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/evenly/internal/adapter/http/dto"
	"github.com/iho/evenly/internal/domain"
	"github.com/iho/evenly/internal/usecase"
)

type expenseServiceStub struct {
	addFn    func(ctx context.Context, input usecase.AddExpenseInput) (*domain.Expense, error)
	getFn    func(ctx context.Context, id string) (*domain.Expense, error)
	listFn   func(ctx context.Context, groupID string) ([]domain.Expense, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *expenseServiceStub) AddExpense(ctx context.Context, input usecase.AddExpenseInput) (*domain.Expense, error) {
	return s.addFn(ctx, input)
}

func (s *expenseServiceStub) GetExpense(ctx context.Context, id string) (*domain.Expense, error) {
	return s.getFn(ctx, id)
}

func (s *expenseServiceStub) ListExpenses(ctx context.Context, groupID string) ([]domain.Expense, error) {
	return s.listFn(ctx, groupID)
}

func (s *expenseServiceStub) DeleteExpense(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func TestExpenseHandler_Create_Success(t *testing.T) {
	expense := &domain.Expense{
		ID:      "e1",
		GroupID: "g1",
		Amount:  decimal.NewFromInt(90),
		PaidBy:  "a@example.com",
	}

	var captured usecase.AddExpenseInput
	h := NewExpenseHandler(&expenseServiceStub{
		addFn: func(ctx context.Context, input usecase.AddExpenseInput) (*domain.Expense, error) {
			captured = input
			return expense, nil
		},
	})

	body, _ := json.Marshal(dto.AddExpenseRequest{
		Description: "dinner",
		Amount:      decimal.NewFromInt(90),
		PaidBy:      "a@example.com",
		SplitAmong:  []string{"a@example.com", "b@example.com", "c@example.com"},
	})

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/groups/g1/expenses", bytes.NewReader(body)), "id", "g1")
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "g1", captured.GroupID)
	assert.Equal(t, "a@example.com", captured.PaidBy)
	assert.Len(t, captured.SplitAmong, 3)

	var resp dto.ExpenseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "e1", resp.ID)
}

func TestExpenseHandler_Create_NonMemberRejected(t *testing.T) {
	h := NewExpenseHandler(&expenseServiceStub{
		addFn: func(ctx context.Context, input usecase.AddExpenseInput) (*domain.Expense, error) {
			return nil, domain.ErrNotGroupMember
		},
	})

	body, _ := json.Marshal(dto.AddExpenseRequest{
		Amount: decimal.NewFromInt(10),
		PaidBy: "z@example.com",
	})

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/groups/g1/expenses", bytes.NewReader(body)), "id", "g1")
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestExpenseHandler_ListByGroup(t *testing.T) {
	h := NewExpenseHandler(&expenseServiceStub{
		listFn: func(ctx context.Context, groupID string) ([]domain.Expense, error) {
			return []domain.Expense{
				{ID: "e1", GroupID: groupID, Amount: decimal.NewFromInt(90)},
				{ID: "e2", GroupID: groupID, Amount: decimal.NewFromInt(30)},
			}, nil
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/groups/g1/expenses", nil), "id", "g1")
	rec := httptest.NewRecorder()

	h.ListByGroup(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.ListExpensesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.Total)
	assert.Equal(t, "e1", resp.Expenses[0].ID)
}

func TestExpenseHandler_Delete_NotFound(t *testing.T) {
	h := NewExpenseHandler(&expenseServiceStub{
		deleteFn: func(ctx context.Context, id string) error {
			return domain.ErrExpenseNotFound
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/expenses/missing", nil), "id", "missing")
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
