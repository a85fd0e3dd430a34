package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/evenly/internal/domain"
	"github.com/iho/evenly/internal/usecase"
)

func TestAddExpenseRejectsNonMembers(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	s.db.TruncateAll(ctx)

	group := s.db.CreateTestGroup(ctx, "Flat 12", "USD",
		[]string{"a@example.com", "b@example.com"})

	_, err := s.expenseUC.AddExpense(ctx, usecase.AddExpenseInput{
		GroupID:    group.ID,
		Amount:     decimal.NewFromInt(50),
		PaidBy:     "stranger@example.com",
		SplitAmong: []string{"a@example.com", "b@example.com"},
	})
	if !errors.Is(err, domain.ErrNotGroupMember) {
		t.Fatalf("expected ErrNotGroupMember for outside payer, got %v", err)
	}

	_, err = s.expenseUC.AddExpense(ctx, usecase.AddExpenseInput{
		GroupID:    group.ID,
		Amount:     decimal.NewFromInt(50),
		PaidBy:     "a@example.com",
		SplitAmong: []string{"a@example.com", "stranger@example.com"},
	})
	if !errors.Is(err, domain.ErrNotGroupMember) {
		t.Fatalf("expected ErrNotGroupMember for outside participant, got %v", err)
	}
}

func TestDeleteExpenseRestoresBalances(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	s.db.TruncateAll(ctx)

	group := s.db.CreateTestGroup(ctx, "Flat 12", "USD",
		[]string{"a@example.com", "b@example.com"})

	expense, err := s.expenseUC.AddExpense(ctx, usecase.AddExpenseInput{
		GroupID:    group.ID,
		Amount:     decimal.NewFromInt(60),
		PaidBy:     "a@example.com",
		SplitAmong: []string{"a@example.com", "b@example.com"},
	})
	if err != nil {
		t.Fatalf("failed to add expense: %v", err)
	}

	balances, err := s.balanceUC.GroupBalances(ctx, group.ID)
	if err != nil {
		t.Fatalf("failed to compute balances: %v", err)
	}
	if !balances[1].OwesAmount.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("b owes %s before delete, want 30", balances[1].OwesAmount)
	}

	if err := s.expenseUC.DeleteExpense(ctx, expense.ID); err != nil {
		t.Fatalf("failed to delete expense: %v", err)
	}

	balances, err = s.balanceUC.GroupBalances(ctx, group.ID)
	if err != nil {
		t.Fatalf("failed to recompute balances: %v", err)
	}
	for _, b := range balances {
		if !b.OwedAmount.IsZero() || !b.OwesAmount.IsZero() {
			t.Fatalf("expected clean slate after delete, got %+v", b)
		}
	}
}

func TestPayerOnlySplitAffectsNothing(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	s.db.TruncateAll(ctx)

	group := s.db.CreateTestGroup(ctx, "Flat 12", "USD",
		[]string{"a@example.com", "b@example.com"})

	// Payer is the sole participant; no debt is created.
	if _, err := s.expenseUC.AddExpense(ctx, usecase.AddExpenseInput{
		GroupID:    group.ID,
		Amount:     decimal.NewFromInt(25),
		PaidBy:     "a@example.com",
		SplitAmong: []string{"a@example.com"},
	}); err != nil {
		t.Fatalf("failed to add solo expense: %v", err)
	}

	balances, err := s.balanceUC.GroupBalances(ctx, group.ID)
	if err != nil {
		t.Fatalf("failed to compute balances: %v", err)
	}
	for _, b := range balances {
		if !b.OwedAmount.IsZero() || !b.OwesAmount.IsZero() {
			t.Fatalf("solo expense must not move balances, got %+v", b)
		}
	}

	// The expense still shows up in the summary.
	summary, err := s.balanceUC.GroupSummary(ctx, group.ID)
	if err != nil {
		t.Fatalf("failed to compute summary: %v", err)
	}
	if !summary.TotalExpenses.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("total expenses = %s, want 25", summary.TotalExpenses)
	}
}
