package integration

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/evenly/internal/usecase"
)

// Three flatmates, two expenses and one settlement. Exercises the gross
// view, the user-relative view, the cross-group aggregation and the
// monthly summary against real storage.
func TestBalanceViewsEndToEnd(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	s.db.TruncateAll(ctx)

	group := s.db.CreateTestGroup(ctx, "Flat 12", "USD",
		[]string{"a@example.com", "b@example.com", "c@example.com"})

	march := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	april := time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC)

	// a pays 90 split three ways: b and c each owe a 30
	if _, err := s.expenseUC.AddExpense(ctx, usecase.AddExpenseInput{
		GroupID:     group.ID,
		Description: "groceries",
		Amount:      decimal.NewFromInt(90),
		PaidBy:      "a@example.com",
		SplitAmong:  []string{"a@example.com", "b@example.com", "c@example.com"},
		Date:        march,
	}); err != nil {
		t.Fatalf("failed to add expense: %v", err)
	}

	// b pays 40 split with a: a owes b 20
	if _, err := s.expenseUC.AddExpense(ctx, usecase.AddExpenseInput{
		GroupID:     group.ID,
		Description: "internet",
		Amount:      decimal.NewFromInt(40),
		PaidBy:      "b@example.com",
		SplitAmong:  []string{"a@example.com", "b@example.com"},
		Date:        april,
	}); err != nil {
		t.Fatalf("failed to add expense: %v", err)
	}

	// c settles 10 of the 30 owed to a
	if _, err := s.settlementUC.RecordSettlement(ctx, usecase.RecordSettlementInput{
		GroupID: group.ID,
		PaidBy:  "c@example.com",
		PaidTo:  "a@example.com",
		Amount:  decimal.NewFromInt(10),
		Date:    april,
	}); err != nil {
		t.Fatalf("failed to record settlement: %v", err)
	}

	balances, err := s.balanceUC.GroupBalances(ctx, group.ID)
	if err != nil {
		t.Fatalf("failed to compute balances: %v", err)
	}
	if len(balances) != 3 {
		t.Fatalf("expected 3 member balances, got %d", len(balances))
	}

	// a: owed 60 from the grocery split, minus the 10 settlement
	if !balances[0].OwedAmount.Equal(decimal.NewFromInt(50)) {
		t.Errorf("a owed = %s, want 50", balances[0].OwedAmount)
	}
	// a: owes 20 from the internet split
	if !balances[0].OwesAmount.Equal(decimal.NewFromInt(20)) {
		t.Errorf("a owes = %s, want 20", balances[0].OwesAmount)
	}
	// c: owed the 30 grocery share minus the 10 already settled
	if !balances[2].OwesAmount.Equal(decimal.NewFromInt(20)) {
		t.Errorf("c owes = %s, want 20", balances[2].OwesAmount)
	}

	// b's view: owes a 30, is owed 20 by a, net -10
	userView, err := s.balanceUC.UserBalances(ctx, group.ID, "b@example.com")
	if err != nil {
		t.Fatalf("failed to compute user balances: %v", err)
	}
	if !userView.TotalBalance.Equal(decimal.NewFromInt(-10)) {
		t.Errorf("b total balance = %s, want -10", userView.TotalBalance)
	}
	if len(userView.YouOwe) != 1 || userView.YouOwe[0].User != "a@example.com" {
		t.Fatalf("unexpected YouOwe for b: %+v", userView.YouOwe)
	}
	if !userView.YouOwe[0].Amount.Equal(decimal.NewFromInt(10)) {
		t.Errorf("b owes a %s, want 10 net", userView.YouOwe[0].Amount)
	}

	owed, err := s.balanceUC.OwedAcrossGroups(ctx, "c@example.com")
	if err != nil {
		t.Fatalf("failed to compute cross-group owed: %v", err)
	}
	if !owed.TotalAmount.Equal(decimal.NewFromInt(20)) {
		t.Errorf("c total owed = %s, want 20", owed.TotalAmount)
	}

	summary, err := s.balanceUC.GroupSummary(ctx, group.ID)
	if err != nil {
		t.Fatalf("failed to compute summary: %v", err)
	}
	if !summary.TotalExpenses.Equal(decimal.NewFromInt(130)) {
		t.Errorf("total expenses = %s, want 130", summary.TotalExpenses)
	}
	if !summary.MonthlyExpenses["2024-03"].Equal(decimal.NewFromInt(90)) {
		t.Errorf("march bucket = %s, want 90", summary.MonthlyExpenses["2024-03"])
	}
	if !summary.MonthlyExpenses["2024-04"].Equal(decimal.NewFromInt(40)) {
		t.Errorf("april bucket = %s, want 40", summary.MonthlyExpenses["2024-04"])
	}
}

func TestConservationAcrossGroups(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	s.db.TruncateAll(ctx)

	g1 := s.db.CreateTestGroup(ctx, "Flat 12", "USD",
		[]string{"a@example.com", "b@example.com"})
	g2 := s.db.CreateTestGroup(ctx, "Road trip", "USD",
		[]string{"b@example.com", "c@example.com"})

	for _, gID := range []string{g1.ID, g2.ID} {
		if _, err := s.expenseUC.AddExpense(ctx, usecase.AddExpenseInput{
			GroupID:     gID,
			Description: "shared cost",
			Amount:      decimal.NewFromInt(100),
			PaidBy:      "b@example.com",
			SplitAmong:  s.mustMembers(ctx, t, gID),
		}); err != nil {
			t.Fatalf("failed to add expense to %s: %v", gID, err)
		}
	}

	report, err := s.balanceUC.CheckConservation(ctx)
	if err != nil {
		t.Fatalf("conservation check failed: %v", err)
	}
	if report.TotalGroups != 2 || report.ConservedGroups != 2 {
		t.Fatalf("expected both groups conserved, got %+v", report)
	}
	if len(report.Violations) != 0 {
		t.Fatalf("expected no violations, got %+v", report.Violations)
	}
}

func (s *stack) mustMembers(ctx context.Context, t *testing.T, groupID string) []string {
	t.Helper()

	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		t.Fatalf("failed to load group %s: %v", groupID, err)
	}
	return group.Members
}
