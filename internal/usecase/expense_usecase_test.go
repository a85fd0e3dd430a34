package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/evenly/internal/domain"
	"github.com/iho/evenly/internal/usecase"
	"github.com/iho/evenly/internal/usecase/mocks"
)

type expenseFixture struct {
	uc          *usecase.ExpenseUseCase
	groupRepo   *mocks.MockGroupRepository
	expenseRepo *mocks.MockExpenseRepository
	outboxRepo  *mocks.MockOutboxRepository
	auditRepo   *mocks.MockAuditRepository
	cache       *mocks.MockCache
}

func newExpenseFixture(t *testing.T) *expenseFixture {
	t.Helper()

	f := &expenseFixture{
		groupRepo:   mocks.NewMockGroupRepository(),
		expenseRepo: mocks.NewMockExpenseRepository(),
		outboxRepo:  mocks.NewMockOutboxRepository(),
		auditRepo:   mocks.NewMockAuditRepository(),
		cache:       mocks.NewMockCache(),
	}
	f.uc = usecase.NewExpenseUseCase(
		mocks.NewMockTransactionManager(),
		f.groupRepo,
		f.expenseRepo,
		f.outboxRepo,
		f.auditRepo,
		mocks.NewMockIDGenerator(),
		f.cache,
	)

	group := &domain.Group{
		ID:       "g1",
		Name:     "trip",
		Currency: "USD",
		Members:  []string{"a@example.com", "b@example.com", "c@example.com"},
	}
	if err := f.groupRepo.Create(context.Background(), group); err != nil {
		t.Fatalf("seed group: %v", err)
	}

	return f
}

func TestExpenseUseCase_AddExpense(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.AddExpenseInput
		expectError error
	}{
		{
			name: "successful expense",
			input: usecase.AddExpenseInput{
				GroupID:     "g1",
				Description: "dinner",
				Amount:      decimal.NewFromInt(90),
				PaidBy:      "a@example.com",
				SplitAmong:  []string{"a@example.com", "b@example.com", "c@example.com"},
			},
		},
		{
			name: "zero amount rejected",
			input: usecase.AddExpenseInput{
				GroupID:     "g1",
				Description: "dinner",
				Amount:      decimal.Zero,
				PaidBy:      "a@example.com",
				SplitAmong:  []string{"a@example.com"},
			},
			expectError: domain.ErrInvalidAmount,
		},
		{
			name: "negative amount rejected",
			input: usecase.AddExpenseInput{
				GroupID:     "g1",
				Description: "dinner",
				Amount:      decimal.NewFromInt(-10),
				PaidBy:      "a@example.com",
				SplitAmong:  []string{"a@example.com"},
			},
			expectError: domain.ErrInvalidAmount,
		},
		{
			name: "oversized description rejected",
			input: usecase.AddExpenseInput{
				GroupID:     "g1",
				Description: strings.Repeat("x", 513),
				Amount:      decimal.NewFromInt(10),
				PaidBy:      "a@example.com",
				SplitAmong:  []string{"a@example.com"},
			},
			expectError: domain.ErrDescriptionTooLong,
		},
		{
			name: "unknown group rejected",
			input: usecase.AddExpenseInput{
				GroupID:     "missing",
				Description: "dinner",
				Amount:      decimal.NewFromInt(10),
				PaidBy:      "a@example.com",
				SplitAmong:  []string{"a@example.com"},
			},
			expectError: domain.ErrGroupNotFound,
		},
		{
			name: "payer outside group rejected",
			input: usecase.AddExpenseInput{
				GroupID:     "g1",
				Description: "dinner",
				Amount:      decimal.NewFromInt(10),
				PaidBy:      "z@example.com",
				SplitAmong:  []string{"a@example.com"},
			},
			expectError: domain.ErrNotGroupMember,
		},
		{
			name: "split participant outside group rejected",
			input: usecase.AddExpenseInput{
				GroupID:     "g1",
				Description: "dinner",
				Amount:      decimal.NewFromInt(10),
				PaidBy:      "a@example.com",
				SplitAmong:  []string{"a@example.com", "z@example.com"},
			},
			expectError: domain.ErrNotGroupMember,
		},
		{
			name: "empty split rejected",
			input: usecase.AddExpenseInput{
				GroupID:     "g1",
				Description: "dinner",
				Amount:      decimal.NewFromInt(10),
				PaidBy:      "a@example.com",
				SplitAmong:  []string{},
			},
			expectError: domain.ErrEmptySplit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newExpenseFixture(t)

			// Pre-warm the cache to verify invalidation.
			if err := f.cache.Set(context.Background(), "balances:g1", []byte("[]"), time.Minute); err != nil {
				t.Fatalf("seed cache: %v", err)
			}

			expense, err := f.uc.AddExpense(context.Background(), tt.input)

			if tt.expectError != nil {
				if !errors.Is(err, tt.expectError) {
					t.Fatalf("expected error %v, got %v", tt.expectError, err)
				}
				if !f.cache.Contains("balances:g1") {
					t.Error("failed mutation must not invalidate the cache")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if expense.ID == "" {
				t.Error("expense ID not assigned")
			}
			if expense.Date.IsZero() {
				t.Error("expense date should default to now")
			}

			if f.cache.Contains("balances:g1") {
				t.Error("expense creation must invalidate the group's balance cache")
			}

			events := f.outboxRepo.Events()
			if len(events) != 1 || events[0].EventType != domain.EventTypeExpenseCreated {
				t.Fatalf("expected a single %s event, got %v", domain.EventTypeExpenseCreated, events)
			}
			if events[0].Payload["currency"] != "USD" {
				t.Errorf("event payload should carry the group currency, got %v", events[0].Payload["currency"])
			}

			logs := f.auditRepo.Logs()
			if len(logs) != 1 || logs[0].Action != string(domain.AuditActionExpenseCreate) {
				t.Fatalf("expected a single %s audit log, got %v", domain.AuditActionExpenseCreate, logs)
			}
			if logs[0].UserID != tt.input.PaidBy {
				t.Errorf("audit log should attribute creation to the payer, got %q", logs[0].UserID)
			}
		})
	}
}

func TestExpenseUseCase_AddExpense_KeepsExplicitDate(t *testing.T) {
	f := newExpenseFixture(t)

	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	expense, err := f.uc.AddExpense(context.Background(), usecase.AddExpenseInput{
		GroupID:     "g1",
		Description: "hotel",
		Amount:      decimal.NewFromInt(200),
		PaidBy:      "a@example.com",
		SplitAmong:  []string{"a@example.com", "b@example.com"},
		Date:        date,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !expense.Date.Equal(date) {
		t.Errorf("expected date %v preserved, got %v", date, expense.Date)
	}
}

func TestExpenseUseCase_DeleteExpense(t *testing.T) {
	f := newExpenseFixture(t)

	expense, err := f.uc.AddExpense(context.Background(), usecase.AddExpenseInput{
		GroupID:     "g1",
		Description: "dinner",
		Amount:      decimal.NewFromInt(90),
		PaidBy:      "a@example.com",
		SplitAmong:  []string{"a@example.com", "b@example.com"},
	})
	if err != nil {
		t.Fatalf("add expense: %v", err)
	}

	if err := f.cache.Set(context.Background(), "balances:g1", []byte("[]"), time.Minute); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	if err := f.uc.DeleteExpense(context.Background(), expense.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.uc.GetExpense(context.Background(), expense.ID); !errors.Is(err, domain.ErrExpenseNotFound) {
		t.Errorf("expected ErrExpenseNotFound after delete, got %v", err)
	}
	if f.cache.Contains("balances:g1") {
		t.Error("expense deletion must invalidate the group's balance cache")
	}

	events := f.outboxRepo.Events()
	if len(events) != 2 {
		t.Fatalf("expected create and delete events, got %d", len(events))
	}
	if events[1].EventType != domain.EventTypeExpenseDeleted {
		t.Errorf("expected %s event, got %s", domain.EventTypeExpenseDeleted, events[1].EventType)
	}

	logs := f.auditRepo.Logs()
	if len(logs) != 2 {
		t.Fatalf("expected 2 audit logs, got %d", len(logs))
	}
	deleteLog := logs[1]
	if deleteLog.Action != string(domain.AuditActionExpenseDelete) {
		t.Errorf("expected %s audit action, got %s", domain.AuditActionExpenseDelete, deleteLog.Action)
	}
	if deleteLog.BeforeState == nil {
		t.Error("delete audit must record the removed expense")
	}
}

func TestExpenseUseCase_DeleteExpense_NotFound(t *testing.T) {
	f := newExpenseFixture(t)

	if err := f.uc.DeleteExpense(context.Background(), "missing"); !errors.Is(err, domain.ErrExpenseNotFound) {
		t.Errorf("expected ErrExpenseNotFound, got %v", err)
	}
}

func TestExpenseUseCase_ListExpenses_UnknownGroup(t *testing.T) {
	f := newExpenseFixture(t)

	if _, err := f.uc.ListExpenses(context.Background(), "missing"); !errors.Is(err, domain.ErrGroupNotFound) {
		t.Errorf("expected ErrGroupNotFound, got %v", err)
	}
}
