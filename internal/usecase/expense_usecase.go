package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/evenly/internal/domain"
)

// ExpenseUseCase handles expense business logic.
type ExpenseUseCase struct {
	txManager   TransactionManager
	groupRepo   GroupRepository
	expenseRepo ExpenseRepository
	outboxRepo  OutboxRepository
	auditRepo   AuditRepository
	idGen       IDGenerator
	cache       Cache
	retrier     Retrier
}

// NewExpenseUseCase creates a new ExpenseUseCase.
func NewExpenseUseCase(
	txManager TransactionManager,
	groupRepo GroupRepository,
	expenseRepo ExpenseRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	cache Cache,
) *ExpenseUseCase {
	return &ExpenseUseCase{
		txManager:   txManager,
		groupRepo:   groupRepo,
		expenseRepo: expenseRepo,
		outboxRepo:  outboxRepo,
		auditRepo:   auditRepo,
		idGen:       idGen,
		cache:       cache,
	}
}

// WithRetrier enables transparent retries of the transactional write on
// transient storage errors.
func (uc *ExpenseUseCase) WithRetrier(r Retrier) *ExpenseUseCase {
	uc.retrier = r
	return uc
}

func (uc *ExpenseUseCase) run(ctx context.Context, op func() error) error {
	if uc.retrier == nil {
		return op()
	}
	return uc.retrier.Retry(ctx, op)
}

// AddExpenseInput represents input for recording an expense.
type AddExpenseInput struct {
	GroupID     string
	Description string
	Amount      decimal.Decimal
	PaidBy      string
	SplitAmong  []string
	InvoiceID   *string
	Date        time.Time
}

// AddExpense records a new expense against a group. The payer and every
// split participant must be members of the group; records that would be
// invisible to the balance engine are rejected at the door instead of being
// stored as dead weight.
func (uc *ExpenseUseCase) AddExpense(ctx context.Context, input AddExpenseInput) (*domain.Expense, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	group, err := uc.groupRepo.GetByID(ctx, input.GroupID)
	if err != nil {
		return nil, err
	}

	if !group.HasMember(input.PaidBy) {
		return nil, domain.ErrNotGroupMember
	}
	for _, s := range input.SplitAmong {
		if !group.HasMember(s) {
			return nil, domain.ErrNotGroupMember
		}
	}

	now := time.Now().UTC()

	date := input.Date
	if date.IsZero() {
		date = now
	}

	expense := &domain.Expense{
		ID:          uc.idGen.Generate(),
		GroupID:     input.GroupID,
		Description: input.Description,
		Amount:      input.Amount,
		PaidBy:      input.PaidBy,
		SplitAmong:  input.SplitAmong,
		InvoiceID:   input.InvoiceID,
		Date:        date,
		CreatedAt:   now,
	}

	if err := expense.Validate(); err != nil {
		return nil, err
	}

	persist := func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := uc.expenseRepo.Create(ctx, tx, expense); err != nil {
			return err
		}

		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   expense.ID,
			AggregateType: domain.AggregateTypeExpense,
			EventType:     domain.EventTypeExpenseCreated,
			Payload: domain.MarshalState(domain.ExpenseCreatedEvent{
				ExpenseID:   expense.ID,
				GroupID:     expense.GroupID,
				Description: expense.Description,
				Amount:      expense.Amount.String(),
				Currency:    group.Currency,
				PaidBy:      expense.PaidBy,
				SplitAmong:  expense.SplitAmong,
				Date:        expense.Date.Format(time.RFC3339),
			}),
			CreatedAt: now,
		}
		if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
			return err
		}

		return tx.Commit(ctx)
	}
	if err := uc.run(ctx, persist); err != nil {
		return nil, err
	}

	uc.invalidateBalances(ctx, expense.GroupID)
	uc.audit(ctx, domain.AuditActionExpenseCreate, expense.PaidBy, expense.ID, nil, expense)

	return expense, nil
}

// GetExpense retrieves an expense by ID.
func (uc *ExpenseUseCase) GetExpense(ctx context.Context, id string) (*domain.Expense, error) {
	return uc.expenseRepo.GetByID(ctx, id)
}

// ListExpenses lists a group's expenses in ledger order.
func (uc *ExpenseUseCase) ListExpenses(ctx context.Context, groupID string) ([]domain.Expense, error) {
	if _, err := uc.groupRepo.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	return uc.expenseRepo.ListByGroup(ctx, groupID)
}

// DeleteExpense removes an expense. Expenses cannot be edited, so deletion
// plus re-creation is the only correction path; the audit trail keeps the
// removed record.
func (uc *ExpenseUseCase) DeleteExpense(ctx context.Context, id string) error {
	expense, err := uc.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	persist := func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := uc.expenseRepo.Delete(ctx, tx, id); err != nil {
			return err
		}

		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   expense.ID,
			AggregateType: domain.AggregateTypeExpense,
			EventType:     domain.EventTypeExpenseDeleted,
			Payload: domain.MarshalState(domain.ExpenseDeletedEvent{
				ExpenseID: expense.ID,
				GroupID:   expense.GroupID,
				Amount:    expense.Amount.String(),
			}),
			CreatedAt: time.Now().UTC(),
		}
		if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
			return err
		}

		return tx.Commit(ctx)
	}
	if err := uc.run(ctx, persist); err != nil {
		return err
	}

	uc.invalidateBalances(ctx, expense.GroupID)
	uc.audit(ctx, domain.AuditActionExpenseDelete, "", expense.ID, expense, nil)

	return nil
}

// invalidateBalances drops the cached balance views for a group. A cache
// miss on the next read is harmless, so errors are ignored.
func (uc *ExpenseUseCase) invalidateBalances(ctx context.Context, groupID string) {
	_ = uc.cache.Delete(ctx, balanceCacheKey(groupID))
}

func (uc *ExpenseUseCase) audit(ctx context.Context, action domain.AuditAction, userID, resourceID string, before, after any) {
	_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       userID,
		Action:       string(action),
		ResourceType: domain.AggregateTypeExpense,
		ResourceID:   resourceID,
		BeforeState:  domain.MarshalState(before),
		AfterState:   domain.MarshalState(after),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	})
}
