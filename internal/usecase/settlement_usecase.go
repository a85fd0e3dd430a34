package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/evenly/internal/domain"
)

// SettlementUseCase handles settlement business logic.
type SettlementUseCase struct {
	txManager      TransactionManager
	groupRepo      GroupRepository
	settlementRepo SettlementRepository
	outboxRepo     OutboxRepository
	auditRepo      AuditRepository
	idGen          IDGenerator
	cache          Cache
	retrier        Retrier
}

// NewSettlementUseCase creates a new SettlementUseCase.
func NewSettlementUseCase(
	txManager TransactionManager,
	groupRepo GroupRepository,
	settlementRepo SettlementRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	cache Cache,
) *SettlementUseCase {
	return &SettlementUseCase{
		txManager:      txManager,
		groupRepo:      groupRepo,
		settlementRepo: settlementRepo,
		outboxRepo:     outboxRepo,
		auditRepo:      auditRepo,
		idGen:          idGen,
		cache:          cache,
	}
}

// WithRetrier enables transparent retries of the transactional write on
// transient storage errors.
func (uc *SettlementUseCase) WithRetrier(r Retrier) *SettlementUseCase {
	uc.retrier = r
	return uc
}

func (uc *SettlementUseCase) run(ctx context.Context, op func() error) error {
	if uc.retrier == nil {
		return op()
	}
	return uc.retrier.Retry(ctx, op)
}

// RecordSettlementInput represents input for recording a settlement.
type RecordSettlementInput struct {
	GroupID string
	PaidBy  string
	PaidTo  string
	Amount  decimal.Decimal
	Date    time.Time
}

// RecordSettlement records a direct payment between two group members.
func (uc *SettlementUseCase) RecordSettlement(ctx context.Context, input RecordSettlementInput) (*domain.Settlement, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	group, err := uc.groupRepo.GetByID(ctx, input.GroupID)
	if err != nil {
		return nil, err
	}

	if !group.HasMember(input.PaidBy) || !group.HasMember(input.PaidTo) {
		return nil, domain.ErrNotGroupMember
	}

	now := time.Now().UTC()

	date := input.Date
	if date.IsZero() {
		date = now
	}

	settlement := &domain.Settlement{
		ID:        uc.idGen.Generate(),
		GroupID:   input.GroupID,
		PaidBy:    input.PaidBy,
		PaidTo:    input.PaidTo,
		Amount:    input.Amount,
		Date:      date,
		CreatedAt: now,
	}

	if err := settlement.Validate(); err != nil {
		return nil, err
	}

	persist := func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := uc.settlementRepo.Create(ctx, tx, settlement); err != nil {
			return err
		}

		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   settlement.ID,
			AggregateType: domain.AggregateTypeSettlement,
			EventType:     domain.EventTypeSettlementRecorded,
			Payload: domain.MarshalState(domain.SettlementRecordedEvent{
				SettlementID: settlement.ID,
				GroupID:      settlement.GroupID,
				PaidBy:       settlement.PaidBy,
				PaidTo:       settlement.PaidTo,
				Amount:       settlement.Amount.String(),
				Currency:     group.Currency,
				Date:         settlement.Date.Format(time.RFC3339),
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

	uc.invalidateBalances(ctx, settlement.GroupID)
	uc.audit(ctx, domain.AuditActionSettlementCreate, settlement.PaidBy, settlement.ID, nil, settlement)

	return settlement, nil
}

// GetSettlement retrieves a settlement by ID.
func (uc *SettlementUseCase) GetSettlement(ctx context.Context, id string) (*domain.Settlement, error) {
	return uc.settlementRepo.GetByID(ctx, id)
}

// ListSettlements lists a group's settlements in ledger order.
func (uc *SettlementUseCase) ListSettlements(ctx context.Context, groupID string) ([]domain.Settlement, error) {
	if _, err := uc.groupRepo.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	return uc.settlementRepo.ListByGroup(ctx, groupID)
}

// DeleteSettlement removes a settlement.
func (uc *SettlementUseCase) DeleteSettlement(ctx context.Context, id string) error {
	settlement, err := uc.settlementRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	persist := func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := uc.settlementRepo.Delete(ctx, tx, id); err != nil {
			return err
		}

		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   settlement.ID,
			AggregateType: domain.AggregateTypeSettlement,
			EventType:     domain.EventTypeSettlementDeleted,
			Payload: domain.MarshalState(domain.SettlementDeletedEvent{
				SettlementID: settlement.ID,
				GroupID:      settlement.GroupID,
				Amount:       settlement.Amount.String(),
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

	uc.invalidateBalances(ctx, settlement.GroupID)
	uc.audit(ctx, domain.AuditActionSettlementDelete, "", settlement.ID, settlement, nil)

	return nil
}

func (uc *SettlementUseCase) invalidateBalances(ctx context.Context, groupID string) {
	_ = uc.cache.Delete(ctx, balanceCacheKey(groupID))
}

func (uc *SettlementUseCase) audit(ctx context.Context, action domain.AuditAction, userID, resourceID string, before, after any) {
	_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       userID,
		Action:       string(action),
		ResourceType: domain.AggregateTypeSettlement,
		ResourceID:   resourceID,
		BeforeState:  domain.MarshalState(before),
		AfterState:   domain.MarshalState(after),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	})
}
