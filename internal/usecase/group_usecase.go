package usecase

import (
	"context"
	"time"

	"github.com/iho/evenly/internal/domain"
)

// GroupUseCase handles group business logic.
type GroupUseCase struct {
	txManager  TransactionManager
	groupRepo  GroupRepository
	outboxRepo OutboxRepository
	auditRepo  AuditRepository
	idGen      IDGenerator
}

// NewGroupUseCase creates a new GroupUseCase.
func NewGroupUseCase(
	txManager TransactionManager,
	groupRepo GroupRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
) *GroupUseCase {
	return &GroupUseCase{
		txManager:  txManager,
		groupRepo:  groupRepo,
		outboxRepo: outboxRepo,
		auditRepo:  auditRepo,
		idGen:      idGen,
	}
}

// CreateGroupInput represents input for creating a group.
type CreateGroupInput struct {
	Name     string
	Currency string
	Members  []string
}

// CreateGroup creates a new group.
func (uc *GroupUseCase) CreateGroup(ctx context.Context, input CreateGroupInput) (*domain.Group, error) {
	if err := domain.ValidateGroupName(input.Name); err != nil {
		return nil, err
	}
	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}
	for _, m := range input.Members {
		if err := domain.ValidateMemberID(m); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	group := &domain.Group{
		ID:        uc.idGen.Generate(),
		Name:      input.Name,
		Currency:  input.Currency,
		Members:   input.Members,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := group.Validate(); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.groupRepo.CreateTx(ctx, tx, group); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   group.ID,
		AggregateType: domain.AggregateTypeGroup,
		EventType:     domain.EventTypeGroupCreated,
		Payload: domain.MarshalState(domain.GroupCreatedEvent{
			GroupID:  group.ID,
			Name:     group.Name,
			Currency: group.Currency,
			Members:  group.Members,
		}),
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.audit(ctx, domain.AuditActionGroupCreate, group.ID, nil, group)

	return group, nil
}

// GetGroup retrieves a group by ID.
func (uc *GroupUseCase) GetGroup(ctx context.Context, id string) (*domain.Group, error) {
	return uc.groupRepo.GetByID(ctx, id)
}

// ListGroupsInput represents input for listing groups.
type ListGroupsInput struct {
	Limit  int
	Offset int
}

// ListGroups lists groups with pagination.
func (uc *GroupUseCase) ListGroups(ctx context.Context, input ListGroupsInput) ([]*domain.Group, error) {
	limit, offset, err := domain.ValidatePagination(input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}
	return uc.groupRepo.List(ctx, limit, offset)
}

// ListGroupsByMember lists every group the given member belongs to.
func (uc *GroupUseCase) ListGroupsByMember(ctx context.Context, member string) ([]*domain.Group, error) {
	if member == "" {
		return nil, domain.ErrEmptyUser
	}
	return uc.groupRepo.ListByMember(ctx, member)
}

// UpdateGroupInput represents input for updating a group.
type UpdateGroupInput struct {
	ID      string
	Name    string
	Members []string
}

// UpdateGroup updates a group's name and member list. The currency is fixed
// at creation since historical amounts are denominated in it.
func (uc *GroupUseCase) UpdateGroup(ctx context.Context, input UpdateGroupInput) (*domain.Group, error) {
	if err := domain.ValidateGroupName(input.Name); err != nil {
		return nil, err
	}
	for _, m := range input.Members {
		if err := domain.ValidateMemberID(m); err != nil {
			return nil, err
		}
	}

	group, err := uc.groupRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	before := *group

	group.Name = input.Name
	group.Members = input.Members
	group.UpdatedAt = time.Now().UTC()

	if err := group.Validate(); err != nil {
		return nil, err
	}

	if err := uc.groupRepo.Update(ctx, group); err != nil {
		return nil, err
	}

	uc.audit(ctx, domain.AuditActionGroupUpdate, group.ID, &before, group)

	return group, nil
}

// DeleteGroup removes a group and its ledger.
func (uc *GroupUseCase) DeleteGroup(ctx context.Context, id string) error {
	group, err := uc.groupRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.groupRepo.Delete(ctx, id); err != nil {
		return err
	}

	uc.audit(ctx, domain.AuditActionGroupDelete, id, group, nil)

	return nil
}

// audit records a group action. Audit failures are not surfaced: the action
// itself already succeeded.
func (uc *GroupUseCase) audit(ctx context.Context, action domain.AuditAction, resourceID string, before, after any) {
	_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		Action:       string(action),
		ResourceType: domain.AggregateTypeGroup,
		ResourceID:   resourceID,
		BeforeState:  domain.MarshalState(before),
		AfterState:   domain.MarshalState(after),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	})
}
