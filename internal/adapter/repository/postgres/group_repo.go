package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/evenly/internal/domain"
	"github.com/iho/evenly/internal/usecase"
)

// GroupRepository implements usecase.GroupRepository.
type GroupRepository struct {
	pool *pgxpool.Pool
}

// NewGroupRepository creates a new GroupRepository.
func NewGroupRepository(pool *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{pool: pool}
}

const insertGroupSQL = `
	INSERT INTO groups (id, name, currency, members, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6)`

// Create creates a new group.
func (r *GroupRepository) Create(ctx context.Context, group *domain.Group) error {
	return r.create(ctx, r.pool, group)
}

// CreateTx creates a new group within a transaction.
func (r *GroupRepository) CreateTx(ctx context.Context, tx usecase.Transaction, group *domain.Group) error {
	return r.create(ctx, txQuerier(tx, r.pool), group)
}

func (r *GroupRepository) create(ctx context.Context, q querier, group *domain.Group) error {
	_, err := q.Exec(ctx, insertGroupSQL,
		group.ID,
		group.Name,
		group.Currency,
		group.Members,
		timeToPgTimestamptz(group.CreatedAt),
		timeToPgTimestamptz(group.UpdatedAt),
	)

	return err
}

const selectGroupSQL = `
	SELECT id, name, currency, members, created_at, updated_at
	FROM groups
	WHERE id = $1`

// GetByID retrieves a group by ID.
func (r *GroupRepository) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	group, err := scanGroup(r.pool.QueryRow(ctx, selectGroupSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGroupNotFound
		}

		return nil, err
	}

	return group, nil
}

const listGroupsSQL = `
	SELECT id, name, currency, members, created_at, updated_at
	FROM groups
	ORDER BY created_at, id
	LIMIT $1 OFFSET $2`

// List retrieves groups with pagination.
func (r *GroupRepository) List(ctx context.Context, limit, offset int) ([]*domain.Group, error) {
	rows, err := r.pool.Query(ctx, listGroupsSQL, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGroups(rows)
}

const listGroupsByMemberSQL = `
	SELECT id, name, currency, members, created_at, updated_at
	FROM groups
	WHERE $1 = ANY(members)
	ORDER BY created_at, id`

// ListByMember retrieves every group the member belongs to.
func (r *GroupRepository) ListByMember(ctx context.Context, member string) ([]*domain.Group, error) {
	rows, err := r.pool.Query(ctx, listGroupsByMemberSQL, member)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGroups(rows)
}

const updateGroupSQL = `
	UPDATE groups
	SET name = $2, members = $3, updated_at = $4
	WHERE id = $1`

// Update updates a group's name and member list.
func (r *GroupRepository) Update(ctx context.Context, group *domain.Group) error {
	tag, err := r.pool.Exec(ctx, updateGroupSQL,
		group.ID,
		group.Name,
		group.Members,
		timeToPgTimestamptz(group.UpdatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGroupNotFound
	}

	return nil
}

const deleteGroupSQL = `DELETE FROM groups WHERE id = $1`

// Delete removes a group. Expenses and settlements cascade.
func (r *GroupRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteGroupSQL, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGroupNotFound
	}

	return nil
}

func scanGroup(row pgx.Row) (*domain.Group, error) {
	var g domain.Group

	err := row.Scan(
		&g.ID,
		&g.Name,
		&g.Currency,
		&g.Members,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &g, nil
}

func scanGroups(rows pgx.Rows) ([]*domain.Group, error) {
	groups := []*domain.Group{}
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}

	return groups, rows.Err()
}
