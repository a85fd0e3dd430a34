package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/evenly/internal/domain"
	"github.com/iho/evenly/internal/usecase"
)

// SettlementRepository implements usecase.SettlementRepository.
type SettlementRepository struct {
	pool *pgxpool.Pool
}

// NewSettlementRepository creates a new SettlementRepository.
func NewSettlementRepository(pool *pgxpool.Pool) *SettlementRepository {
	return &SettlementRepository{pool: pool}
}

const insertSettlementSQL = `
	INSERT INTO settlements (id, group_id, paid_by, paid_to, amount, date, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

// Create creates a new settlement within a transaction.
func (r *SettlementRepository) Create(ctx context.Context, tx usecase.Transaction, settlement *domain.Settlement) error {
	_, err := txQuerier(tx, r.pool).Exec(ctx, insertSettlementSQL,
		settlement.ID,
		settlement.GroupID,
		settlement.PaidBy,
		settlement.PaidTo,
		decimalToNumeric(settlement.Amount),
		timeToPgTimestamptz(settlement.Date),
		timeToPgTimestamptz(settlement.CreatedAt),
	)

	return err
}

const selectSettlementSQL = `
	SELECT id, group_id, paid_by, paid_to, amount, date, created_at
	FROM settlements
	WHERE id = $1`

// GetByID retrieves a settlement by ID.
func (r *SettlementRepository) GetByID(ctx context.Context, id string) (*domain.Settlement, error) {
	settlement, err := scanSettlement(r.pool.QueryRow(ctx, selectSettlementSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSettlementNotFound
		}

		return nil, err
	}

	return settlement, nil
}

const listSettlementsByGroupSQL = `
	SELECT id, group_id, paid_by, paid_to, amount, date, created_at
	FROM settlements
	WHERE group_id = $1
	ORDER BY date, created_at, id`

// ListByGroup retrieves all settlements of a group in ledger order.
func (r *SettlementRepository) ListByGroup(ctx context.Context, groupID string) ([]domain.Settlement, error) {
	rows, err := r.pool.Query(ctx, listSettlementsByGroupSQL, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSettlements(rows)
}

const listSettlementsByParticipantSQL = `
	SELECT id, group_id, paid_by, paid_to, amount, date, created_at
	FROM settlements
	WHERE paid_by = $1 OR paid_to = $1
	ORDER BY date, created_at, id`

// ListByParticipant retrieves every settlement the member paid or received.
func (r *SettlementRepository) ListByParticipant(ctx context.Context, member string) ([]domain.Settlement, error) {
	rows, err := r.pool.Query(ctx, listSettlementsByParticipantSQL, member)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSettlements(rows)
}

const deleteSettlementSQL = `DELETE FROM settlements WHERE id = $1`

// Delete removes a settlement within a transaction.
func (r *SettlementRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	tag, err := txQuerier(tx, r.pool).Exec(ctx, deleteSettlementSQL, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSettlementNotFound
	}

	return nil
}

func scanSettlement(row pgx.Row) (*domain.Settlement, error) {
	var (
		s      domain.Settlement
		amount pgtype.Numeric
	)

	err := row.Scan(
		&s.ID,
		&s.GroupID,
		&s.PaidBy,
		&s.PaidTo,
		&amount,
		&s.Date,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Amount = numericToDecimal(amount)

	return &s, nil
}

func scanSettlements(rows pgx.Rows) ([]domain.Settlement, error) {
	settlements := []domain.Settlement{}
	for rows.Next() {
		settlement, err := scanSettlement(rows)
		if err != nil {
			return nil, err
		}
		settlements = append(settlements, *settlement)
	}

	return settlements, rows.Err()
}
