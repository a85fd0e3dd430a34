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

// ExpenseRepository implements usecase.ExpenseRepository.
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

const insertExpenseSQL = `
	INSERT INTO expenses (id, group_id, description, amount, paid_by, split_among, invoice_id, date, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// Create creates a new expense within a transaction.
func (r *ExpenseRepository) Create(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error {
	_, err := txQuerier(tx, r.pool).Exec(ctx, insertExpenseSQL,
		expense.ID,
		expense.GroupID,
		expense.Description,
		decimalToNumeric(expense.Amount),
		expense.PaidBy,
		expense.SplitAmong,
		expense.InvoiceID,
		timeToPgTimestamptz(expense.Date),
		timeToPgTimestamptz(expense.CreatedAt),
	)

	return err
}

const selectExpenseSQL = `
	SELECT id, group_id, description, amount, paid_by, split_among, invoice_id, date, created_at
	FROM expenses
	WHERE id = $1`

// GetByID retrieves an expense by ID.
func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	expense, err := scanExpense(r.pool.QueryRow(ctx, selectExpenseSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}

		return nil, err
	}

	return expense, nil
}

// Expenses are returned in ledger order: ascending date, insertion order
// within a date. The balance engine depends on this ordering.
const listExpensesByGroupSQL = `
	SELECT id, group_id, description, amount, paid_by, split_among, invoice_id, date, created_at
	FROM expenses
	WHERE group_id = $1
	ORDER BY date, created_at, id`

// ListByGroup retrieves all expenses of a group in ledger order.
func (r *ExpenseRepository) ListByGroup(ctx context.Context, groupID string) ([]domain.Expense, error) {
	rows, err := r.pool.Query(ctx, listExpensesByGroupSQL, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanExpenses(rows)
}

const listExpensesByParticipantSQL = `
	SELECT id, group_id, description, amount, paid_by, split_among, invoice_id, date, created_at
	FROM expenses
	WHERE paid_by = $1 OR $1 = ANY(split_among)
	ORDER BY date, created_at, id`

// ListByParticipant retrieves every expense the member paid or shares in.
func (r *ExpenseRepository) ListByParticipant(ctx context.Context, member string) ([]domain.Expense, error) {
	rows, err := r.pool.Query(ctx, listExpensesByParticipantSQL, member)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanExpenses(rows)
}

const deleteExpenseSQL = `DELETE FROM expenses WHERE id = $1`

// Delete removes an expense within a transaction.
func (r *ExpenseRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	tag, err := txQuerier(tx, r.pool).Exec(ctx, deleteExpenseSQL, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}

	return nil
}

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var (
		e      domain.Expense
		amount pgtype.Numeric
	)

	err := row.Scan(
		&e.ID,
		&e.GroupID,
		&e.Description,
		&amount,
		&e.PaidBy,
		&e.SplitAmong,
		&e.InvoiceID,
		&e.Date,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Amount = numericToDecimal(amount)

	return &e, nil
}

func scanExpenses(rows pgx.Rows) ([]domain.Expense, error) {
	expenses := []domain.Expense{}
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *expense)
	}

	return expenses, rows.Err()
}
