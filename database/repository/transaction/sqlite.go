package transactionRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"finzo/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type sqliteTransactionRepo struct {
	db *sqlx.DB
}

// NewSQLiteTransactionRepo returns a repository backed by the transactions table.
func NewSQLiteTransactionRepo(db *sqlx.DB) TransactionRepository {
	return &sqliteTransactionRepo{db: db}
}

type transactionRow struct {
	ID         string         `db:"id"`
	Payee      string         `db:"payee"`
	Amount     int64          `db:"amount"`
	CategoryID sql.NullString `db:"category_id"`
	AccountID  string         `db:"account_id"`
	Date       string         `db:"date"`
	Notes      sql.NullString `db:"notes"`
	CreatedAt  string         `db:"created_at"`
	UpdatedAt  string         `db:"updated_at"`
}

const selectTransaction = `
	SELECT id, payee, amount, category_id, account_id, date, notes, created_at, updated_at
	FROM transactions`

func (r *sqliteTransactionRepo) Create(ctx context.Context, in models.TransactionInput) (*models.Transaction, error) {
	id := uuid.New().String()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (
			id, payee, amount, category_id, account_id, date, notes, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, in.Payee, in.Amount, nullString(in.CategoryID), in.AccountID,
		in.Date.String(), nullString(in.Notes), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *sqliteTransactionRepo) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	var row transactionRow
	err := r.db.GetContext(ctx, &row, selectTransaction+" WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting transaction %s: %w", id, err)
	}
	tx, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *sqliteTransactionRepo) List(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	var (
		where []string
		args  []any
	)
	if filter.AccountID != "" {
		where = append(where, "account_id = ?")
		args = append(args, filter.AccountID)
	}
	if filter.CategoryID != "" {
		where = append(where, "category_id = ?")
		args = append(args, filter.CategoryID)
	}
	if !filter.From.IsZero() {
		where = append(where, "date >= ?")
		args = append(args, filter.From.String())
	}
	if !filter.To.IsZero() {
		where = append(where, "date <= ?")
		args = append(args, filter.To.String())
	}

	query := selectTransaction
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date DESC, created_at DESC"

	var rows []transactionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}

	out := make([]models.Transaction, 0, len(rows))
	for _, row := range rows {
		tx, err := row.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, nil
}

func (r *sqliteTransactionRepo) Update(ctx context.Context, id string, in models.TransactionInput) (*models.Transaction, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET
			payee = ?, amount = ?, category_id = ?, account_id = ?,
			date = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		in.Payee, in.Amount, nullString(in.CategoryID), in.AccountID,
		in.Date.String(), nullString(in.Notes), time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating transaction %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *sqliteTransactionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting transaction %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sqliteTransactionRepo) DeleteMany(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In("DELETE FROM transactions WHERE id IN (?)", ids)
	if err != nil {
		return 0, fmt.Errorf("building bulk delete: %w", err)
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("bulk deleting transactions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted transactions: %w", err)
	}
	return int(n), nil
}

func (row transactionRow) toModel() (models.Transaction, error) {
	var date models.Date
	if row.Date != "" {
		parsed, err := models.ParseDate(row.Date)
		if err != nil {
			return models.Transaction{}, fmt.Errorf("parsing date of transaction %s: %w", row.ID, err)
		}
		date = parsed
	}
	createdAt, err := time.Parse(time.RFC3339Nano, row.CreatedAt)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("parsing created_at of transaction %s: %w", row.ID, err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, row.UpdatedAt)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("parsing updated_at of transaction %s: %w", row.ID, err)
	}
	return models.Transaction{
		ID:         row.ID,
		Payee:      row.Payee,
		Amount:     row.Amount,
		CategoryID: fromNullString(row.CategoryID),
		AccountID:  row.AccountID,
		Date:       date,
		Notes:      fromNullString(row.Notes),
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
