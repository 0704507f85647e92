// Package transactions provides the PostgreSQL-backed repository for
// incoming transactions recorded against users.
package transactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/noverif/noverif/internal/common"
	"github.com/noverif/noverif/internal/dbx"
	"github.com/noverif/noverif/internal/server/models"
)

// PostgresRepository implements transaction storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const txnColumns = `id, user_id, date, amount, from_source, to_destination, purpose,
	status, type, crypto_type, transaction_hash, notes, created_at`

func scanTransaction(row interface{ Scan(...any) error }) (*models.Transaction, error) {
	txn := &models.Transaction{}
	err := row.Scan(
		&txn.ID, &txn.UserID, &txn.Date, &txn.Amount, &txn.FromSource, &txn.ToDestination,
		&txn.Purpose, &txn.Status, &txn.Type, &txn.CryptoType, &txn.TransactionHash,
		&txn.Notes, &txn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return txn, nil
}

func (r *PostgresRepository) Create(ctx context.Context, txn *models.Transaction) (*models.Transaction, error) {
	query := `
		INSERT INTO transactions (user_id, date, amount, from_source, to_destination, purpose,
			status, type, crypto_type, transaction_hash, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		txn.UserID, txn.Date, txn.Amount, txn.FromSource, txn.ToDestination, txn.Purpose,
		txn.Status, txn.Type, txn.CryptoType, txn.TransactionHash, txn.Notes).
		Scan(&txn.ID, &txn.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return txn, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	query := `SELECT ` + txnColumns + ` FROM transactions WHERE id = $1`
	txn, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return txn, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, filter Filter) ([]*models.Transaction, error) {
	query := `SELECT ` + txnColumns + ` FROM transactions
		WHERE user_id = $1 AND ($2 = '' OR status = $2) AND ($3 = '' OR type = $3)
		ORDER BY date DESC`
	return r.list(ctx, query, userID, string(filter.Status), string(filter.Type))
}

func (r *PostgresRepository) ListAll(ctx context.Context, filter Filter) ([]*models.Transaction, error) {
	query := `SELECT ` + txnColumns + ` FROM transactions
		WHERE ($1 = '' OR status = $1) AND ($2 = '' OR type = $2)
		ORDER BY date DESC`
	return r.list(ctx, query, string(filter.Status), string(filter.Type))
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) UpdateStatusNotes(ctx context.Context, id string, status models.TransactionStatus, notes string) error {
	query := `UPDATE transactions SET status = $2, notes = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status, notes)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
