// Package wallets provides the PostgreSQL-backed repository for connected
// cryptocurrency wallet addresses.
package wallets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/noverif/noverif/internal/common"
	"github.com/noverif/noverif/internal/dbx"
	"github.com/noverif/noverif/internal/server/models"
)

// PostgresRepository implements wallet storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create relies on the unique index over (user_id, lower(address)) for the
// case-insensitive duplicate check, so a racing duplicate cannot slip in
// between a check and the insert.
func (r *PostgresRepository) Create(ctx context.Context, wallet *models.Wallet) (*models.Wallet, error) {
	query := `
		INSERT INTO wallets (user_id, type, address, name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, connected_at
	`
	err := r.db.QueryRowContext(ctx, query,
		wallet.UserID, wallet.Type, wallet.Address, wallet.Name).
		Scan(&wallet.ID, &wallet.ConnectedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return wallet, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Wallet, error) {
	query := `SELECT id, user_id, type, address, name, connected_at FROM wallets WHERE id = $1`
	wallet := &models.Wallet{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&wallet.ID, &wallet.UserID, &wallet.Type, &wallet.Address, &wallet.Name, &wallet.ConnectedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return wallet, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Wallet, error) {
	query := `SELECT id, user_id, type, address, name, connected_at FROM wallets WHERE user_id = $1 ORDER BY connected_at DESC`
	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.Wallet, error) {
	query := `SELECT id, user_id, type, address, name, connected_at FROM wallets ORDER BY connected_at DESC`
	return r.list(ctx, query)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Wallet, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Wallet
	for rows.Next() {
		wallet := &models.Wallet{}
		if err := rows.Scan(
			&wallet.ID, &wallet.UserID, &wallet.Type, &wallet.Address, &wallet.Name, &wallet.ConnectedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, wallet)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Rename(ctx context.Context, id, userID, name string) error {
	query := `UPDATE wallets SET name = $3 WHERE id = $1 AND user_id = $2`
	return r.exec(ctx, query, id, userID, name)
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM wallets WHERE id = $1 AND user_id = $2`
	return r.exec(ctx, query, id, userID)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
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
