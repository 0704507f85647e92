// Package users provides the PostgreSQL-backed repository for user accounts
// and the virtual-bank mirror fields the ACH workflow maintains on them.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/noverif/noverif/internal/common"
	"github.com/noverif/noverif/internal/dbx"
	"github.com/noverif/noverif/internal/server/models"
)

// PostgresRepository implements user storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, email, password_hash, name, phone, address, role, suspended,
	virtual_bank_status, virtual_bank_created_at, virtual_bank_completed_at,
	bank_name, bank_address, account_owner, account_type, account_number, routing_number, swift_code,
	created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	user := &models.User{}
	var vbCreated, vbCompleted sql.NullTime
	var bankName, bankAddr, owner, acctType, acctNum, routing, swift sql.NullString
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Phone, &user.Address,
		&user.Role, &user.Suspended,
		&user.VirtualBankStatus, &vbCreated, &vbCompleted,
		&bankName, &bankAddr, &owner, &acctType, &acctNum, &routing, &swift,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if vbCreated.Valid {
		user.VirtualBankCreatedAt = &vbCreated.Time
	}
	if vbCompleted.Valid {
		user.VirtualBankCompletedAt = &vbCompleted.Time
	}
	if acctNum.Valid && acctNum.String != "" {
		user.BankDetails = &models.BankDetails{
			BankName:      bankName.String,
			BankAddress:   bankAddr.String,
			AccountOwner:  owner.String,
			AccountType:   models.AccountType(acctType.String),
			AccountNumber: acctNum.String,
			RoutingNumber: routing.String,
			SwiftCode:     swift.String,
		}
	}
	return user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (email, password_hash, name, phone, address, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.Name, user.Phone, user.Address, user.Role).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id, name, phone, address string) error {
	query := `UPDATE users SET name = $2, phone = $3, address = $4 WHERE id = $1`
	return r.exec(ctx, query, id, name, phone, address)
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id string, hash []byte) error {
	query := `UPDATE users SET password_hash = $2 WHERE id = $1`
	return r.exec(ctx, query, id, hash)
}

func (r *PostgresRepository) SetSuspended(ctx context.Context, id string, suspended bool) error {
	query := `UPDATE users SET suspended = $2 WHERE id = $1`
	return r.exec(ctx, query, id, suspended)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = $1`
	return r.exec(ctx, query, id)
}

// MarkVirtualBankRequested records an ACH submission on the profile. The
// mirror flips straight to in_progress at submission time even though the
// application record starts at pending; the application stays authoritative
// for the admin workflow.
func (r *PostgresRepository) MarkVirtualBankRequested(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE users SET virtual_bank_status = $2, virtual_bank_created_at = $3 WHERE id = $1`
	return r.exec(ctx, query, id, models.VirtualBankInProgress, at)
}

func (r *PostgresRepository) SetVirtualBankStatus(ctx context.Context, id string, status models.VirtualBankStatus) error {
	query := `UPDATE users SET virtual_bank_status = $2 WHERE id = $1`
	return r.exec(ctx, query, id, status)
}

// CompleteVirtualBank copies finalized bank details onto the profile and
// stamps completion.
func (r *PostgresRepository) CompleteVirtualBank(ctx context.Context, id string, details *models.BankDetails, at time.Time) error {
	query := `
		UPDATE users SET
			virtual_bank_status = $2,
			virtual_bank_completed_at = $3,
			bank_name = $4, bank_address = $5, account_owner = $6, account_type = $7,
			account_number = $8, routing_number = $9, swift_code = $10
		WHERE id = $1
	`
	return r.exec(ctx, query, id, models.VirtualBankCompleted, at,
		details.BankName, details.BankAddress, details.AccountOwner, details.AccountType,
		details.AccountNumber, details.RoutingNumber, details.SwiftCode)
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
