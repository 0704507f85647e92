// Package applications provides the PostgreSQL-backed repository for ACH
// virtual-bank-account applications and their status transitions.
package applications

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

// PostgresRepository implements application storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const appColumns = `id, user_id, business_name, purpose, status, admin_notes,
	bank_name, bank_address, account_owner, account_type, account_number, routing_number, swift_code,
	created_at, approved_at, completed_at, rejected_at`

func scanApplication(row interface{ Scan(...any) error }) (*models.ACHApplication, error) {
	app := &models.ACHApplication{}
	var approved, completed, rejected sql.NullTime
	var bankName, bankAddr, owner, acctType, acctNum, routing, swift sql.NullString
	err := row.Scan(
		&app.ID, &app.UserID, &app.BusinessName, &app.Purpose, &app.Status, &app.AdminNotes,
		&bankName, &bankAddr, &owner, &acctType, &acctNum, &routing, &swift,
		&app.CreatedAt, &approved, &completed, &rejected,
	)
	if err != nil {
		return nil, err
	}
	if approved.Valid {
		app.ApprovedAt = &approved.Time
	}
	if completed.Valid {
		app.CompletedAt = &completed.Time
	}
	if rejected.Valid {
		app.RejectedAt = &rejected.Time
	}
	if acctNum.Valid && acctNum.String != "" {
		app.BankDetails = &models.BankDetails{
			BankName:      bankName.String,
			BankAddress:   bankAddr.String,
			AccountOwner:  owner.String,
			AccountType:   models.AccountType(acctType.String),
			AccountNumber: acctNum.String,
			RoutingNumber: routing.String,
			SwiftCode:     swift.String,
		}
	}
	return app, nil
}

func (r *PostgresRepository) Create(ctx context.Context, app *models.ACHApplication) (*models.ACHApplication, error) {
	query := `
		INSERT INTO ach_applications (user_id, business_name, purpose, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		app.UserID, app.BusinessName, app.Purpose, models.ApplicationPending).
		Scan(&app.ID, &app.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	app.Status = models.ApplicationPending
	return app, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.ACHApplication, error) {
	query := `SELECT ` + appColumns + ` FROM ach_applications WHERE id = $1`
	app, err := scanApplication(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return app, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.ACHApplication, error) {
	query := `SELECT ` + appColumns + ` FROM ach_applications WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) ListByStatus(ctx context.Context, status models.ApplicationStatus) ([]*models.ACHApplication, error) {
	if status == "" {
		query := `SELECT ` + appColumns + ` FROM ach_applications ORDER BY created_at DESC`
		return r.list(ctx, query)
	}
	query := `SELECT ` + appColumns + ` FROM ach_applications WHERE status = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, status)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.ACHApplication, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.ACHApplication
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, app)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) HasOpen(ctx context.Context, userID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM ach_applications
			WHERE user_id = $1 AND status IN ($2, $3)
		)
	`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, userID,
		models.ApplicationPending, models.ApplicationInProgress).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) Approve(ctx context.Context, id string, details *models.BankDetails, at time.Time) error {
	query := `
		UPDATE ach_applications SET
			status = $2, approved_at = $3,
			bank_name = $4, bank_address = $5, account_owner = $6, account_type = $7,
			account_number = $8, routing_number = $9, swift_code = $10
		WHERE id = $1 AND status = $11
	`
	return r.transition(ctx, query, id, models.ApplicationInProgress, at,
		details.BankName, details.BankAddress, details.AccountOwner, details.AccountType,
		details.AccountNumber, details.RoutingNumber, details.SwiftCode,
		models.ApplicationPending)
}

func (r *PostgresRepository) Complete(ctx context.Context, id string, details *models.BankDetails, at time.Time) error {
	query := `
		UPDATE ach_applications SET
			status = $2, completed_at = $3,
			bank_name = $4, bank_address = $5, account_owner = $6, account_type = $7,
			account_number = $8, routing_number = $9, swift_code = $10
		WHERE id = $1 AND status = $11
	`
	return r.transition(ctx, query, id, models.ApplicationCompleted, at,
		details.BankName, details.BankAddress, details.AccountOwner, details.AccountType,
		details.AccountNumber, details.RoutingNumber, details.SwiftCode,
		models.ApplicationInProgress)
}

// Reject leaves any previously written bank details untouched.
func (r *PostgresRepository) Reject(ctx context.Context, id string, adminNotes string, at time.Time) error {
	query := `
		UPDATE ach_applications SET status = $2, rejected_at = $3, admin_notes = $4
		WHERE id = $1 AND status IN ($5, $6)
	`
	return r.transition(ctx, query, id, models.ApplicationRejected, at, adminNotes,
		models.ApplicationPending, models.ApplicationInProgress)
}

func (r *PostgresRepository) transition(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrInvalidTransition
	}
	return nil
}
