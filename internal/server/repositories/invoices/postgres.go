// Package invoices provides the PostgreSQL-backed repository for client
// invoices and their line items.
package invoices

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

// PostgresRepository implements invoice storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const invoiceColumns = `id, user_id, invoice_number, client_name, client_email, client_address,
	issue_date, due_date, subtotal, tax, total, status, recurrence, notes, storage_key, created_at`

func scanInvoice(row interface{ Scan(...any) error }) (*models.Invoice, error) {
	inv := &models.Invoice{}
	err := row.Scan(
		&inv.ID, &inv.UserID, &inv.InvoiceNumber, &inv.ClientName, &inv.ClientEmail, &inv.ClientAddress,
		&inv.IssueDate, &inv.DueDate, &inv.Subtotal, &inv.Tax, &inv.Total,
		&inv.Status, &inv.Recurrence, &inv.Notes, &inv.StorageKey, &inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *PostgresRepository) Create(ctx context.Context, inv *models.Invoice) (*models.Invoice, error) {
	query := `
		INSERT INTO invoices (user_id, invoice_number, client_name, client_email, client_address,
			issue_date, due_date, subtotal, tax, total, status, recurrence, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		inv.UserID, inv.InvoiceNumber, inv.ClientName, inv.ClientEmail, inv.ClientAddress,
		inv.IssueDate, inv.DueDate, inv.Subtotal, inv.Tax, inv.Total,
		inv.Status, inv.Recurrence, inv.Notes).
		Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := r.insertItems(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *PostgresRepository) insertItems(ctx context.Context, inv *models.Invoice) error {
	query := `
		INSERT INTO invoice_items (invoice_id, position, description, quantity, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	for i := range inv.Items {
		item := &inv.Items[i]
		item.InvoiceID = inv.ID
		item.Position = i
		err := r.db.QueryRowContext(ctx, query,
			inv.ID, i, item.Description, item.Quantity, item.Price).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) loadItems(ctx context.Context, inv *models.Invoice) error {
	query := `
		SELECT id, invoice_id, position, description, quantity, price
		FROM invoice_items WHERE invoice_id = $1 ORDER BY position
	`
	rows, err := r.db.QueryContext(ctx, query, inv.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.LineItem
		if err := rows.Scan(
			&item.ID, &item.InvoiceID, &item.Position, &item.Description, &item.Quantity, &item.Price,
		); err != nil {
			return err
		}
		inv.Items = append(inv.Items, item)
	}
	return rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := scanInvoice(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := r.loadItems(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE user_id = $1 ORDER BY issue_date DESC, invoice_number DESC`
	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY issue_date DESC, invoice_number DESC`
	return r.list(ctx, query)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Invoice, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, inv := range result {
		if err := r.loadItems(ctx, inv); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, inv *models.Invoice) error {
	query := `
		UPDATE invoices SET
			invoice_number = $3, client_name = $4, client_email = $5, client_address = $6,
			issue_date = $7, due_date = $8, subtotal = $9, tax = $10, total = $11,
			status = $12, recurrence = $13, notes = $14
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query,
		inv.ID, inv.UserID, inv.InvoiceNumber, inv.ClientName, inv.ClientEmail, inv.ClientAddress,
		inv.IssueDate, inv.DueDate, inv.Subtotal, inv.Tax, inv.Total,
		inv.Status, inv.Recurrence, inv.Notes)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, inv.ID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return r.insertItems(ctx, inv)
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1 AND user_id = $2`, id, userID)
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

func (r *PostgresRepository) SetStorageKey(ctx context.Context, id, storageKey string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE invoices SET storage_key = $2 WHERE id = $1`, id, storageKey)
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

// ListRecurringDue returns recurring invoices whose next issue date has
// arrived: the invoice recurs and its issue date advanced by one period is
// not after asOf.
func (r *PostgresRepository) ListRecurringDue(ctx context.Context, asOf time.Time) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices
		WHERE recurrence <> ''
		  AND (CASE recurrence
				WHEN 'monthly' THEN issue_date + INTERVAL '1 month'
				WHEN 'quarterly' THEN issue_date + INTERVAL '3 months'
				WHEN 'yearly' THEN issue_date + INTERVAL '1 year'
			   END) <= $1`
	return r.list(ctx, query, asOf)
}

// MarkOverdue flips sent invoices past their due date to overdue.
func (r *PostgresRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	query := `UPDATE invoices SET status = $1 WHERE status = $2 AND due_date < $3`
	res, err := r.db.ExecContext(ctx, query, models.InvoiceOverdue, models.InvoiceSent, asOf)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.RowsAffected()
}
