package invoices

import (
	"context"
	"time"

	"github.com/noverif/noverif/internal/server/models"
)

type Repository interface {
	// Create inserts the invoice and its line items. Run it inside a
	// transaction so the rows land together. A duplicate
	// (user, invoice number) yields common.ErrorAlreadyExists.
	Create(ctx context.Context, inv *models.Invoice) (*models.Invoice, error)
	GetByID(ctx context.Context, id string) (*models.Invoice, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Invoice, error)
	ListAll(ctx context.Context) ([]*models.Invoice, error)
	// Update replaces the invoice head fields and all line items.
	Update(ctx context.Context, inv *models.Invoice) error
	Delete(ctx context.Context, id, userID string) error
	SetStorageKey(ctx context.Context, id, storageKey string) error

	// Recurrence/overdue sweeps used by the scheduler.
	ListRecurringDue(ctx context.Context, asOf time.Time) ([]*models.Invoice, error)
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}
