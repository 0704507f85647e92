package applications

import (
	"context"
	"time"

	"github.com/noverif/noverif/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, app *models.ACHApplication) (*models.ACHApplication, error)
	GetByID(ctx context.Context, id string) (*models.ACHApplication, error)
	ListByUser(ctx context.Context, userID string) ([]*models.ACHApplication, error)
	// ListByStatus lists all applications when status is empty.
	ListByStatus(ctx context.Context, status models.ApplicationStatus) ([]*models.ACHApplication, error)
	// HasOpen reports whether the user already has a pending or in_progress
	// application.
	HasOpen(ctx context.Context, userID string) (bool, error)

	// Transition writes. Each is guarded by the expected current status;
	// a zero-row update yields common.ErrInvalidTransition so concurrent
	// admin actions cannot double-apply.
	Approve(ctx context.Context, id string, details *models.BankDetails, at time.Time) error
	Complete(ctx context.Context, id string, details *models.BankDetails, at time.Time) error
	Reject(ctx context.Context, id string, adminNotes string, at time.Time) error
}
