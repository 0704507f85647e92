package transactions

import (
	"context"

	"github.com/noverif/noverif/internal/server/models"
)

// Filter narrows transaction listings. Zero values mean "no constraint".
type Filter struct {
	Status models.TransactionStatus
	Type   models.TransactionType
}

type Repository interface {
	Create(ctx context.Context, txn *models.Transaction) (*models.Transaction, error)
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	ListByUser(ctx context.Context, userID string, filter Filter) ([]*models.Transaction, error)
	ListAll(ctx context.Context, filter Filter) ([]*models.Transaction, error)
	UpdateStatusNotes(ctx context.Context, id string, status models.TransactionStatus, notes string) error
	Delete(ctx context.Context, id string) error
}
