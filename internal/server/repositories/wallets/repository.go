package wallets

import (
	"context"

	"github.com/noverif/noverif/internal/server/models"
)

type Repository interface {
	// Create inserts a wallet. A per-user case-insensitive address collision
	// yields common.ErrorAlreadyExists and no row.
	Create(ctx context.Context, wallet *models.Wallet) (*models.Wallet, error)
	GetByID(ctx context.Context, id string) (*models.Wallet, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Wallet, error)
	ListAll(ctx context.Context) ([]*models.Wallet, error)
	Rename(ctx context.Context, id, userID, name string) error
	Delete(ctx context.Context, id, userID string) error
}
