package users

import (
	"context"
	"time"

	"github.com/noverif/noverif/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	UpdateProfile(ctx context.Context, id, name, phone, address string) error
	UpdatePassword(ctx context.Context, id string, hash []byte) error
	SetSuspended(ctx context.Context, id string, suspended bool) error
	Delete(ctx context.Context, id string) error

	// Virtual-bank mirror written by the ACH application workflow.
	MarkVirtualBankRequested(ctx context.Context, id string, at time.Time) error
	SetVirtualBankStatus(ctx context.Context, id string, status models.VirtualBankStatus) error
	CompleteVirtualBank(ctx context.Context, id string, details *models.BankDetails, at time.Time) error
}
