package notifications

import (
	"context"

	"github.com/noverif/noverif/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, n *models.Notification) (*models.Notification, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
	// Broadcast creates one system notification for every active
	// (non-suspended) regular user and returns how many were created.
	Broadcast(ctx context.Context, message string) (int64, error)
}
