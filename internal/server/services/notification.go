package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/noverif/noverif/internal/common"
	"github.com/noverif/noverif/internal/server/models"
	"github.com/noverif/noverif/internal/server/repositories/repomanager"
)

// NotificationService exposes the user notification feed and the admin
// broadcast. Workflow notifications are written by the services that own
// the triggering transaction, not here.
type NotificationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewNotificationService(db *sql.DB, m repomanager.RepositoryManager) *NotificationService {
	return &NotificationService{db: db, repomanager: m}
}

// ListByUser returns the user's notifications, unread first.
func (s *NotificationService) ListByUser(ctx context.Context, userID string) ([]*models.Notification, error) {
	return s.repomanager.Notifications(s.db).ListByUser(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	return s.repomanager.Notifications(s.db).MarkRead(ctx, id, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.repomanager.Notifications(s.db).MarkAllRead(ctx, userID)
}

// Broadcast sends a system notification to every active regular user and
// returns how many were created.
func (s *NotificationService) Broadcast(ctx context.Context, message string) (int64, error) {
	if strings.TrimSpace(message) == "" {
		return 0, fmt.Errorf("%w: message required", common.ErrorValidation)
	}
	return s.repomanager.Notifications(s.db).Broadcast(ctx, message)
}
