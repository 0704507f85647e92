package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/noverif/noverif/internal/common"
	"github.com/noverif/noverif/internal/dbx"
	"github.com/noverif/noverif/internal/metrics"
	"github.com/noverif/noverif/internal/server/models"
	"github.com/noverif/noverif/internal/server/repositories/repomanager"
)

// ApplicationService drives the ACH virtual-bank-account workflow:
// user submission and the admin approve/complete/reject transitions.
// Every transition writes the application, the user's virtual-bank mirror,
// and the notification in one transaction.
type ApplicationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewApplicationService(db *sql.DB, m repomanager.RepositoryManager) *ApplicationService {
	return &ApplicationService{db: db, repomanager: m}
}

// Submit files a new application. Purpose is required; one open
// (pending or in_progress) application per user is allowed.
//
// The user's profile mirror goes straight to in_progress even though the
// application itself starts pending, so the dashboard shows "setup under
// way" from the moment of submission.
func (s *ApplicationService) Submit(ctx context.Context, userID, businessName, purpose string) (*models.ACHApplication, error) {
	purpose = strings.TrimSpace(purpose)
	if purpose == "" {
		return nil, fmt.Errorf("%w: purpose required", common.ErrorValidation)
	}

	open, err := s.repomanager.Applications(s.db).HasOpen(ctx, userID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, common.ErrOpenApplicationExists
	}

	var app *models.ACHApplication
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var txErr error
		app, txErr = s.repomanager.Applications(tx).Create(ctx, &models.ACHApplication{
			UserID:       userID,
			BusinessName: strings.TrimSpace(businessName),
			Purpose:      purpose,
		})
		if txErr != nil {
			return txErr
		}
		return s.repomanager.Users(tx).MarkVirtualBankRequested(ctx, userID, app.CreatedAt)
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordACHTransition(string(models.ApplicationPending))
	return app, nil
}

// GetForUser returns the application only if it belongs to userID.
// Foreign applications yield common.ErrorNotFound, not forbidden, so ids
// cannot be probed.
func (s *ApplicationService) GetForUser(ctx context.Context, id, userID string) (*models.ACHApplication, error) {
	app, err := s.repomanager.Applications(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return app, nil
}

func (s *ApplicationService) Get(ctx context.Context, id string) (*models.ACHApplication, error) {
	return s.repomanager.Applications(s.db).GetByID(ctx, id)
}

func (s *ApplicationService) ListByUser(ctx context.Context, userID string) ([]*models.ACHApplication, error) {
	return s.repomanager.Applications(s.db).ListByUser(ctx, userID)
}

// ListByStatus lists the admin queue; empty status means all.
func (s *ApplicationService) ListByStatus(ctx context.Context, status models.ApplicationStatus) ([]*models.ACHApplication, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", common.ErrorValidation, status)
	}
	return s.repomanager.Applications(s.db).ListByStatus(ctx, status)
}

// Approve moves a pending application to in_progress and attaches validated
// bank details.
func (s *ApplicationService) Approve(ctx context.Context, id string, details *models.BankDetails) error {
	if err := details.Validate(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	app, err := s.repomanager.Applications(s.db).GetByID(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now()
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Applications(tx).Approve(ctx, id, details, now); err != nil {
			return err
		}
		if err := s.repomanager.Users(tx).SetVirtualBankStatus(ctx, app.UserID, models.VirtualBankInProgress); err != nil {
			return err
		}
		_, err := s.repomanager.Notifications(tx).Create(ctx, &models.Notification{
			UserID:    app.UserID,
			Message:   "Your virtual bank account application has been approved and is being processed.",
			Type:      models.NotificationACH,
			RelatedID: id,
		})
		return err
	})
	if err != nil {
		return err
	}

	metrics.RecordACHTransition(string(models.ApplicationInProgress))
	return nil
}

// Complete moves an in_progress application to completed and copies the
// final bank details onto the user's profile.
func (s *ApplicationService) Complete(ctx context.Context, id string, details *models.BankDetails) error {
	if err := details.Validate(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	app, err := s.repomanager.Applications(s.db).GetByID(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now()
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Applications(tx).Complete(ctx, id, details, now); err != nil {
			return err
		}
		if err := s.repomanager.Users(tx).CompleteVirtualBank(ctx, app.UserID, details, now); err != nil {
			return err
		}
		_, err := s.repomanager.Notifications(tx).Create(ctx, &models.Notification{
			UserID:    app.UserID,
			Message:   "Your virtual bank account is ready. Bank details are now available on your profile.",
			Type:      models.NotificationACH,
			RelatedID: id,
		})
		return err
	})
	if err != nil {
		return err
	}

	metrics.RecordACHTransition(string(models.ApplicationCompleted))
	return nil
}

// Reject moves a pending or in_progress application to rejected. Existing
// bank details on the application are left untouched.
func (s *ApplicationService) Reject(ctx context.Context, id, adminNotes string) error {
	app, err := s.repomanager.Applications(s.db).GetByID(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now()
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Applications(tx).Reject(ctx, id, adminNotes, now); err != nil {
			return err
		}
		if err := s.repomanager.Users(tx).SetVirtualBankStatus(ctx, app.UserID, models.VirtualBankRejected); err != nil {
			return err
		}
		_, err := s.repomanager.Notifications(tx).Create(ctx, &models.Notification{
			UserID:    app.UserID,
			Message:   "Your virtual bank account application was rejected.",
			Type:      models.NotificationACH,
			RelatedID: id,
		})
		return err
	})
	if err != nil {
		return err
	}

	metrics.RecordACHTransition(string(models.ApplicationRejected))
	return nil
}
