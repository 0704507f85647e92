package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/noverif/noverif/internal/common"
	"github.com/noverif/noverif/internal/dbx"
	"github.com/noverif/noverif/internal/server/models"
	"github.com/noverif/noverif/internal/server/repositories/repomanager"
	"github.com/noverif/noverif/internal/server/repositories/transactions"
)

// TransactionService records incoming payments. Users read their own
// history; admins create and manage records on anyone's behalf.
type TransactionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTransactionService(db *sql.DB, m repomanager.RepositoryManager) *TransactionService {
	return &TransactionService{db: db, repomanager: m}
}

func (s *TransactionService) validate(txn *models.Transaction) error {
	if txn.UserID == "" {
		return fmt.Errorf("%w: user id required", common.ErrorValidation)
	}
	if !txn.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", common.ErrorValidation, txn.Status)
	}
	if !txn.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", common.ErrorValidation, txn.Type)
	}
	if txn.Amount.IsNegative() || txn.Amount.IsZero() {
		return fmt.Errorf("%w: amount must be positive", common.ErrorValidation)
	}
	if txn.Type != models.TransactionCrypto && (txn.CryptoType != "" || txn.TransactionHash != "") {
		return fmt.Errorf("%w: crypto fields only allowed on crypto transactions", common.ErrorValidation)
	}
	return nil
}

// Create records a transaction (admin only). A transaction created already
// completed notifies the receiving user.
func (s *TransactionService) Create(ctx context.Context, txn *models.Transaction) (*models.Transaction, error) {
	if err := s.validate(txn); err != nil {
		return nil, err
	}
	if _, err := s.repomanager.Users(s.db).GetByID(ctx, txn.UserID); err != nil {
		return nil, err
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var txErr error
		txn, txErr = s.repomanager.Transactions(tx).Create(ctx, txn)
		if txErr != nil {
			return txErr
		}
		if txn.Status == models.TransactionCompleted {
			_, txErr = s.repomanager.Notifications(tx).Create(ctx, &models.Notification{
				UserID:    txn.UserID,
				Message:   fmt.Sprintf("You received %s from %s.", txn.Amount.StringFixed(2), txn.FromSource),
				Type:      models.NotificationTransaction,
				RelatedID: txn.ID,
			})
		}
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// GetForUser returns the transaction only if it belongs to userID, with the
// admin-only notes blanked.
func (s *TransactionService) GetForUser(ctx context.Context, id, userID string) (*models.Transaction, error) {
	txn, err := s.repomanager.Transactions(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn.UserID != userID {
		return nil, common.ErrorNotFound
	}
	txn.Notes = ""
	return txn, nil
}

// ListByUser returns the user's own transactions, newest first, with
// admin-only notes blanked.
func (s *TransactionService) ListByUser(ctx context.Context, userID string, filter transactions.Filter) ([]*models.Transaction, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}
	list, err := s.repomanager.Transactions(s.db).ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	for _, txn := range list {
		txn.Notes = ""
	}
	return list, nil
}

// ListAll is the admin view across users, notes included.
func (s *TransactionService) ListAll(ctx context.Context, filter transactions.Filter) ([]*models.Transaction, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}
	return s.repomanager.Transactions(s.db).ListAll(ctx, filter)
}

func validateFilter(filter transactions.Filter) error {
	if filter.Status != "" && !filter.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", common.ErrorValidation, filter.Status)
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", common.ErrorValidation, filter.Type)
	}
	return nil
}

// UpdateStatusNotes changes a transaction's settlement state and admin
// notes. Moving it to completed notifies the user.
func (s *TransactionService) UpdateStatusNotes(ctx context.Context, id string, status models.TransactionStatus, notes string) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", common.ErrorValidation, status)
	}

	txn, err := s.repomanager.Transactions(s.db).GetByID(ctx, id)
	if err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Transactions(tx).UpdateStatusNotes(ctx, id, status, notes); err != nil {
			return err
		}
		if status == models.TransactionCompleted && txn.Status != models.TransactionCompleted {
			_, err := s.repomanager.Notifications(tx).Create(ctx, &models.Notification{
				UserID:    txn.UserID,
				Message:   fmt.Sprintf("You received %s from %s.", txn.Amount.StringFixed(2), txn.FromSource),
				Type:      models.NotificationTransaction,
				RelatedID: txn.ID,
			})
			return err
		}
		return nil
	})
}

func (s *TransactionService) Delete(ctx context.Context, id string) error {
	return s.repomanager.Transactions(s.db).Delete(ctx, id)
}
