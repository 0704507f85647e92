package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/noverif/noverif/internal/dbx"
	"github.com/noverif/noverif/internal/server/models"
	applicationsrepo "github.com/noverif/noverif/internal/server/repositories/applications"
	invoicesrepo "github.com/noverif/noverif/internal/server/repositories/invoices"
	notificationsrepo "github.com/noverif/noverif/internal/server/repositories/notifications"
	refreshtokensrepo "github.com/noverif/noverif/internal/server/repositories/refreshtokens"
	sessionsrepo "github.com/noverif/noverif/internal/server/repositories/sessions"
	transactionsrepo "github.com/noverif/noverif/internal/server/repositories/transactions"
	usersrepo "github.com/noverif/noverif/internal/server/repositories/users"
	walletsrepo "github.com/noverif/noverif/internal/server/repositories/wallets"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// fakeRepoManager hands out fixed fakes regardless of the DBTX, so service
// logic can be tested with transactions mocked at the *sql.DB level.
type fakeRepoManager struct {
	users         usersrepo.Repository
	sessions      sessionsrepo.Repository
	refreshTokens refreshtokensrepo.Repository
	applications  applicationsrepo.Repository
	wallets       walletsrepo.Repository
	transactions  transactionsrepo.Repository
	invoices      invoicesrepo.Repository
	notifications notificationsrepo.Repository
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository          { return m.users }
func (m *fakeRepoManager) Sessions(dbx.DBTX) sessionsrepo.Repository    { return m.sessions }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokensrepo.Repository {
	return m.refreshTokens
}
func (m *fakeRepoManager) Applications(dbx.DBTX) applicationsrepo.Repository {
	return m.applications
}
func (m *fakeRepoManager) Wallets(dbx.DBTX) walletsrepo.Repository           { return m.wallets }
func (m *fakeRepoManager) Transactions(dbx.DBTX) transactionsrepo.Repository { return m.transactions }
func (m *fakeRepoManager) Invoices(dbx.DBTX) invoicesrepo.Repository         { return m.invoices }
func (m *fakeRepoManager) Notifications(dbx.DBTX) notificationsrepo.Repository {
	return m.notifications
}

// fakeUsersRepo embeds the interface so only the methods a test exercises
// need real bodies.
type fakeUsersRepo struct {
	usersrepo.Repository

	createOut *models.User
	createErr error

	byEmailOut *models.User
	byEmailErr error

	byIDOut *models.User
	byIDErr error

	markRequestedCalls []string
	setStatusCalls     []models.VirtualBankStatus
	completeCalls      []*models.BankDetails
	suspendedCalls     []bool
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	u.ID = "u-new"
	u.CreatedAt = time.Now()
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.byEmailErr != nil {
		return nil, f.byEmailErr
	}
	return f.byEmailOut, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byIDOut, nil
}

func (f *fakeUsersRepo) MarkVirtualBankRequested(ctx context.Context, id string, at time.Time) error {
	f.markRequestedCalls = append(f.markRequestedCalls, id)
	return nil
}

func (f *fakeUsersRepo) SetVirtualBankStatus(ctx context.Context, id string, status models.VirtualBankStatus) error {
	f.setStatusCalls = append(f.setStatusCalls, status)
	return nil
}

func (f *fakeUsersRepo) CompleteVirtualBank(ctx context.Context, id string, details *models.BankDetails, at time.Time) error {
	f.completeCalls = append(f.completeCalls, details)
	return nil
}

func (f *fakeUsersRepo) SetSuspended(ctx context.Context, id string, suspended bool) error {
	f.suspendedCalls = append(f.suspendedCalls, suspended)
	return nil
}

type fakeSessionsRepo struct {
	sessionsrepo.Repository

	created   []*models.Session
	createErr error

	deletedHashes []string
}

func (f *fakeSessionsRepo) Create(ctx context.Context, s *models.Session) (*models.Session, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	s.ID = "sess-1"
	s.CreatedAt = time.Now()
	f.created = append(f.created, s)
	return s, nil
}

func (f *fakeSessionsRepo) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	f.deletedHashes = append(f.deletedHashes, tokenHash)
	return nil
}

type fakeRefreshRepo struct {
	refreshtokensrepo.Repository

	findOut *models.RefreshToken
	findErr error

	created        []string
	deleted        []string
	deletedForUser []string
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID, token string, validity time.Duration) error {
	f.created = append(f.created, token)
	return nil
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	f.deleted = append(f.deleted, token)
	return nil
}

func (f *fakeRefreshRepo) DeleteForUser(ctx context.Context, userID string) error {
	f.deletedForUser = append(f.deletedForUser, userID)
	return nil
}

type fakeApplicationsRepo struct {
	applicationsrepo.Repository

	hasOpenOut bool
	hasOpenErr error

	byIDOut *models.ACHApplication
	byIDErr error

	createErr   error
	approveErr  error
	completeErr error
	rejectErr   error

	approved  []string
	completed []string
	rejected  []string
}

func (f *fakeApplicationsRepo) Create(ctx context.Context, app *models.ACHApplication) (*models.ACHApplication, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	app.ID = "app-1"
	app.Status = models.ApplicationPending
	app.CreatedAt = time.Now()
	return app, nil
}

func (f *fakeApplicationsRepo) GetByID(ctx context.Context, id string) (*models.ACHApplication, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byIDOut, nil
}

func (f *fakeApplicationsRepo) HasOpen(ctx context.Context, userID string) (bool, error) {
	return f.hasOpenOut, f.hasOpenErr
}

func (f *fakeApplicationsRepo) Approve(ctx context.Context, id string, details *models.BankDetails, at time.Time) error {
	if f.approveErr != nil {
		return f.approveErr
	}
	f.approved = append(f.approved, id)
	return nil
}

func (f *fakeApplicationsRepo) Complete(ctx context.Context, id string, details *models.BankDetails, at time.Time) error {
	if f.completeErr != nil {
		return f.completeErr
	}
	f.completed = append(f.completed, id)
	return nil
}

func (f *fakeApplicationsRepo) Reject(ctx context.Context, id string, adminNotes string, at time.Time) error {
	if f.rejectErr != nil {
		return f.rejectErr
	}
	f.rejected = append(f.rejected, id)
	return nil
}

type fakeWalletsRepo struct {
	walletsrepo.Repository

	createOut *models.Wallet
	createErr error
}

func (f *fakeWalletsRepo) Create(ctx context.Context, w *models.Wallet) (*models.Wallet, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	w.ID = "w-1"
	w.ConnectedAt = time.Now()
	return w, nil
}

type fakeTransactionsRepo struct {
	transactionsrepo.Repository

	byIDOut *models.Transaction
	byIDErr error

	createErr error
	updated   []models.TransactionStatus
}

func (f *fakeTransactionsRepo) Create(ctx context.Context, txn *models.Transaction) (*models.Transaction, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	txn.ID = "t-1"
	txn.CreatedAt = time.Now()
	return txn, nil
}

func (f *fakeTransactionsRepo) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byIDOut, nil
}

func (f *fakeTransactionsRepo) UpdateStatusNotes(ctx context.Context, id string, status models.TransactionStatus, notes string) error {
	f.updated = append(f.updated, status)
	return nil
}

type fakeInvoicesRepo struct {
	invoicesrepo.Repository

	createErr error
	created   []*models.Invoice

	byIDOut *models.Invoice
	byIDErr error

	recurringDue []*models.Invoice
	updated      []*models.Invoice
}

func (f *fakeInvoicesRepo) Create(ctx context.Context, inv *models.Invoice) (*models.Invoice, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	inv.ID = "inv-new"
	inv.CreatedAt = time.Now()
	f.created = append(f.created, inv)
	return inv, nil
}

func (f *fakeInvoicesRepo) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byIDOut, nil
}

func (f *fakeInvoicesRepo) ListRecurringDue(ctx context.Context, asOf time.Time) ([]*models.Invoice, error) {
	return f.recurringDue, nil
}

func (f *fakeInvoicesRepo) Update(ctx context.Context, inv *models.Invoice) error {
	f.updated = append(f.updated, inv)
	return nil
}

type fakeNotificationsRepo struct {
	notificationsrepo.Repository

	created      []*models.Notification
	createErr    error
	broadcastOut int64
}

func (f *fakeNotificationsRepo) Create(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	n.ID = "n-1"
	n.CreatedAt = time.Now()
	f.created = append(f.created, n)
	return n, nil
}

func (f *fakeNotificationsRepo) Broadcast(ctx context.Context, message string) (int64, error) {
	return f.broadcastOut, nil
}
