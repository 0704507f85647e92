// Package repomanager wires concrete repository implementations together
// behind a single factory, so services can request repositories bound to
// either the shared pool or an open transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/noverif/noverif/internal/dbx"
	"github.com/noverif/noverif/internal/server/repositories/applications"
	"github.com/noverif/noverif/internal/server/repositories/invoices"
	"github.com/noverif/noverif/internal/server/repositories/notifications"
	"github.com/noverif/noverif/internal/server/repositories/refreshtokens"
	"github.com/noverif/noverif/internal/server/repositories/sessions"
	"github.com/noverif/noverif/internal/server/repositories/transactions"
	"github.com/noverif/noverif/internal/server/repositories/users"
	"github.com/noverif/noverif/internal/server/repositories/wallets"
)

// RepositoryManager creates repositories over a DBTX, which may be the
// shared *sql.DB or a *sql.Tx from dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Applications(db dbx.DBTX) applications.Repository
	Wallets(db dbx.DBTX) wallets.Repository
	Transactions(db dbx.DBTX) transactions.Repository
	Invoices(db dbx.DBTX) invoices.Repository
	Notifications(db dbx.DBTX) notifications.Repository
}
