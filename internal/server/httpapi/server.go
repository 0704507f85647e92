// Package httpapi exposes the JSON HTTP API: the public auth endpoints, the
// authenticated user surface, and the parallel admin surface.
package httpapi

import (
	"database/sql"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/noverif/noverif/internal/logging"
	"github.com/noverif/noverif/internal/metrics"
	"github.com/noverif/noverif/internal/server/config"
	"github.com/noverif/noverif/internal/server/repositories/repomanager"
	"github.com/noverif/noverif/internal/server/services"
)

// Server bundles the services behind the HTTP handlers.
type Server struct {
	cfg         *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager

	users         *services.UserService
	applications  *services.ApplicationService
	wallets       *services.WalletService
	transactions  *services.TransactionService
	invoices      *services.InvoiceService
	notifications *services.NotificationService
}

func NewServer(
	cfg *config.Config,
	logger logging.Logger,
	db *sql.DB,
	m repomanager.RepositoryManager,
	users *services.UserService,
	applications *services.ApplicationService,
	wallets *services.WalletService,
	transactions *services.TransactionService,
	invoices *services.InvoiceService,
	notifications *services.NotificationService,
) *Server {
	return &Server{
		cfg:           cfg,
		logger:        logger.With("component", "httpapi"),
		db:            db,
		repomanager:   m,
		users:         users,
		applications:  applications,
		wallets:       wallets,
		transactions:  transactions,
		invoices:      invoices,
		notifications: notifications,
	}
}

// Router builds the full route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.corsMiddleware, s.loggingMiddleware, s.metricsMiddleware)

	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// Public endpoints.
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", s.handleRefresh).Methods(http.MethodPost)
	api.HandleFunc("/admin/auth/login", s.handleAdminLogin).Methods(http.MethodPost)

	// Authenticated user surface.
	user := api.NewRoute().Subrouter()
	user.Use(s.authMiddleware)

	user.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)
	user.HandleFunc("/session", s.handleSessionState).Methods(http.MethodGet)
	user.HandleFunc("/session/extend", s.handleSessionExtend).Methods(http.MethodPost)

	user.HandleFunc("/profile", s.handleGetProfile).Methods(http.MethodGet)
	user.HandleFunc("/profile", s.handleUpdateProfile).Methods(http.MethodPut)
	user.HandleFunc("/profile/password", s.handleChangePassword).Methods(http.MethodPut)

	user.HandleFunc("/applications", s.handleSubmitApplication).Methods(http.MethodPost)
	user.HandleFunc("/applications", s.handleListApplications).Methods(http.MethodGet)
	user.HandleFunc("/applications/{id}", s.handleGetApplication).Methods(http.MethodGet)

	user.HandleFunc("/wallets", s.handleConnectWallet).Methods(http.MethodPost)
	user.HandleFunc("/wallets", s.handleListWallets).Methods(http.MethodGet)
	user.HandleFunc("/wallets/{id}", s.handleRenameWallet).Methods(http.MethodPut)
	user.HandleFunc("/wallets/{id}", s.handleDisconnectWallet).Methods(http.MethodDelete)

	user.HandleFunc("/transactions", s.handleListTransactions).Methods(http.MethodGet)
	user.HandleFunc("/transactions/{id}", s.handleGetTransaction).Methods(http.MethodGet)

	user.HandleFunc("/invoices", s.handleCreateInvoice).Methods(http.MethodPost)
	user.HandleFunc("/invoices", s.handleListInvoices).Methods(http.MethodGet)
	user.HandleFunc("/invoices/{id}", s.handleGetInvoice).Methods(http.MethodGet)
	user.HandleFunc("/invoices/{id}", s.handleUpdateInvoice).Methods(http.MethodPut)
	user.HandleFunc("/invoices/{id}", s.handleDeleteInvoice).Methods(http.MethodDelete)
	user.HandleFunc("/invoices/{id}/pdf", s.handleInvoicePDF).Methods(http.MethodGet)
	user.HandleFunc("/invoices/{id}/archive", s.handleArchiveInvoice).Methods(http.MethodPost)

	user.HandleFunc("/notifications", s.handleListNotifications).Methods(http.MethodGet)
	user.HandleFunc("/notifications/read-all", s.handleMarkAllNotificationsRead).Methods(http.MethodPost)
	user.HandleFunc("/notifications/{id}/read", s.handleMarkNotificationRead).Methods(http.MethodPost)

	// Admin surface.
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(s.authMiddleware, s.requireAdmin)

	admin.HandleFunc("/users", s.handleAdminListUsers).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}", s.handleAdminGetUser).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}", s.handleAdminUpdateUser).Methods(http.MethodPut)
	admin.HandleFunc("/users/{id}", s.handleAdminDeleteUser).Methods(http.MethodDelete)
	admin.HandleFunc("/users/{id}/suspend", s.handleAdminSuspendUser).Methods(http.MethodPost)
	admin.HandleFunc("/users/{id}/unsuspend", s.handleAdminUnsuspendUser).Methods(http.MethodPost)

	admin.HandleFunc("/applications", s.handleAdminListApplications).Methods(http.MethodGet)
	admin.HandleFunc("/applications/{id}", s.handleAdminGetApplication).Methods(http.MethodGet)
	admin.HandleFunc("/applications/{id}/approve", s.handleAdminApproveApplication).Methods(http.MethodPost)
	admin.HandleFunc("/applications/{id}/complete", s.handleAdminCompleteApplication).Methods(http.MethodPost)
	admin.HandleFunc("/applications/{id}/reject", s.handleAdminRejectApplication).Methods(http.MethodPost)

	admin.HandleFunc("/transactions", s.handleAdminListTransactions).Methods(http.MethodGet)
	admin.HandleFunc("/transactions", s.handleAdminCreateTransaction).Methods(http.MethodPost)
	admin.HandleFunc("/transactions/{id}", s.handleAdminUpdateTransaction).Methods(http.MethodPut)
	admin.HandleFunc("/transactions/{id}", s.handleAdminDeleteTransaction).Methods(http.MethodDelete)

	admin.HandleFunc("/wallets", s.handleAdminListWallets).Methods(http.MethodGet)
	admin.HandleFunc("/invoices", s.handleAdminListInvoices).Methods(http.MethodGet)
	admin.HandleFunc("/notifications/broadcast", s.handleAdminBroadcast).Methods(http.MethodPost)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		http.Error(w, "db unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
