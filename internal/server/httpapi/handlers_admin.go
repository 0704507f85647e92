package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/noverif/noverif/internal/httputil"
	"github.com/noverif/noverif/internal/server/models"
)

func (s *Server) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	list, err := s.users.List(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toUserResponses(list))
}

func (s *Server) handleAdminGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleAdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	id := mux.Vars(r)["id"]
	if err := s.users.UpdateProfile(ctx, id, req.Name, req.Phone, req.Address); err != nil {
		s.respondError(w, r, err)
		return
	}

	user, err := s.users.Get(ctx, id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleAdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdminSuspendUser(w http.ResponseWriter, r *http.Request) {
	if err := s.users.SetSuspended(r.Context(), mux.Vars(r)["id"], true); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdminUnsuspendUser(w http.ResponseWriter, r *http.Request) {
	if err := s.users.SetSuspended(r.Context(), mux.Vars(r)["id"], false); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdminListApplications(w http.ResponseWriter, r *http.Request) {
	status := models.ApplicationStatus(r.URL.Query().Get("status"))
	list, err := s.applications.ListByStatus(r.Context(), status)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toApplicationResponses(list))
}

func (s *Server) handleAdminGetApplication(w http.ResponseWriter, r *http.Request) {
	app, err := s.applications.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toApplicationResponse(app))
}

type bankDetailsRequest struct {
	BankDetails models.BankDetails `json:"bankDetails"`
}

func (s *Server) handleAdminApproveApplication(w http.ResponseWriter, r *http.Request) {
	var req bankDetailsRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	if err := s.applications.Approve(r.Context(), mux.Vars(r)["id"], &req.BankDetails); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdminCompleteApplication(w http.ResponseWriter, r *http.Request) {
	var req bankDetailsRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	if err := s.applications.Complete(r.Context(), mux.Vars(r)["id"], &req.BankDetails); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type rejectApplicationRequest struct {
	AdminNotes string `json:"adminNotes"`
}

func (s *Server) handleAdminRejectApplication(w http.ResponseWriter, r *http.Request) {
	var req rejectApplicationRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	if err := s.applications.Reject(r.Context(), mux.Vars(r)["id"], req.AdminNotes); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdminListTransactions(w http.ResponseWriter, r *http.Request) {
	list, err := s.transactions.ListAll(r.Context(), filterFromQuery(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toTransactionResponses(list))
}

type createTransactionRequest struct {
	UserID          string          `json:"userId"`
	Date            time.Time       `json:"date"`
	Amount          decimal.Decimal `json:"amount"`
	FromSource      string          `json:"from"`
	ToDestination   string          `json:"to"`
	Purpose         string          `json:"purpose"`
	Status          string          `json:"status"`
	Type            string          `json:"type"`
	CryptoType      string          `json:"cryptoType"`
	TransactionHash string          `json:"transactionHash"`
	Notes           string          `json:"notes"`
}

func (s *Server) handleAdminCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}

	txn, err := s.transactions.Create(r.Context(), &models.Transaction{
		UserID:          req.UserID,
		Date:            date,
		Amount:          req.Amount,
		FromSource:      req.FromSource,
		ToDestination:   req.ToDestination,
		Purpose:         req.Purpose,
		Status:          models.TransactionStatus(req.Status),
		Type:            models.TransactionType(req.Type),
		CryptoType:      req.CryptoType,
		TransactionHash: req.TransactionHash,
		Notes:           req.Notes,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toTransactionResponse(txn))
}

type updateTransactionRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

func (s *Server) handleAdminUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req updateTransactionRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	err := s.transactions.UpdateStatusNotes(r.Context(), mux.Vars(r)["id"],
		models.TransactionStatus(req.Status), req.Notes)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdminDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.transactions.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdminListWallets(w http.ResponseWriter, r *http.Request) {
	list, err := s.wallets.ListAll(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toWalletResponses(list))
}

func (s *Server) handleAdminListInvoices(w http.ResponseWriter, r *http.Request) {
	list, err := s.invoices.ListAll(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toInvoiceResponses(list))
}

type broadcastRequest struct {
	Message string `json:"message"`
}

type broadcastResponse struct {
	Recipients int64 `json:"recipients"`
}

func (s *Server) handleAdminBroadcast(w http.ResponseWriter, r *http.Request) {
	var req broadcastRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	count, err := s.notifications.Broadcast(r.Context(), req.Message)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, broadcastResponse{Recipients: count})
}
