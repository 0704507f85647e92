package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/noverif/noverif/internal/httputil"
	"github.com/noverif/noverif/internal/server/models"
	"github.com/noverif/noverif/internal/server/repositories/transactions"
)

func filterFromQuery(r *http.Request) transactions.Filter {
	q := r.URL.Query()
	return transactions.Filter{
		Status: models.TransactionStatus(q.Get("status")),
		Type:   models.TransactionType(q.Get("type")),
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := s.transactions.ListByUser(ctx, userIDFrom(ctx), filterFromQuery(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toTransactionResponses(list))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	txn, err := s.transactions.GetForUser(ctx, mux.Vars(r)["id"], userIDFrom(ctx))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toTransactionResponse(txn))
}
