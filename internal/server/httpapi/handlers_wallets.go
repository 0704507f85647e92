package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/noverif/noverif/internal/httputil"
)

type connectWalletRequest struct {
	Type    string `json:"type"`
	Address string `json:"address"`
	Name    string `json:"name"`
}

func (s *Server) handleConnectWallet(w http.ResponseWriter, r *http.Request) {
	var req connectWalletRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	wallet, err := s.wallets.Connect(ctx, userIDFrom(ctx), req.Type, req.Address, req.Name)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toWalletResponse(wallet))
}

func (s *Server) handleListWallets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := s.wallets.ListByUser(ctx, userIDFrom(ctx))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toWalletResponses(list))
}

type renameWalletRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleRenameWallet(w http.ResponseWriter, r *http.Request) {
	var req renameWalletRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	if err := s.wallets.Rename(ctx, mux.Vars(r)["id"], userIDFrom(ctx), req.Name); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDisconnectWallet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.wallets.Disconnect(ctx, mux.Vars(r)["id"], userIDFrom(ctx)); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
