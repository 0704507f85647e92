package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/noverif/noverif/internal/httputil"
)

type submitApplicationRequest struct {
	BusinessName string `json:"businessName"`
	Purpose      string `json:"purpose"`
}

func (s *Server) handleSubmitApplication(w http.ResponseWriter, r *http.Request) {
	var req submitApplicationRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	app, err := s.applications.Submit(ctx, userIDFrom(ctx), req.BusinessName, req.Purpose)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toApplicationResponse(app))
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	apps, err := s.applications.ListByUser(ctx, userIDFrom(ctx))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toApplicationResponses(apps))
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	app, err := s.applications.GetForUser(ctx, mux.Vars(r)["id"], userIDFrom(ctx))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toApplicationResponse(app))
}
