package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/noverif/noverif/internal/httputil"
)

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := s.notifications.ListByUser(ctx, userIDFrom(ctx))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toNotificationResponses(list))
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.notifications.MarkRead(ctx, mux.Vars(r)["id"], userIDFrom(ctx)); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.notifications.MarkAllRead(ctx, userIDFrom(ctx)); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
