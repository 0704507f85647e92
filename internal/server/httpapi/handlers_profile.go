package httpapi

import (
	"net/http"

	"github.com/noverif/noverif/internal/httputil"
)

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.Get(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

type updateProfileRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	if err := s.users.UpdateProfile(ctx, userIDFrom(ctx), req.Name, req.Phone, req.Address); err != nil {
		s.respondError(w, r, err)
		return
	}

	user, err := s.users.Get(ctx, userIDFrom(ctx))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	if err := s.users.ChangePassword(ctx, userIDFrom(ctx), req.CurrentPassword, req.NewPassword); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
