package httpapi

import (
	"net/http"
	"time"

	"github.com/noverif/noverif/internal/httputil"
	"github.com/noverif/noverif/internal/server/models"
	"github.com/noverif/noverif/internal/server/session"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	user, pair, err := s.users.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, authResponse{
		User:         toUserResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request, role models.Role) {
	var req loginRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	user, pair, err := s.users.Login(r.Context(), req.Email, req.Password, role)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, authResponse{
		User:         toUserResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.login(w, r, models.RoleUser)
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	s.login(w, r, models.RoleAdmin)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	pair, err := s.users.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.users.Logout(ctx, userIDFrom(ctx), accessTokenFrom(ctx)); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSessionState reports the idle-session state without counting as
// activity; the middleware skips the touch for this route.
func (s *Server) handleSessionState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionFrom(ctx)

	state, remaining := session.StateFor(sess.LastActivityAt, time.Now(), s.sessionTimeout(sess.Role))
	httputil.WriteJSON(w, http.StatusOK, sessionResponse{
		State:       string(state),
		RemainingMs: remaining.Milliseconds(),
	})
}

// handleSessionExtend resets the idle clock (WARNING → ACTIVE). The
// middleware already touched the session; reporting the fresh state is all
// that is left.
func (s *Server) handleSessionExtend(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	timeout := s.sessionTimeout(sess.Role)
	httputil.WriteJSON(w, http.StatusOK, sessionResponse{
		State:       string(session.StateActive),
		RemainingMs: timeout.Milliseconds(),
	})
}
