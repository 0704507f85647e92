package httpapi

import (
	"errors"
	"net/http"

	"github.com/noverif/noverif/internal/common"
	"github.com/noverif/noverif/internal/httputil"
)

// respondError maps service errors onto HTTP statuses. Anything unmatched
// is a 500 with the detail logged, not leaked.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		httputil.BadRequest(w, err.Error())
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired),
		errors.Is(err, common.ErrSessionExpired):
		httputil.Unauthorized(w, err.Error())
	case errors.Is(err, common.ErrUserSuspended),
		errors.Is(err, common.ErrorForbidden):
		httputil.Forbidden(w, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		httputil.NotFound(w, "not found")
	case errors.Is(err, common.ErrorAlreadyExists),
		errors.Is(err, common.ErrOpenApplicationExists),
		errors.Is(err, common.ErrDuplicateWalletAddress),
		errors.Is(err, common.ErrInvalidTransition):
		httputil.Conflict(w, err.Error())
	default:
		s.logger.Error(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		httputil.InternalError(w, "internal error")
	}
}
