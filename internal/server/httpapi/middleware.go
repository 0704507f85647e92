package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/noverif/noverif/internal/common"
	"github.com/noverif/noverif/internal/httputil"
	"github.com/noverif/noverif/internal/metrics"
	"github.com/noverif/noverif/internal/server/auth"
	"github.com/noverif/noverif/internal/server/models"
	"github.com/noverif/noverif/internal/server/session"
)

type ctxKey int

const (
	ctxKeyUserID ctxKey = iota
	ctxKeyRole
	ctxKeyAccessToken
	ctxKeySession
)

func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyUserID).(string)
	return id
}

func roleFrom(ctx context.Context) models.Role {
	role, _ := ctx.Value(ctxKeyRole).(models.Role)
	return role
}

func accessTokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(ctxKeyAccessToken).(string)
	return token
}

func sessionFrom(ctx context.Context) *models.Session {
	sess, _ := ctx.Value(ctxKeySession).(*models.Session)
	return sess
}

func (s *Server) sessionTimeout(role models.Role) time.Duration {
	if role == models.RoleAdmin {
		return s.cfg.AdminSessionTimeout
	}
	return s.cfg.UserSessionTimeout
}

// authMiddleware resolves the bearer token to a server-side session. The
// session's last activity is touched on every request except the session
// status poll, which must observe the idle clock without resetting it.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			httputil.Unauthorized(w, "missing bearer token")
			return
		}

		claims, err := auth.ParseToken(tokenString, []byte(s.cfg.SecretKey))
		if err != nil {
			httputil.Unauthorized(w, err.Error())
			return
		}

		ctx := r.Context()
		sess, err := s.repomanager.Sessions(s.db).GetByTokenHash(ctx, auth.HashToken(tokenString))
		if err != nil {
			// A valid token with no session row means the monitor swept it.
			httputil.Unauthorized(w, common.ErrSessionExpired.Error())
			return
		}

		now := time.Now()
		state, _ := session.StateFor(sess.LastActivityAt, now, s.sessionTimeout(sess.Role))
		if state == session.StateExpired || now.After(sess.ExpiresAt) {
			_ = s.repomanager.Sessions(s.db).DeleteByID(ctx, sess.ID)
			httputil.Unauthorized(w, common.ErrSessionExpired.Error())
			return
		}

		if !isSessionPoll(r) {
			if err := s.repomanager.Sessions(s.db).Touch(ctx, sess.ID, now); err != nil {
				s.logger.Error(ctx, "session touch failed", "error", err)
			}
		}

		ctx = context.WithValue(ctx, ctxKeyUserID, claims.UserID)
		ctx = context.WithValue(ctx, ctxKeyRole, sess.Role)
		ctx = context.WithValue(ctx, ctxKeyAccessToken, tokenString)
		ctx = context.WithValue(ctx, ctxKeySession, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func isSessionPoll(r *http.Request) bool {
	return r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/api/session")
}

// requireAdmin rejects non-admin sessions.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if roleFrom(r.Context()) != models.RoleAdmin {
			httputil.Forbidden(w, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// responseWriter captures the status code for logging and metrics.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.Info(r.Context(), "request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"duration", time.Since(start),
		)
	})
}

func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		metrics.IncrementInFlight()
		defer metrics.DecrementInFlight()

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		// Label by route template, not raw path, to keep cardinality down.
		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				path = tmpl
			}
		}
		metrics.RecordHTTPRequest(r.Method, path, strconv.Itoa(rw.status), time.Since(start))
	})
}
