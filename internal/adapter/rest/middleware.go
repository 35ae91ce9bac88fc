package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/alvaro-al22/investsimpro-backend/internal/domain"
)

// userIDHeader carries the id of the logged-in user, set by the auth collaborator
const userIDHeader = "X-User-ID"

// authMiddleware checks the bearer token and stores the caller's session.
// Requests without a user id run anonymously and may not persist results.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			s.writeError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}
		if strings.TrimPrefix(auth, "Bearer ") != s.apiToken {
			s.writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		var session domain.Session
		if userID := strings.TrimSpace(r.Header.Get(userIDHeader)); userID != "" {
			session = domain.Session{UserID: userID, LoggedIn: true}
		}

		next.ServeHTTP(w, r.WithContext(domain.WithSession(r.Context(), session)))
	})
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
