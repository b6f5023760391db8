package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/mixmini/internal/common"
	"github.com/dmitrijs2005/mixmini/internal/server/models"
	"github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const userKey ctxKey = "user"

func userFrom(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}

// requestLogger logs one line per request once the response is written.
func (s *HTTPServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		s.logger.Info(r.Context(), "request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

// loadUser resolves the auth cookie, if any, and stores the active user in the
// request context. Invalid or stale cookies are ignored here; requireUser
// rejects the request later if a user is needed.
func (s *HTTPServer) loadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(common.AuthCookieName)
		if err != nil || c.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := s.users.CurrentUser(r.Context(), c.Value)
		if err != nil {
			if !errors.Is(err, common.ErrorUnauthorized) {
				s.fail(w, r, err, "")
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireUser answers 401 without a user. Plain browser page loads are sent
// to the login page instead.
func (s *HTTPServer) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userFrom(r.Context()) != nil {
			next.ServeHTTP(w, r)
			return
		}
		if isPageNavigation(r) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	})
}

func isPageNavigation(r *http.Request) bool {
	return r.Method == http.MethodGet &&
		r.Header.Get("HX-Request") == "" &&
		strings.Contains(r.Header.Get("Accept"), "text/html")
}
