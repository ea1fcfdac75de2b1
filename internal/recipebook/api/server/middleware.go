package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/dkravets/recipebook/internal/recipebook/domain/models"
	"github.com/dkravets/recipebook/pkg/logger"
)

type ctxKey int

const userKey ctxKey = iota

func userFrom(r *http.Request) models.User {
	u, _ := r.Context().Value(userKey).(models.User)

	return u
}

// authMiddleware resolves the bearer token to exactly one active user
// before any handler below runs. No token, no store access.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Content-Type", "application/json")

		parts := strings.Fields(r.Header.Get("Authorization"))
		if len(parts) != 2 || (parts[0] != "Bearer" && parts[0] != "Token") {
			handleError(w, errTokenRequired, http.StatusUnauthorized)

			return
		}

		u, err := s.authService.Authenticate(r.Context(), parts[1])
		if err != nil {
			s.respondError(w, err)

			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
	})
}

// loggingMiddleware captures the response in a recorder to report the
// status and log error bodies. Every handler returns a small JSON
// document, never a streamed file, so buffering the body is bounded.
func loggingMiddleware(logg logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rr := httptest.NewRecorder()

			defer func() {
				latency := time.Since(start).String()

				logg.Infof("METHOD %s URI %s %s	STATUS %d Latency %s Client IP %s User Agent %s",
					r.Method,
					r.Proto,
					r.URL.RequestURI(),
					rr.Code,
					latency,
					r.RemoteAddr,
					r.UserAgent(),
				)
			}()

			next.ServeHTTP(rr, r)

			for k, v := range rr.Header() {
				w.Header()[k] = v
			}

			w.WriteHeader(rr.Code)

			if rr.Code >= 400 && rr.Body.Len() != 0 {
				logg.Errorf("error: %s", rr.Body)
			}

			if _, err := rr.Body.WriteTo(w); err != nil {
				logg.Errorf("middleware write error: %s", err.Error())
			}
		})
	}
}
