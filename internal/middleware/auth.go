package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"arbor/internal/auth"
	"arbor/internal/domain"
	"arbor/internal/domain/repositories"
	"arbor/internal/httputil"
)

// Auth resolves an optional bearer credential into the request context.
//
// Requests without an Authorization header pass through unauthenticated;
// read endpoints are public and admin checks happen in the service layer.
// A header that is present but malformed, unverifiable, or not backed by a
// known user record is rejected with 403 outright.
func Auth(verifier auth.TokenVerifier, users repositories.UserRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				httputil.RespondError(w, http.StatusForbidden, "Unauthorized")
				return
			}

			claims, err := verifier.VerifyToken(tokenString)
			if err != nil {
				logger.Debug("token verification failed", "path", r.URL.Path, "error", err)
				httputil.RespondError(w, http.StatusForbidden, "Unauthorized")
				return
			}

			user, err := users.GetBySubject(r.Context(), claims.UserID())
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					logger.Warn("verified token has no user record", "subject", claims.UserID())
					httputil.RespondError(w, http.StatusForbidden, "User doesn't exist")
					return
				}
				logger.Error("user lookup failed", "error", err)
				httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			next.ServeHTTP(w, httputil.WithUser(r, user))
		})
	}
}
