package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/filedrop/filedrop/internal/auth"
	"github.com/filedrop/filedrop/internal/model"
)

// SessionCookieName is the cookie carrying the session credential.
const SessionCookieName = "access_token"

// tokenVerifier validates a session credential and returns its identity.
type tokenVerifier interface {
	Verify(token string) (*model.Identity, error)
}

// SessionConfig holds configuration for the session middleware.
type SessionConfig struct {
	Logger *slog.Logger
	Tokens tokenVerifier
}

// Session returns a middleware that authenticates requests. The credential is
// read from the session cookie, falling back to an Authorization bearer
// header, and the verified identity is injected into the request context.
// Requests without a valid credential are rejected with 401.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractSessionToken(r)
			if token == "" {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_credential"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeUnauthorized(w)
				return
			}

			identity, err := cfg.Tokens.Verify(token)
			if err != nil {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", verifyFailureReason(err)),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeUnauthorized(w)
				return
			}

			ctx := auth.ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractSessionToken extracts the session credential from the request.
// The cookie takes precedence; "Authorization: Bearer <token>" is a fallback
// for non-browser clients.
func extractSessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}

func verifyFailureReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return "expired_credential"
	case errors.Is(err, auth.ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, auth.ErrMalformedToken):
		return "malformed_credential"
	default:
		return "invalid_credential"
	}
}

// writeUnauthorized writes a 401 response.
// Uses the same message for all auth failures to prevent probing.
func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"Invalid or missing credential"}}`))
}
