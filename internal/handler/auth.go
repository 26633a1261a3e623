package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/filedrop/filedrop/internal/auth"
	"github.com/filedrop/filedrop/internal/handler/dto"
	"github.com/filedrop/filedrop/internal/middleware"
	"github.com/filedrop/filedrop/internal/service"
)

// AuthHandler handles the login handshake endpoints.
type AuthHandler struct {
	svc          *service.IdentityService
	frontendURL  string
	cookieSecure bool
	logger       *slog.Logger
}

// NewAuthHandler creates a new AuthHandler. frontendURL is where the browser
// lands after a completed handshake; cookieSecure should be true whenever
// the service is reachable over HTTPS.
func NewAuthHandler(svc *service.IdentityService, frontendURL string, cookieSecure bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:          svc,
		frontendURL:  frontendURL,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

// Login handles POST /auth/login. It returns the provider consent URL the
// frontend should send the browser to.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.AuthURLResponse{
		Success: true,
		AuthURL: h.svc.AuthURL(),
	})
}

// Callback handles GET /auth/callback. The provider redirects here with an
// authorization code; a completed handshake sets the session cookie and
// sends the browser back to the frontend dashboard.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")

	user, token, err := h.svc.Authenticate(r.Context(), code)
	if err != nil {
		h.handleLoginError(w, err)
		return
	}

	h.logger.Info("login_completed",
		"user_id", user.ID,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	http.SetCookie(w, h.sessionCookie(token, int(h.svc.TokenTTL().Seconds())))
	http.Redirect(w, r, h.frontendURL+"/dashboard?auth_success=true", http.StatusFound)
}

// Logout handles POST /auth/logout. It clears the session cookie without
// inspecting it; an absent or expired credential logs out just the same.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie("", -1))
	writeJSON(w, http.StatusOK, dto.MessageResponse{Success: true, Message: "Logged out"})
}

// Me handles GET /auth/me. Requires the session middleware.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	user, err := h.svc.Profile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			// Credential refers to a user that no longer exists.
			h.writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing credential")
			return
		}
		h.logger.Error("profile_lookup_failed",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

func (h *AuthHandler) handleLoginError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrMissingCode):
		h.writeError(w, http.StatusBadRequest, "MISSING_CODE", "Authorization code is required")

	case errors.Is(err, auth.ErrExchangeFailed):
		h.logger.Warn("login_exchange_failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "EXCHANGE_FAILED", "Could not complete the login handshake")

	case errors.Is(err, auth.ErrInvalidIDToken):
		h.logger.Warn("login_verify_failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INVALID_IDENTITY", "Could not verify the provider identity")

	default:
		h.logger.Error("login_failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// sessionCookie builds the credential cookie. maxAge <= 0 clears it.
func (h *AuthHandler) sessionCookie(token string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *AuthHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
