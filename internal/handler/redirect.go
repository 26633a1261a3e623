package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/filedrop/filedrop/internal/auth"
	"github.com/filedrop/filedrop/internal/handler/dto"
	"github.com/filedrop/filedrop/internal/middleware"
	"github.com/filedrop/filedrop/internal/service"
)

// RedirectHandler serves the download hot path: it resolves a public file
// name to its storage pointer and redirects. The bytes never pass through
// this service.
type RedirectHandler struct {
	svc    *service.FileService
	logger *slog.Logger
}

// NewRedirectHandler creates a new RedirectHandler.
func NewRedirectHandler(svc *service.FileService, logger *slog.Logger) *RedirectHandler {
	return &RedirectHandler{
		svc:    svc,
		logger: logger,
	}
}

// Redirect handles GET /files/{name}, where name is either a bare slug or
// the "slug.suffix" public form. Requires the session middleware.
func (h *RedirectHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	name := chi.URLParam(r, "name")
	slug, suffix := middleware.SplitPublicName(name)
	if middleware.ValidateSlug(slug) != nil || middleware.ValidateSuffix(suffix) != nil {
		// A malformed name can never match a stored record.
		h.writeError(w, http.StatusNotFound, "FILE_NOT_FOUND", "File not found")
		return
	}

	start := time.Now()

	file, cacheHit, err := h.svc.Resolve(r.Context(), userID, slug, suffix)
	duration := time.Since(start)

	if err != nil {
		h.handleResolveError(w, r, slug, err, duration)
		return
	}

	h.logger.Info("redirect_success",
		"slug", slug,
		"cache_hit", cacheHit,
		"duration_ms", float64(duration.Microseconds())/1000,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("Cache-Control", "private, max-age=0")

	http.Redirect(w, r, file.StorageURL, http.StatusFound)
}

// handleResolveError handles errors during slug resolution.
func (h *RedirectHandler) handleResolveError(w http.ResponseWriter, r *http.Request, slug string, err error, duration time.Duration) {
	switch {
	case errors.Is(err, service.ErrFileNotFound):
		h.logger.Info("redirect_not_found",
			"slug", slug,
			"duration_ms", float64(duration.Microseconds())/1000,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		h.writeError(w, http.StatusNotFound, "FILE_NOT_FOUND", "File not found")

	case errors.Is(err, service.ErrNotOwner):
		h.logger.Info("redirect_forbidden",
			"slug", slug,
			"duration_ms", float64(duration.Microseconds())/1000,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		h.writeError(w, http.StatusForbidden, "FORBIDDEN", "You do not own this file")

	default:
		h.logger.Error("redirect_error",
			"slug", slug,
			"error", err,
			"duration_ms", float64(duration.Microseconds())/1000,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes a JSON error response for redirect failures.
func (h *RedirectHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "private, max-age=0")

	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
