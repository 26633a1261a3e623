package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/filedrop/filedrop/internal/auth"
	"github.com/filedrop/filedrop/internal/handler/dto"
	"github.com/filedrop/filedrop/internal/middleware"
	"github.com/filedrop/filedrop/internal/service"
)

// FileHandler handles file registry operations. All routes require the
// session middleware.
type FileHandler struct {
	svc    *service.FileService
	logger *slog.Logger
}

// NewFileHandler creates a new FileHandler.
func NewFileHandler(svc *service.FileService, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /files/.
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	files, err := h.svc.List(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToFileListResponse(files))
}

// Upload handles POST /files/upload. The frontend uploads the bytes to blob
// storage first and then registers the resulting pointer here.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req dto.RegisterFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := middleware.ValidateStorageURL(req.AWSURL); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_URL", "Storage URL is not acceptable")
		return
	}

	file, err := h.svc.Register(r.Context(), userID, service.RegisterFileInput{
		FileName:   req.FileName,
		Suffix:     req.Suffix,
		StorageURL: req.AWSURL,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("file_registered",
		"file_id", file.ID,
		"slug", file.Slug,
		"owner_id", userID,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	writeJSON(w, http.StatusCreated, dto.RegisterFileResponse{
		Success: true,
		File:    dto.ToFileResponse(file),
	})
}

// Delete handles DELETE /files/{id}. The id is the internal record id, not
// the public slug.
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_ID", "File id is required")
		return
	}

	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("file_deleted",
		"file_id", id,
		"owner_id", userID,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Success: true, Message: "File deleted"})
}

// handleServiceError maps service errors to HTTP responses.
func (h *FileHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrFileNotFound):
		h.writeError(w, http.StatusNotFound, "FILE_NOT_FOUND", "File not found")

	case errors.Is(err, service.ErrNotOwner):
		h.writeError(w, http.StatusForbidden, "FORBIDDEN", "You do not own this file")

	case errors.Is(err, service.ErrMissingFileName):
		h.writeError(w, http.StatusBadRequest, "MISSING_FIELD", "file_name is required")

	case errors.Is(err, service.ErrInvalidSuffix):
		h.writeError(w, http.StatusBadRequest, "INVALID_SUFFIX", "File suffix is not allowed")

	case errors.Is(err, service.ErrInvalidStorageURL), errors.Is(err, service.ErrURLTooLong):
		h.writeError(w, http.StatusBadRequest, "INVALID_URL", "Storage URL is not acceptable")

	case errors.Is(err, service.ErrConflict):
		h.writeError(w, http.StatusConflict, "CONFLICT", "Could not allocate a unique slug, retry the request")

	default:
		h.logger.Error("file_operation_failed",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

func (h *FileHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
