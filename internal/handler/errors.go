package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"arbor/internal/domain"
	"arbor/internal/httputil"
)

// handleError converts domain errors to HTTP responses. Internal failures
// are logged with their cause but answered with a generic message.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var brokenPath *domain.BrokenPathError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, "Unauthorized")
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &brokenPath):
		logger.Error("path map inconsistent with folder store", "folder_id", brokenPath.FolderID)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	case errors.Is(err, domain.ErrPathMapMissing):
		logger.Error("path map document missing")
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	default:
		logger.Error("unexpected error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
