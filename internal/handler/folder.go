package handler

import (
	"log/slog"
	"net/http"

	"arbor/internal/domain/models"
	"arbor/internal/domain/services"
	"arbor/internal/httputil"
)

// FolderHandler handles folder HTTP requests.
type FolderHandler struct {
	folderService services.FolderService
	logger        *slog.Logger
}

// NewFolderHandler creates a new folder handler.
func NewFolderHandler(folderService services.FolderService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		folderService: folderService,
		logger:        logger,
	}
}

// ListFolders returns all folders, newest first
// GET /folders
func (h *FolderHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := h.folderService.List(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folders)
}

// SearchFolders returns relevance-ranked matches for a search term
// GET /folders/search/{term}
func (h *FolderHandler) SearchFolders(w http.ResponseWriter, r *http.Request) {
	term := r.PathValue("term")

	results, err := h.folderService.Search(r.Context(), term)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, results)
}

// GetFolder returns one folder with subfolders and breadcrumb path; the `i`
// query parameter additionally counts a visit
// GET /folders/{id}?i=1
func (h *FolderHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	countVisit := r.URL.Query().Has("i")

	folder, err := h.folderService.Get(r.Context(), id, countVisit)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// CreateFolder creates a new folder under the parent named in the path
// POST /folders/{parentId}  (admin)
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	parentID := r.PathValue("parentId")

	var req models.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid JSON.")
		return
	}

	folder, err := h.folderService.Create(r.Context(), httputil.GetUser(r), parentID, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// UpdateFolder applies partial folder fields
// PATCH /folders/{id}  (admin)
func (h *FolderHandler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req models.UpdateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid JSON.")
		return
	}

	if req.Empty() {
		httputil.RespondMessage(w, http.StatusOK, "No changes were made.")
		return
	}

	if err := h.folderService.Update(r.Context(), httputil.GetUser(r), id, &req); err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondMessage(w, http.StatusOK, "Folder updated successfully.")
}

// DeleteFolder removes a folder and its path map entry
// DELETE /folders/{id}  (admin)
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.folderService.Delete(r.Context(), httputil.GetUser(r), id); err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondMessage(w, http.StatusOK, "Folder deleted successfully")
}
