package services

import (
	"context"

	"arbor/internal/domain/models"
)

// FolderService is the application-facing surface of the folder subsystem.
// Requester may be nil for unauthenticated calls; mutations require an admin.
type FolderService interface {
	// List returns all folders ordered by last_modified descending.
	List(ctx context.Context) ([]models.Folder, error)

	// Get returns one folder with its immediate subfolders and breadcrumb
	// path. When countVisit is set the visit counter is incremented
	// best-effort without blocking the response.
	Get(ctx context.Context, id string, countVisit bool) (*models.Folder, error)

	// Create inserts a new folder under parentID and mirrors it into the
	// path map within the same transaction.
	Create(ctx context.Context, requester *models.User, parentID string, req *models.CreateFolderRequest) (*models.Folder, error)

	// Update applies partial fields; parent/title changes co-transact the
	// matching path map sub-field updates. Empty requests succeed as no-ops.
	Update(ctx context.Context, requester *models.User, id string, req *models.UpdateFolderRequest) error

	// Delete removes a folder and its path map entry atomically. Behavior
	// for folders with children follows the configured delete policy.
	Delete(ctx context.Context, requester *models.User, id string) error

	// Search scores all folders against term (title matches weighted double)
	// and returns matches in descending relevance order with breadcrumbs.
	Search(ctx context.Context, term string) ([]models.SearchResult, error)
}
