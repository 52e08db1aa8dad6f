package repositories

import (
	"context"
	"time"

	"arbor/internal/domain/models"
)

// FolderRepository defines data access operations for the folders collection.
type FolderRepository interface {
	// List returns all folders ordered by last_modified descending.
	List(ctx context.Context) ([]models.Folder, error)

	// GetByID retrieves a folder by id. Returns domain.ErrNotFound if absent.
	GetByID(ctx context.Context, id string) (*models.Folder, error)

	// ListChildren returns the immediate children of a folder, ordered by
	// last_modified descending.
	ListChildren(ctx context.Context, parentID string) ([]models.Folder, error)

	// Insert stores a new folder record.
	Insert(ctx context.Context, folder *models.Folder) error

	// Update applies the supplied partial fields and stamps last_modified.
	// Returns domain.ErrNotFound if the folder does not exist.
	Update(ctx context.Context, id string, req *models.UpdateFolderRequest, lastModified time.Time) error

	// Delete removes a folder record. Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// IncrementVisits atomically bumps the visit counter by one.
	IncrementVisits(ctx context.Context, id string) error
}

// PathMapRepository manages the singleton path map document. All mutations
// are field-scoped (touching only the given folder id's entry) so that
// concurrent writers against different folders cannot lose updates.
type PathMapRepository interface {
	// Get loads the full map. Returns domain.ErrPathMapMissing if the
	// singleton document does not exist.
	Get(ctx context.Context) (models.PathMap, error)

	// Put upserts the entry for a single folder id.
	Put(ctx context.Context, folderID string, entry models.PathEntry) error

	// UpdateEntry updates only the supplied sub-fields of one entry.
	UpdateEntry(ctx context.Context, folderID string, parentID, name *string) error

	// Remove deletes the entry for a single folder id.
	Remove(ctx context.Context, folderID string) error
}

// UserRepository resolves verified credentials to local user records.
type UserRepository interface {
	// GetBySubject looks a user up by identity provider subject.
	// Returns domain.ErrNotFound if no such user exists.
	GetBySubject(ctx context.Context, subject string) (*models.User, error)
}
