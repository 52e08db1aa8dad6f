package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"arbor/internal/domain"
	"arbor/internal/domain/models"
	"arbor/internal/domain/repositories"
)

const folderColumns = `id, parent, title, content, created_at, last_modified, preferred_sort, position, visits`

// PostgresFolderRepository implements the FolderRepository interface.
type PostgresFolderRepository struct {
	pool *pgxpool.Pool
}

// NewFolderRepository creates a new folder repository.
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{pool: config.Pool}
}

// List returns all folders ordered by last_modified descending.
func (r *PostgresFolderRepository) List(ctx context.Context) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM folders
		ORDER BY last_modified DESC
	`, folderColumns)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	return scanFolders(rows)
}

// checkFolderID rejects ids the uuid column can never hold. Without this a
// malformed id fails at parameter encoding and surfaces as an internal error
// instead of not-found.
func checkFolderID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// GetByID retrieves a folder by id.
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	if err := checkFolderID(id); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM folders
		WHERE id = $1
	`, folderColumns)

	folder, err := scanFolder(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return folder, nil
}

// ListChildren returns the immediate children of a folder, newest first.
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, parentID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM folders
		WHERE parent = $1
		ORDER BY last_modified DESC
	`, folderColumns)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("list folder children: %w", err)
	}
	defer rows.Close()

	return scanFolders(rows)
}

// Insert stores a new folder record.
func (r *PostgresFolderRepository) Insert(ctx context.Context, folder *models.Folder) error {
	query := `
		INSERT INTO folders (id, parent, title, content, created_at, last_modified, preferred_sort, position, visits)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		folder.ID,
		folder.Parent,
		folder.Title,
		folder.Content,
		folder.CreatedAt,
		folder.LastModified,
		folder.PreferredSort,
		folder.Index,
		folder.Visits,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("folder %s already exists: %w", folder.ID, domain.ErrValidation)
		}
		return fmt.Errorf("insert folder: %w", err)
	}

	return nil
}

// Update applies the supplied partial fields and stamps last_modified.
func (r *PostgresFolderRepository) Update(ctx context.Context, id string, req *models.UpdateFolderRequest, lastModified time.Time) error {
	if err := checkFolderID(id); err != nil {
		return err
	}

	sets := []string{"last_modified = $1"}
	args := []interface{}{lastModified}

	appendSet := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.Parent != nil {
		appendSet("parent", *req.Parent)
	}
	if req.Title != nil {
		appendSet("title", *req.Title)
	}
	if req.Content != nil {
		appendSet("content", *req.Content)
	}
	if req.PreferredSort != nil {
		appendSet("preferred_sort", *req.PreferredSort)
	}
	if req.Index != nil {
		appendSet("position", *req.Index)
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE folders
		SET %s
		WHERE id = $%d
	`, strings.Join(sets, ", "), len(args))

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update folder: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a folder record.
func (r *PostgresFolderRepository) Delete(ctx context.Context, id string) error {
	if err := checkFolderID(id); err != nil {
		return err
	}

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, `DELETE FROM folders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// IncrementVisits atomically bumps the visit counter by one.
func (r *PostgresFolderRepository) IncrementVisits(ctx context.Context, id string) error {
	if err := checkFolderID(id); err != nil {
		return err
	}

	result, err := GetExecutor(ctx, r.pool).Exec(ctx,
		`UPDATE folders SET visits = visits + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment visits: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func scanFolder(row pgx.Row) (*models.Folder, error) {
	var folder models.Folder
	err := row.Scan(
		&folder.ID,
		&folder.Parent,
		&folder.Title,
		&folder.Content,
		&folder.CreatedAt,
		&folder.LastModified,
		&folder.PreferredSort,
		&folder.Index,
		&folder.Visits,
	)
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

func scanFolders(rows pgx.Rows) ([]models.Folder, error) {
	var folders []models.Folder
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}
