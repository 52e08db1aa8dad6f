package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"arbor/internal/domain"
	"arbor/internal/domain/models"
	"arbor/internal/domain/repositories"
)

// pathMapName is the key of the singleton path map row.
const pathMapName = "folders"

// PostgresPathMapRepository stores the path map as a single jsonb document.
// Every mutation is expressed with jsonb_set / the '-' operator so it touches
// only the affected folder id; the row-level lock taken by UPDATE serializes
// concurrent writers instead of letting the last whole-document write win.
type PostgresPathMapRepository struct {
	pool *pgxpool.Pool
}

// NewPathMapRepository creates a new path map repository.
func NewPathMapRepository(config *RepositoryConfig) repositories.PathMapRepository {
	return &PostgresPathMapRepository{pool: config.Pool}
}

// Get loads the full map.
func (r *PostgresPathMapRepository) Get(ctx context.Context) (models.PathMap, error) {
	var raw []byte
	err := GetExecutor(ctx, r.pool).QueryRow(ctx,
		`SELECT entries FROM path_maps WHERE name = $1`, pathMapName).Scan(&raw)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, domain.ErrPathMapMissing
		}
		return nil, fmt.Errorf("get path map: %w", err)
	}

	pathMap := models.PathMap{}
	if err := json.Unmarshal(raw, &pathMap); err != nil {
		return nil, fmt.Errorf("decode path map: %w", err)
	}

	return pathMap, nil
}

// Put upserts the entry for a single folder id.
func (r *PostgresPathMapRepository) Put(ctx context.Context, folderID string, entry models.PathEntry) error {
	encoded, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode path map entry: %w", err)
	}

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, `
		UPDATE path_maps
		SET entries = jsonb_set(entries, ARRAY[$2], $3::jsonb)
		WHERE name = $1
	`, pathMapName, folderID, encoded)
	if err != nil {
		return fmt.Errorf("put path map entry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrPathMapMissing
	}

	return nil
}

// UpdateEntry updates only the supplied sub-fields of one entry.
func (r *PostgresPathMapRepository) UpdateEntry(ctx context.Context, folderID string, parentID, name *string) error {
	if parentID == nil && name == nil {
		return nil
	}

	// Nest one jsonb_set per sub-field so untouched fields survive
	expr := "entries"
	args := []interface{}{pathMapName, folderID}
	if parentID != nil {
		args = append(args, *parentID)
		expr = fmt.Sprintf("jsonb_set(%s, ARRAY[$2,'parentId'], to_jsonb($%d::text))", expr, len(args))
	}
	if name != nil {
		args = append(args, *name)
		expr = fmt.Sprintf("jsonb_set(%s, ARRAY[$2,'name'], to_jsonb($%d::text))", expr, len(args))
	}

	query := fmt.Sprintf(`
		UPDATE path_maps
		SET entries = %s
		WHERE name = $1 AND entries ? $2
	`, expr)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update path map entry: %w", err)
	}
	if result.RowsAffected() == 0 {
		// Either the singleton row or this folder's entry is gone; both are
		// mirror-consistency violations.
		return &domain.BrokenPathError{FolderID: folderID}
	}

	return nil
}

// Remove deletes the entry for a single folder id.
func (r *PostgresPathMapRepository) Remove(ctx context.Context, folderID string) error {
	result, err := GetExecutor(ctx, r.pool).Exec(ctx, `
		UPDATE path_maps
		SET entries = entries - $2
		WHERE name = $1
	`, pathMapName, folderID)
	if err != nil {
		return fmt.Errorf("remove path map entry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrPathMapMissing
	}

	return nil
}
