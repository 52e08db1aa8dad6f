package service

import (
	"arbor/internal/domain"
	"arbor/internal/domain/models"
)

// ResolvePath reconstructs the root-to-target breadcrumb sequence for
// folderID from the path map. It is a pure function of its inputs and safe
// to call concurrently.
//
// The walk follows parentId links until it reaches the root sentinel. A
// missing entry, or a cycle in the parent links, returns a BrokenPathError:
// both mean the folder store and its mirror have diverged.
func ResolvePath(pathMap models.PathMap, folderID string) ([]models.PathStep, error) {
	var steps []models.PathStep
	seen := make(map[string]bool)

	for current := folderID; current != models.RootFolderID; {
		if seen[current] {
			return nil, &domain.BrokenPathError{FolderID: current}
		}
		seen[current] = true

		entry, ok := pathMap[current]
		if !ok {
			return nil, &domain.BrokenPathError{FolderID: current}
		}

		steps = append(steps, models.PathStep{
			ID:       current,
			ParentID: entry.ParentID,
			Name:     entry.Name,
		})
		current = entry.ParentID
	}

	// Accumulated target-first; the breadcrumb runs root-first
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}

	return steps, nil
}
