package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the folder domain - match with errors.Is()
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")

	// ErrConflict indicates the operation is refused in the store's current
	// state, e.g. deleting a folder that still has children under the
	// restrict policy.
	ErrConflict = errors.New("conflict")

	// ErrPathMapMissing indicates the singleton path map document is absent.
	// This is a store-consistency failure, not a caller error, and maps to 500.
	ErrPathMapMissing = errors.New("path map document missing")
)

// BrokenPathError indicates the path map has no usable entry for a folder
// referenced while walking an ancestor chain. It denotes a consistency
// violation between the folder store and its path map mirror.
type BrokenPathError struct {
	FolderID string
}

func (e *BrokenPathError) Error() string {
	return fmt.Sprintf("path map has no usable entry for folder %q", e.FolderID)
}
