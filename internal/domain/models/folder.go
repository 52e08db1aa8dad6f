package models

import (
	"time"
)

// RootFolderID is the sentinel parent id of top-level folders.
const RootFolderID = ""

// Folder is one node in the content tree and the unit of admin-mutable content.
type Folder struct {
	ID            string    `json:"id"`
	Parent        string    `json:"parent"` // RootFolderID = top level
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"createdAt"`
	LastModified  time.Time `json:"lastModified"`
	PreferredSort int       `json:"preferredSort"`
	Index         int       `json:"index"`
	Visits        int       `json:"visits"`

	// Computed on read, never stored
	Subfolders []Folder   `json:"subfolders,omitempty"`
	Path       []PathStep `json:"path,omitempty"`
}

// PathEntry mirrors one folder's parent/title inside the singleton path map.
// The folder record is the source of truth; entries are a derived cache kept
// transactionally consistent with every folder mutation.
type PathEntry struct {
	ParentID string `json:"parentId"`
	Name     string `json:"name"`
}

// PathMap is the full id -> entry mapping of the singleton path map document.
type PathMap map[string]PathEntry

// PathStep is one element of a root-to-node breadcrumb path.
type PathStep struct {
	ID       string `json:"id"`
	ParentID string `json:"parentId"`
	Name     string `json:"name"`
}

// SearchResult is a folder enriched with its relevance score and breadcrumb.
type SearchResult struct {
	Folder
	RelevanceCount int `json:"relevanceCount"`
}

// CreateFolderRequest is the payload for folder creation.
type CreateFolderRequest struct {
	Title string `json:"title"`
}

// UpdateFolderRequest carries the partial fields of a folder update.
// Pointer fields distinguish "absent" from zero values.
type UpdateFolderRequest struct {
	Parent        *string `json:"parent,omitempty"`
	Title         *string `json:"title,omitempty"`
	Content       *string `json:"content,omitempty"`
	PreferredSort *int    `json:"preferredSort,omitempty"`
	Index         *int    `json:"index,omitempty"`
}

// Empty reports whether no fields were supplied.
func (r *UpdateFolderRequest) Empty() bool {
	return r.Parent == nil && r.Title == nil && r.Content == nil &&
		r.PreferredSort == nil && r.Index == nil
}

// TouchesPathMap reports whether the update affects the folder's path map
// entry (parent or title changes).
func (r *UpdateFolderRequest) TouchesPathMap() bool {
	return r.Parent != nil || r.Title != nil
}
