package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"arbor/internal/domain"
	"arbor/internal/domain/models"
	"arbor/internal/domain/repositories"
)

// fakeFolderRepo is an in-memory FolderRepository.
type fakeFolderRepo struct {
	mu      sync.Mutex
	folders map[string]models.Folder

	updateCalls int
	visited     chan string
}

func newFakeFolderRepo() *fakeFolderRepo {
	return &fakeFolderRepo{folders: make(map[string]models.Folder)}
}

func (f *fakeFolderRepo) seed(folder models.Folder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.folders[folder.ID] = folder
}

func (f *fakeFolderRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.folders)
}

func (f *fakeFolderRepo) List(ctx context.Context) ([]models.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	folders := make([]models.Folder, 0, len(f.folders))
	for _, folder := range f.folders {
		folders = append(folders, folder)
	}
	sort.SliceStable(folders, func(i, j int) bool {
		return folders[i].LastModified.After(folders[j].LastModified)
	})
	return folders, nil
}

func (f *fakeFolderRepo) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	folder, ok := f.folders[id]
	if !ok {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	return &folder, nil
}

func (f *fakeFolderRepo) ListChildren(ctx context.Context, parentID string) ([]models.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var children []models.Folder
	for _, folder := range f.folders {
		if folder.Parent == parentID {
			children = append(children, folder)
		}
	}
	sort.SliceStable(children, func(i, j int) bool {
		return children[i].LastModified.After(children[j].LastModified)
	})
	return children, nil
}

func (f *fakeFolderRepo) Insert(ctx context.Context, folder *models.Folder) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.folders[folder.ID]; exists {
		return fmt.Errorf("folder %s already exists: %w", folder.ID, domain.ErrValidation)
	}
	f.folders[folder.ID] = *folder
	return nil
}

func (f *fakeFolderRepo) Update(ctx context.Context, id string, req *models.UpdateFolderRequest, lastModified time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.updateCalls++
	folder, ok := f.folders[id]
	if !ok {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	folder.LastModified = lastModified
	if req.Parent != nil {
		folder.Parent = *req.Parent
	}
	if req.Title != nil {
		folder.Title = *req.Title
	}
	if req.Content != nil {
		folder.Content = *req.Content
	}
	if req.PreferredSort != nil {
		folder.PreferredSort = *req.PreferredSort
	}
	if req.Index != nil {
		folder.Index = *req.Index
	}
	f.folders[id] = folder
	return nil
}

func (f *fakeFolderRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.folders[id]; !ok {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	delete(f.folders, id)
	return nil
}

func (f *fakeFolderRepo) IncrementVisits(ctx context.Context, id string) error {
	f.mu.Lock()

	folder, ok := f.folders[id]
	if !ok {
		f.mu.Unlock()
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	folder.Visits++
	f.folders[id] = folder
	f.mu.Unlock()

	if f.visited != nil {
		f.visited <- id
	}
	return nil
}

// fakePathMapRepo is an in-memory PathMapRepository.
type fakePathMapRepo struct {
	mu      sync.Mutex
	entries models.PathMap
	missing bool // simulate an absent singleton document
}

func newFakePathMapRepo() *fakePathMapRepo {
	return &fakePathMapRepo{entries: models.PathMap{}}
}

func (f *fakePathMapRepo) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

func (f *fakePathMapRepo) Get(ctx context.Context) (models.PathMap, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.missing {
		return nil, domain.ErrPathMapMissing
	}
	snapshot := models.PathMap{}
	for id, entry := range f.entries {
		snapshot[id] = entry
	}
	return snapshot, nil
}

func (f *fakePathMapRepo) Put(ctx context.Context, folderID string, entry models.PathEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.missing {
		return domain.ErrPathMapMissing
	}
	f.entries[folderID] = entry
	return nil
}

func (f *fakePathMapRepo) UpdateEntry(ctx context.Context, folderID string, parentID, name *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.missing {
		return domain.ErrPathMapMissing
	}
	entry, ok := f.entries[folderID]
	if !ok {
		return &domain.BrokenPathError{FolderID: folderID}
	}
	if parentID != nil {
		entry.ParentID = *parentID
	}
	if name != nil {
		entry.Name = *name
	}
	f.entries[folderID] = entry
	return nil
}

func (f *fakePathMapRepo) Remove(ctx context.Context, folderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.missing {
		return domain.ErrPathMapMissing
	}
	delete(f.entries, folderID)
	return nil
}

// fakeTxManager runs the function directly; the in-memory fakes have no
// transaction semantics to enforce.
type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}
