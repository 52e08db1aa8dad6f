package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"arbor/internal/config"
	"arbor/internal/domain"
	"arbor/internal/domain/models"
	"arbor/internal/domain/repositories"
	"arbor/internal/domain/services"
)

type folderService struct {
	folderRepo repositories.FolderRepository
	pathRepo   repositories.PathMapRepository
	txManager  repositories.TransactionManager
	cfg        *config.Config
	logger     *slog.Logger
}

// NewFolderService creates a new folder service.
func NewFolderService(
	folderRepo repositories.FolderRepository,
	pathRepo repositories.PathMapRepository,
	txManager repositories.TransactionManager,
	cfg *config.Config,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		pathRepo:   pathRepo,
		txManager:  txManager,
		cfg:        cfg,
		logger:     logger,
	}
}

// opCtx bounds a store-backed operation so a stalled database surfaces as an
// error instead of hanging the request.
func (s *folderService) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.StoreTimeout)
}

func requireAdmin(requester *models.User) error {
	if requester == nil || !requester.IsAdmin {
		return fmt.Errorf("admin privilege required: %w", domain.ErrForbidden)
	}
	return nil
}

// List returns all folders ordered by last_modified descending.
func (s *folderService) List(ctx context.Context) ([]models.Folder, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	return s.folderRepo.List(ctx)
}

// Get returns one folder with its immediate subfolders and breadcrumb path.
func (s *folderService) Get(ctx context.Context, id string, countVisit bool) (*models.Folder, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	folder, err := s.folderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if countVisit {
		// Best effort: the counter bump must never fail or delay the read,
		// so it runs detached with its own deadline.
		go func() {
			visitCtx, cancel := context.WithTimeout(context.Background(), s.cfg.StoreTimeout)
			defer cancel()
			if err := s.folderRepo.IncrementVisits(visitCtx, id); err != nil {
				s.logger.Warn("visit increment failed", "folder_id", id, "error", err)
			}
		}()
	}

	children, err := s.folderRepo.ListChildren(ctx, id)
	if err != nil {
		return nil, err
	}
	folder.Subfolders = children

	pathMap, err := s.pathRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	folder.Path, err = ResolvePath(pathMap, id)
	if err != nil {
		return nil, err
	}

	return folder, nil
}

// Create inserts a new folder under parentID and mirrors it into the path
// map within the same transaction. The map mutation is scoped to the new
// folder's key, so concurrent creates cannot overwrite each other.
func (s *folderService) Create(ctx context.Context, requester *models.User, parentID string, req *models.CreateFolderRequest) (*models.Folder, error) {
	if err := requireAdmin(requester); err != nil {
		return nil, err
	}
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if parentID != models.RootFolderID {
		if _, err := s.folderRepo.GetByID(ctx, parentID); err != nil {
			return nil, fmt.Errorf("%w: parent folder %q does not exist", domain.ErrValidation, parentID)
		}
	}

	now := time.Now().UTC()
	folder := &models.Folder{
		ID:           uuid.NewString(),
		Parent:       parentID,
		Title:        req.Title,
		Content:      "",
		CreatedAt:    now,
		LastModified: now,
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.folderRepo.Insert(txCtx, folder); err != nil {
			return err
		}

		entry := models.PathEntry{ParentID: parentID, Name: folder.Title}
		if err := s.pathRepo.Put(txCtx, folder.ID, entry); err != nil {
			return err
		}

		// Read back inside the transaction so the breadcrumb reflects the
		// entry just written.
		pathMap, err := s.pathRepo.Get(txCtx)
		if err != nil {
			return err
		}
		folder.Path, err = ResolvePath(pathMap, folder.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"title", folder.Title,
		"parent", folder.Parent,
	)

	return folder, nil
}

// Update applies the supplied partial fields, stamping last_modified, and
// keeps the path map entry in sync when parent or title change.
func (s *folderService) Update(ctx context.Context, requester *models.User, id string, req *models.UpdateFolderRequest) error {
	if err := requireAdmin(requester); err != nil {
		return err
	}
	if req.Empty() {
		return nil
	}
	if err := s.validateUpdateRequest(id, req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if req.Parent != nil && *req.Parent != models.RootFolderID {
		if _, err := s.folderRepo.GetByID(ctx, *req.Parent); err != nil {
			return fmt.Errorf("%w: parent folder %q does not exist", domain.ErrValidation, *req.Parent)
		}
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.folderRepo.Update(txCtx, id, req, time.Now().UTC()); err != nil {
			return err
		}
		if req.TouchesPathMap() {
			return s.pathRepo.UpdateEntry(txCtx, id, req.Parent, req.Title)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("folder updated", "id", id)
	return nil
}

// Delete removes a folder and its path map entry in one transaction. The
// configured delete policy decides what happens to children.
func (s *folderService) Delete(ctx context.Context, requester *models.User, id string) error {
	if err := requireAdmin(requester); err != nil {
		return err
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if _, err := s.folderRepo.GetByID(ctx, id); err != nil {
		return err
	}

	ids := []string{id}
	children, err := s.folderRepo.ListChildren(ctx, id)
	if err != nil {
		return err
	}

	if len(children) > 0 {
		switch s.cfg.DeletePolicy {
		case config.DeletePolicyRestrict:
			return fmt.Errorf("%w: folder %q still has %d subfolders", domain.ErrConflict, id, len(children))
		case config.DeletePolicyCascade:
			descendants, err := s.collectDescendants(ctx, id)
			if err != nil {
				return err
			}
			ids = append(ids, descendants...)
		case config.DeletePolicyOrphan:
			// children keep pointing at the deleted id
		}
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		for _, folderID := range ids {
			if err := s.folderRepo.Delete(txCtx, folderID); err != nil {
				return err
			}
			if err := s.pathRepo.Remove(txCtx, folderID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("folder deleted", "id", id, "policy", s.cfg.DeletePolicy, "removed", len(ids))
	return nil
}

// collectDescendants walks the tree breadth-first and returns every folder id
// below root, root excluded.
func (s *folderService) collectDescendants(ctx context.Context, root string) ([]string, error) {
	var ids []string
	queue := []string{root}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		children, err := s.folderRepo.ListChildren(ctx, current)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			ids = append(ids, child.ID)
			queue = append(queue, child.ID)
		}
	}

	return ids, nil
}

func (s *folderService) validateCreateRequest(req *models.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.Required,
			validation.RuneLength(1, s.cfg.MaxTitleLength),
		),
	)
}

func (s *folderService) validateUpdateRequest(id string, req *models.UpdateFolderRequest) error {
	if req.Title != nil {
		if err := validation.Validate(*req.Title,
			validation.Required,
			validation.RuneLength(1, s.cfg.MaxTitleLength),
		); err != nil {
			return fmt.Errorf("title: %v", err)
		}
	}
	if req.Parent != nil && *req.Parent == id {
		return fmt.Errorf("folder cannot be its own parent")
	}
	return nil
}
