package service

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"arbor/internal/domain"
	"arbor/internal/domain/models"
)

// Search scores every folder against term and returns the matches in
// descending relevance order, each enriched with its breadcrumb path.
//
// Title matches count double, content matches count single; folders with no
// matches are dropped. The caller-supplied term is matched literally: its
// regex metacharacters are escaped before compiling, so a hostile pattern can
// neither break the compiler nor blow up match time.
func (s *folderService) Search(ctx context.Context, term string) ([]models.SearchResult, error) {
	term = strings.TrimSpace(term)
	if err := validation.Validate(term,
		validation.Required,
		validation.RuneLength(1, s.cfg.MaxSearchTermLength),
	); err != nil {
		return nil, fmt.Errorf("%w: search term: %v", domain.ErrValidation, err)
	}

	pattern, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(term))
	if err != nil {
		return nil, fmt.Errorf("%w: search term: %v", domain.ErrValidation, err)
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	folders, err := s.folderRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	pathMap, err := s.pathRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	var results []models.SearchResult
	for _, folder := range folders {
		titleMatches := len(pattern.FindAllStringIndex(folder.Title, -1))
		contentMatches := len(pattern.FindAllStringIndex(folder.Content, -1))

		relevance := 2*titleMatches + contentMatches
		if relevance == 0 {
			continue
		}

		path, err := ResolvePath(pathMap, folder.ID)
		if err != nil {
			return nil, err
		}
		folder.Path = path

		results = append(results, models.SearchResult{
			Folder:         folder,
			RelevanceCount: relevance,
		})
	}

	// Stable: equal scores keep their last_modified encounter order
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceCount > results[j].RelevanceCount
	})

	return results, nil
}
