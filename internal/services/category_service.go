package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"ledger/internal/cache"
	"ledger/internal/core"
)

const (
	categoryCacheSize = 1024
	categoryCacheTTL  = time.Minute
)

type CategoryService struct {
	categories CategoryStore
	visible    *cache.LRU[[]core.Category]
}

func NewCategoryService(categories CategoryStore) *CategoryService {
	return &CategoryService{
		categories: categories,
		visible:    cache.NewLRU[[]core.Category](categoryCacheSize, categoryCacheTTL),
	}
}

// List returns the system categories plus the caller's own, by name.
// Results are cached per user until that user creates a category.
func (s *CategoryService) List(ctx context.Context, p core.Principal) ([]core.Category, error) {
	if cats, ok := s.visible.Get(p.UserID); ok {
		return slices.Clone(cats), nil
	}

	cats, err := s.categories.ListVisible(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	s.visible.Set(p.UserID, slices.Clone(cats))
	return cats, nil
}

// CacheStats exposes the category cache counters for /metrics.
func (s *CategoryService) CacheStats() cache.Stats {
	return s.visible.Stats()
}

// Create adds a category owned by the caller.
func (s *CategoryService) Create(ctx context.Context, p core.Principal, name, typ string) (core.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.Category{}, core.Invalid("name", "Name is required")
	}
	entryType, err := core.ParseEntryType(typ)
	if err != nil {
		return core.Category{}, err
	}

	owner := p.UserID
	c := core.Category{Name: name, Type: entryType, UserID: &owner}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}

	created, err := s.categories.Create(ctx, c)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	s.visible.Delete(owner)
	return created, nil
}
