package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ledger/internal/core"
)

type BudgetInput struct {
	CategoryID string
	Month      int
	Year       int
	Limit      core.Money
}

type BudgetService struct {
	budgets    BudgetStore
	categories CategoryStore
	now        func() time.Time
}

func NewBudgetService(budgets BudgetStore, categories CategoryStore) *BudgetService {
	return &BudgetService{budgets: budgets, categories: categories, now: time.Now}
}

// List returns the caller's budgets for a month. Zero month or year means the current one.
func (s *BudgetService) List(ctx context.Context, p core.Principal, month, year int) ([]core.Budget, error) {
	now := s.now()
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	if month < 1 || month > 12 {
		return nil, core.Invalid("month", "Month must be between 1 and 12")
	}
	if year < 1970 || year > 9999 {
		return nil, core.Invalid("year", "Year is out of range")
	}

	budgets, err := s.budgets.List(ctx, p.UserID, month, year)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return budgets, nil
}

// Set creates or replaces the caller's limit for one category and month.
func (s *BudgetService) Set(ctx context.Context, p core.Principal, in BudgetInput) (core.Budget, error) {
	b := core.Budget{
		Limit:      in.Limit,
		UserID:     p.UserID,
		CategoryID: strings.TrimSpace(in.CategoryID),
		Month:      in.Month,
		Year:       in.Year,
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}

	c, err := s.categories.FindByID(ctx, b.CategoryID)
	if errors.Is(err, core.ErrNotFound) || (err == nil && c.UserID != nil && *c.UserID != p.UserID) {
		return core.Budget{}, core.Invalid("categoryId", "Category not found")
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("find category: %w", err)
	}

	stored, err := s.budgets.Upsert(ctx, b)
	if err != nil {
		return core.Budget{}, fmt.Errorf("set budget: %w", err)
	}
	return stored, nil
}
