package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ledger/internal/auth"
	"ledger/internal/core"
)

type seedUser struct {
	email, password, name string
	role                  core.Role
}

var defaultUsers = []seedUser{
	{"admin@example.com", "admin123", "Admin User", core.RoleAdmin},
	{"user@example.com", "user123", "Regular User", core.RoleUser},
}

var defaultCategories = []core.Category{
	{Name: "General", Type: core.Expense},
	{Name: "Food", Type: core.Expense},
	{Name: "Rent", Type: core.Expense},
	{Name: "Transport", Type: core.Expense},
	{Name: "Entertainment", Type: core.Expense},
	{Name: "Salary", Type: core.Income},
	{Name: "Freelance", Type: core.Income},
}

type SeedReport struct {
	UsersCreated      int
	CategoriesCreated int
}

// Seeder creates the demo accounts and the system categories. Running it twice is harmless.
type Seeder struct {
	users      UserStore
	categories CategoryStore
}

func NewSeeder(users UserStore, categories CategoryStore) *Seeder {
	return &Seeder{users: users, categories: categories}
}

func (s *Seeder) Seed(ctx context.Context) (SeedReport, error) {
	var report SeedReport

	for _, su := range defaultUsers {
		_, err := s.users.FindByEmail(ctx, su.email)
		if err == nil {
			continue
		}
		if !errors.Is(err, core.ErrNotFound) {
			return report, fmt.Errorf("seed user %s: %w", su.email, err)
		}

		hash, err := auth.HashPassword(su.password)
		if err != nil {
			return report, fmt.Errorf("seed user %s: %w", su.email, err)
		}
		if _, err := s.users.Create(ctx, core.User{
			Email:        su.email,
			PasswordHash: hash,
			Name:         su.name,
			Role:         su.role,
		}); err != nil {
			return report, fmt.Errorf("seed user %s: %w", su.email, err)
		}
		report.UsersCreated++
	}

	for _, c := range defaultCategories {
		_, err := s.categories.FindSystemByName(ctx, c.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, core.ErrNotFound) {
			return report, fmt.Errorf("seed category %s: %w", c.Name, err)
		}
		if _, err := s.categories.Create(ctx, c); err != nil {
			return report, fmt.Errorf("seed category %s: %w", c.Name, err)
		}
		report.CategoriesCreated++
	}

	slog.InfoContext(ctx, "Seed completed",
		"component", "seed",
		"users_created", report.UsersCreated,
		"categories_created", report.CategoriesCreated)
	return report, nil
}
