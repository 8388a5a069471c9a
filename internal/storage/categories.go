package storage

import (
	"context"

	"gorm.io/gorm"

	"ledger/internal/core"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *DB) *CategoryRepository {
	return &CategoryRepository{db: db.Gorm()}
}

// ListVisible returns the system categories plus the ones owned by userID,
// sorted by name.
func (r *CategoryRepository) ListVisible(ctx context.Context, userID string) ([]core.Category, error) {
	var rows []CategoryRow
	err := r.db.WithContext(ctx).
		Where("user_id IS NULL OR user_id = ?", userID).
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translate(err, "list categories")
	}

	out := make([]core.Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toCore())
	}
	return out, nil
}

func (r *CategoryRepository) Create(ctx context.Context, c core.Category) (core.Category, error) {
	row := categoryRowFrom(c)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return core.Category{}, translate(err, "create category")
	}
	return row.toCore(), nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (core.Category, error) {
	var row CategoryRow
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		return core.Category{}, translate(err, "find category")
	}
	return row.toCore(), nil
}

// FindSystemByName looks up a system-wide category; the seeder uses it to stay idempotent.
func (r *CategoryRepository) FindSystemByName(ctx context.Context, name string) (core.Category, error) {
	var row CategoryRow
	err := r.db.WithContext(ctx).
		Where("user_id IS NULL AND name = ?", name).
		Take(&row).Error
	if err != nil {
		return core.Category{}, translate(err, "find system category")
	}
	return row.toCore(), nil
}
