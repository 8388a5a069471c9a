package storage

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ledger/internal/core"
)

type BudgetRepository struct {
	db *gorm.DB
}

func NewBudgetRepository(db *DB) *BudgetRepository {
	return &BudgetRepository{db: db.Gorm()}
}

func (r *BudgetRepository) List(ctx context.Context, userID string, month, year int) ([]core.Budget, error) {
	var rows []BudgetRow
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ? AND month = ? AND year = ?", userID, month, year).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translate(err, "list budgets")
	}

	out := make([]core.Budget, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toCore())
	}
	return out, nil
}

// Upsert creates the budget for (user, category, month, year) or replaces its limit.
func (r *BudgetRepository) Upsert(ctx context.Context, b core.Budget) (core.Budget, error) {
	row := budgetRowFrom(b)
	row.ID = ""
	now := time.Now().UTC()
	row.CreatedAt, row.UpdatedAt = now, now

	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"}, {Name: "category_id"}, {Name: "month"}, {Name: "year"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"limit_cents", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return core.Budget{}, translate(err, "upsert budget")
	}

	var stored BudgetRow
	err = r.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ? AND category_id = ? AND month = ? AND year = ?",
			b.UserID, b.CategoryID, b.Month, b.Year).
		Take(&stored).Error
	if err != nil {
		return core.Budget{}, translate(err, "reload budget")
	}
	return stored.toCore(), nil
}
