package storage

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ledger/internal/core"
)

// TransactionFilter narrows List. An empty UserID lists every user's rows.
type TransactionFilter struct {
	UserID       string
	IncludeOwner bool
}

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db.Gorm()}
}

// List returns transactions newest first with their category names loaded.
func (r *TransactionRepository) List(ctx context.Context, f TransactionFilter) ([]core.Transaction, error) {
	q := r.db.WithContext(ctx).Preload("Category")
	if f.IncludeOwner {
		q = q.Preload("User")
	}
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}

	var rows []TransactionRow
	if err := q.Order("date DESC").Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, translate(err, "list transactions")
	}

	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toCore())
	}
	return out, nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, id string) (core.Transaction, error) {
	var row TransactionRow
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ?", id).
		Take(&row).Error
	if err != nil {
		return core.Transaction{}, translate(err, "find transaction")
	}
	return row.toCore(), nil
}

// Create stores t and returns the persisted row with its category loaded.
func (r *TransactionRepository) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	row := transactionRowFrom(t)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&row).Error; err != nil {
		return core.Transaction{}, translate(err, "create transaction")
	}
	return r.FindByID(ctx, row.ID)
}

// Update overwrites the mutable fields of the transaction with t.ID.
func (r *TransactionRepository) Update(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	res := r.db.WithContext(ctx).
		Model(&TransactionRow{}).
		Where("id = ?", t.ID).
		Updates(map[string]any{
			"amount_cents": t.Amount.Cents,
			"description":  t.Description,
			"type":         string(t.Type),
			"date":         t.Date.UTC(),
			"category_id":  t.CategoryID,
			"updated_at":   time.Now().UTC(),
		})
	if res.Error != nil {
		return core.Transaction{}, translate(res.Error, "update transaction")
	}
	if res.RowsAffected == 0 {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", core.ErrNotFound)
	}
	return r.FindByID(ctx, t.ID)
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&TransactionRow{})
	if res.Error != nil {
		return translate(res.Error, "delete transaction")
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete transaction: %w", core.ErrNotFound)
	}
	return nil
}
