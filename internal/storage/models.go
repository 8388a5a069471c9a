package storage

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ledger/internal/core"
)

// Row types mirror the migrated schema. They never leave this package.

type UserRow struct {
	ID        string `gorm:"primaryKey"`
	Email     string
	Password  string
	Name      string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserRow) TableName() string { return "users" }

type CategoryRow struct {
	ID        string `gorm:"primaryKey"`
	Name      string
	Type      string
	UserID    *string
	CreatedAt time.Time
}

func (CategoryRow) TableName() string { return "categories" }

type TransactionRow struct {
	ID          string `gorm:"primaryKey"`
	AmountCents int64
	Description string
	Type        string
	Date        time.Time
	UserID      string
	CategoryID  string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Category *CategoryRow `gorm:"foreignKey:CategoryID"`
	User     *UserRow     `gorm:"foreignKey:UserID"`
}

func (TransactionRow) TableName() string { return "transactions" }

type BudgetRow struct {
	ID         string `gorm:"primaryKey"`
	LimitCents int64
	UserID     string
	CategoryID string
	Month      int
	Year       int
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Category *CategoryRow `gorm:"foreignKey:CategoryID"`
}

func (BudgetRow) TableName() string { return "budgets" }

func (r *UserRow) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (r *CategoryRow) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (r *TransactionRow) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (r *BudgetRow) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func userRowFrom(u core.User) UserRow {
	return UserRow{
		ID:        u.ID,
		Email:     u.Email,
		Password:  u.PasswordHash,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func (r UserRow) toCore() core.User {
	return core.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.Password,
		Name:         r.Name,
		Role:         core.Role(r.Role),
		CreatedAt:    r.CreatedAt.UTC(),
	}
}

func categoryRowFrom(c core.Category) CategoryRow {
	return CategoryRow{
		ID:        c.ID,
		Name:      c.Name,
		Type:      string(c.Type),
		UserID:    c.UserID,
		CreatedAt: c.CreatedAt,
	}
}

func (r CategoryRow) toCore() core.Category {
	return core.Category{
		ID:        r.ID,
		Name:      r.Name,
		Type:      core.EntryType(r.Type),
		UserID:    r.UserID,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

func transactionRowFrom(t core.Transaction) TransactionRow {
	return TransactionRow{
		ID:          t.ID,
		AmountCents: t.Amount.Cents,
		Description: t.Description,
		Type:        string(t.Type),
		Date:        t.Date.UTC(),
		UserID:      t.UserID,
		CategoryID:  t.CategoryID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (r TransactionRow) toCore() core.Transaction {
	t := core.Transaction{
		ID:          r.ID,
		Amount:      core.Money{Cents: r.AmountCents},
		Description: r.Description,
		Type:        core.EntryType(r.Type),
		Date:        r.Date.UTC(),
		UserID:      r.UserID,
		CategoryID:  r.CategoryID,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
	if r.Category != nil {
		t.Category = &core.CategoryRef{Name: r.Category.Name}
	}
	if r.User != nil {
		t.User = &core.OwnerRef{Name: r.User.Name, Email: r.User.Email}
	}
	return t
}

func budgetRowFrom(b core.Budget) BudgetRow {
	return BudgetRow{
		ID:         b.ID,
		LimitCents: b.Limit.Cents,
		UserID:     b.UserID,
		CategoryID: b.CategoryID,
		Month:      b.Month,
		Year:       b.Year,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

func (r BudgetRow) toCore() core.Budget {
	b := core.Budget{
		ID:         r.ID,
		Limit:      core.Money{Cents: r.LimitCents},
		UserID:     r.UserID,
		CategoryID: r.CategoryID,
		Month:      r.Month,
		Year:       r.Year,
		CreatedAt:  r.CreatedAt.UTC(),
		UpdatedAt:  r.UpdatedAt.UTC(),
	}
	if r.Category != nil {
		b.Category = &core.CategoryRef{Name: r.Category.Name}
	}
	return b
}
