package storage

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"ledger/internal/core"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db.Gorm()}
}

// Create stores u and returns it with its generated ID.
// A second user with the same email yields core.ErrConflict.
func (r *UserRepository) Create(ctx context.Context, u core.User) (core.User, error) {
	row := userRowFrom(u)
	row.Email = strings.ToLower(strings.TrimSpace(row.Email))
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return core.User{}, translate(err, "create user")
	}
	return row.toCore(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (core.User, error) {
	var row UserRow
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Take(&row).Error
	if err != nil {
		return core.User{}, translate(err, "find user by email")
	}
	return row.toCore(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (core.User, error) {
	var row UserRow
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		return core.User{}, translate(err, "find user")
	}
	return row.toCore(), nil
}
