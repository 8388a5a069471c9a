package services

import (
	"context"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/storage"
)

// Store ports. The storage package satisfies them; tests use fakes.
type (
	UserStore interface {
		Create(ctx context.Context, u core.User) (core.User, error)
		FindByEmail(ctx context.Context, email string) (core.User, error)
		FindByID(ctx context.Context, id string) (core.User, error)
	}

	CategoryStore interface {
		ListVisible(ctx context.Context, userID string) ([]core.Category, error)
		Create(ctx context.Context, c core.Category) (core.Category, error)
		FindByID(ctx context.Context, id string) (core.Category, error)
		FindSystemByName(ctx context.Context, name string) (core.Category, error)
	}

	TransactionStore interface {
		List(ctx context.Context, f storage.TransactionFilter) ([]core.Transaction, error)
		FindByID(ctx context.Context, id string) (core.Transaction, error)
		Create(ctx context.Context, t core.Transaction) (core.Transaction, error)
		Update(ctx context.Context, t core.Transaction) (core.Transaction, error)
		Delete(ctx context.Context, id string) error
	}

	BudgetStore interface {
		List(ctx context.Context, userID string, month, year int) ([]core.Budget, error)
		Upsert(ctx context.Context, b core.Budget) (core.Budget, error)
	}
)

// EventPublisher receives transaction change notifications.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, e amqp.TransactionEvent) error
}

// TokenIssuer signs session tokens for authenticated users.
type TokenIssuer interface {
	Issue(user core.User) (string, error)
}

// TokenRevoker invalidates a token id before its expiry.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
}

var (
	_ UserStore        = (*storage.UserRepository)(nil)
	_ CategoryStore    = (*storage.CategoryRepository)(nil)
	_ TransactionStore = (*storage.TransactionRepository)(nil)
	_ BudgetStore      = (*storage.BudgetRepository)(nil)
	_ EventPublisher   = (*amqp.Client)(nil)
)
