package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/core"
	applog "ledger/internal/log"
	"ledger/internal/storage"
)

// TransactionInput carries the fields of a create or a partial update.
// Nil fields are left unchanged on update.
type TransactionInput struct {
	Amount      *core.Money
	Description *string
	Type        *core.EntryType
	Date        *time.Time
	CategoryID  *string
}

// TransactionService applies the owner-or-admin rule to transaction CRUD
// and announces every change to the event publisher, when there is one.
type TransactionService struct {
	transactions TransactionStore
	categories   CategoryStore
	events       EventPublisher
	now          func() time.Time
}

func NewTransactionService(transactions TransactionStore, categories CategoryStore, events EventPublisher) *TransactionService {
	return &TransactionService{
		transactions: transactions,
		categories:   categories,
		events:       events,
		now:          time.Now,
	}
}

// List returns the caller's transactions, or everyone's with owner details for admins.
func (s *TransactionService) List(ctx context.Context, p core.Principal) ([]core.Transaction, error) {
	txs, err := s.transactions.List(ctx, visibility(p))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

func visibility(p core.Principal) storage.TransactionFilter {
	if p.IsAdmin() {
		return storage.TransactionFilter{IncludeOwner: true}
	}
	return storage.TransactionFilter{UserID: p.UserID}
}

// Create records a transaction owned by the caller.
func (s *TransactionService) Create(ctx context.Context, p core.Principal, in TransactionInput) (core.Transaction, error) {
	if in.CategoryID == nil || strings.TrimSpace(*in.CategoryID) == "" {
		return core.Transaction{}, core.Invalid("categoryId", "Category ID is required")
	}

	t := core.Transaction{
		UserID:     p.UserID,
		CategoryID: strings.TrimSpace(*in.CategoryID),
		Date:       s.now().UTC(),
	}
	if in.Amount != nil {
		t.Amount = *in.Amount
	}
	if in.Type != nil {
		t.Type = *in.Type
	}
	if in.Description != nil {
		t.Description = strings.TrimSpace(*in.Description)
	}
	if in.Date != nil {
		t.Date = in.Date.UTC()
	}

	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.checkCategory(ctx, t.UserID, t.CategoryID); err != nil {
		return core.Transaction{}, err
	}

	created, err := s.transactions.Create(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	s.announce(ctx, created, amqp.ActionCreated, applog.OpCreate)
	return created, nil
}

// Update changes the provided fields of transaction id.
func (s *TransactionService) Update(ctx context.Context, p core.Principal, id string, in TransactionInput) (core.Transaction, error) {
	t, err := s.authorize(ctx, p, id)
	if err != nil {
		return core.Transaction{}, err
	}

	if in.Amount != nil {
		t.Amount = *in.Amount
	}
	if in.Type != nil {
		t.Type = *in.Type
	}
	if in.Description != nil {
		t.Description = strings.TrimSpace(*in.Description)
	}
	if in.Date != nil {
		t.Date = in.Date.UTC()
	}
	if in.CategoryID != nil {
		t.CategoryID = strings.TrimSpace(*in.CategoryID)
	}

	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if in.CategoryID != nil {
		if err := s.checkCategory(ctx, t.UserID, t.CategoryID); err != nil {
			return core.Transaction{}, err
		}
	}

	updated, err := s.transactions.Update(ctx, t)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Transaction{}, core.Fail(core.ErrNotFound, "Not found")
		}
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	s.announce(ctx, updated, amqp.ActionUpdated, applog.OpUpdate)
	return updated, nil
}

func (s *TransactionService) Delete(ctx context.Context, p core.Principal, id string) error {
	t, err := s.authorize(ctx, p, id)
	if err != nil {
		return err
	}

	if err := s.transactions.Delete(ctx, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Fail(core.ErrNotFound, "Not found")
		}
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.announce(ctx, t, amqp.ActionDeleted, applog.OpDelete)
	return nil
}

// authorize loads transaction id and applies the owner-or-admin rule.
func (s *TransactionService) authorize(ctx context.Context, p core.Principal, id string) (core.Transaction, error) {
	t, err := s.transactions.FindByID(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		return core.Transaction{}, core.Fail(core.ErrNotFound, "Not found")
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("find transaction: %w", err)
	}
	if !p.CanModify(t.UserID) {
		return core.Transaction{}, core.Fail(core.ErrForbidden, "Access denied")
	}
	return t, nil
}

// checkCategory rejects ids that do not exist or that ownerID cannot see.
// The record owner's visibility applies even when an admin makes the change.
func (s *TransactionService) checkCategory(ctx context.Context, ownerID, categoryID string) error {
	c, err := s.categories.FindByID(ctx, categoryID)
	if errors.Is(err, core.ErrNotFound) {
		return core.Invalid("categoryId", "Category not found")
	}
	if err != nil {
		return fmt.Errorf("find category: %w", err)
	}
	if c.UserID != nil && *c.UserID != ownerID {
		return core.Invalid("categoryId", "Category not found")
	}
	return nil
}

// announce logs the change and publishes it. Publish failures never fail the request.
func (s *TransactionService) announce(ctx context.Context, t core.Transaction, action amqp.Action, op string) {
	logger := applog.FromContext(ctx)
	applog.NewStructuredLogger(logger).
		LogTransactionChange(ctx, op, t.ID, t.UserID, t.CategoryID, string(t.Type), t.Amount.Cents)

	if s.events == nil {
		return
	}
	if err := s.events.PublishTransactionEvent(ctx, amqp.NewTransactionEvent(t.ID, action, t.UserID)); err != nil {
		logger.WithComponent(applog.ComponentAMQP).WarnContext(ctx, "Failed to publish transaction event",
			applog.FieldTransactionID, t.ID,
			applog.FieldError, err.Error())
	}
}
