package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/storage"
)

type memStore struct {
	mu      sync.Mutex
	seq     int
	users   map[string]core.User
	cats    map[string]core.Category
	txs     map[string]core.Transaction
	budgets map[string]core.Budget
}

func newMemStore() *memStore {
	return &memStore{
		users:   map[string]core.User{},
		cats:    map[string]core.Category{},
		txs:     map[string]core.Transaction{},
		budgets: map[string]core.Budget{},
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

type memUsers struct{ *memStore }

func (m memUsers) Create(_ context.Context, u core.User) (core.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return core.User{}, fmt.Errorf("create user: %w", core.ErrConflict)
		}
	}
	u.ID = m.nextID("user")
	m.users[u.ID] = u
	return u, nil
}

func (m memUsers) FindByEmail(_ context.Context, email string) (core.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return core.User{}, core.ErrNotFound
}

func (m memUsers) FindByID(_ context.Context, id string) (core.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return core.User{}, core.ErrNotFound
}

type memCategories struct{ *memStore }

func (m memCategories) ListVisible(_ context.Context, userID string) ([]core.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.Category
	for _, c := range m.cats {
		if c.UserID == nil || *c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m memCategories) Create(_ context.Context, c core.Category) (core.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.nextID("cat")
	m.cats[c.ID] = c
	return c, nil
}

func (m memCategories) FindByID(_ context.Context, id string) (core.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.cats[id]; ok {
		return c, nil
	}
	return core.Category{}, core.ErrNotFound
}

func (m memCategories) FindSystemByName(_ context.Context, name string) (core.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.cats {
		if c.UserID == nil && c.Name == name {
			return c, nil
		}
	}
	return core.Category{}, core.ErrNotFound
}

type memTransactions struct{ *memStore }

func (m memTransactions) decorate(t core.Transaction, withOwner bool) core.Transaction {
	if c, ok := m.cats[t.CategoryID]; ok {
		t.Category = &core.CategoryRef{Name: c.Name}
	}
	if withOwner {
		if u, ok := m.users[t.UserID]; ok {
			t.User = &core.OwnerRef{Name: u.Name, Email: u.Email}
		}
	}
	return t
}

func (m memTransactions) List(_ context.Context, f storage.TransactionFilter) ([]core.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.Transaction
	for _, t := range m.txs {
		if f.UserID != "" && t.UserID != f.UserID {
			continue
		}
		out = append(out, m.decorate(t, f.IncludeOwner))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m memTransactions) FindByID(_ context.Context, id string) (core.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.txs[id]; ok {
		return m.decorate(t, false), nil
	}
	return core.Transaction{}, core.ErrNotFound
}

func (m memTransactions) Create(_ context.Context, t core.Transaction) (core.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = m.nextID("tx")
	t.CreatedAt = time.Now().UTC()
	t.UpdatedAt = t.CreatedAt
	m.txs[t.ID] = t
	return m.decorate(t, false), nil
}

func (m memTransactions) Update(_ context.Context, t core.Transaction) (core.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.txs[t.ID]; !ok {
		return core.Transaction{}, core.ErrNotFound
	}
	t.Category, t.User = nil, nil
	t.UpdatedAt = time.Now().UTC()
	m.txs[t.ID] = t
	return m.decorate(t, false), nil
}

func (m memTransactions) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.txs[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.txs, id)
	return nil
}

type memBudgets struct{ *memStore }

func budgetKey(b core.Budget) string {
	return fmt.Sprintf("%s|%s|%d|%d", b.UserID, b.CategoryID, b.Month, b.Year)
}

func (m memBudgets) List(_ context.Context, userID string, month, year int) ([]core.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.Budget
	for _, b := range m.budgets {
		if b.UserID == userID && b.Month == month && b.Year == year {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m memBudgets) Upsert(_ context.Context, b core.Budget) (core.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := budgetKey(b)
	if existing, ok := m.budgets[key]; ok {
		existing.Limit = b.Limit
		m.budgets[key] = existing
		return existing, nil
	}
	b.ID = m.nextID("budget")
	if c, ok := m.cats[b.CategoryID]; ok {
		b.Category = &core.CategoryRef{Name: c.Name}
	}
	m.budgets[key] = b
	return b, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []amqp.TransactionEvent
	err    error
}

func (p *recordingPublisher) PublishTransactionEvent(_ context.Context, e amqp.TransactionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

type fixedIssuer struct{}

func (fixedIssuer) Issue(u core.User) (string, error) { return "token-for-" + u.ID, nil }

type recordingRevoker struct {
	ids []string
}

func (r *recordingRevoker) Revoke(_ context.Context, id string, _ time.Time) error {
	r.ids = append(r.ids, id)
	return nil
}
