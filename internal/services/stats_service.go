package services

import (
	"context"
	"fmt"
	"time"

	"ledger/internal/core"
)

// StatsService builds the dashboard figures over the caller's visible transactions.
type StatsService struct {
	transactions TransactionStore
	now          func() time.Time
}

func NewStatsService(transactions TransactionStore) *StatsService {
	return &StatsService{transactions: transactions, now: time.Now}
}

func (s *StatsService) Overview(ctx context.Context, p core.Principal) (core.Overview, error) {
	txs, err := s.transactions.List(ctx, visibility(p))
	if err != nil {
		return core.Overview{}, fmt.Errorf("stats: %w", err)
	}
	return core.Summarize(txs, s.now()), nil
}
