// Package worker keeps the spreadsheet mirror in step with the transactions table.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/sheets"
)

// RecordSource produces the export table for a principal.
type RecordSource interface {
	Records(ctx context.Context, p core.Principal) ([][]string, error)
}

// mirrorScope sees every user's transactions, like an admin export.
var mirrorScope = core.Principal{UserID: "ledger-worker", Role: core.RoleAdmin}

// SyncWorker rewrites the mirror from the export rows on every event and on a timer.
type SyncWorker struct {
	source   RecordSource
	mirror   sheets.Mirror
	interval time.Duration

	mu       sync.Mutex
	lastSync time.Time
	lastRows int
}

func NewSyncWorker(source RecordSource, mirror sheets.Mirror, interval time.Duration) *SyncWorker {
	return &SyncWorker{source: source, mirror: mirror, interval: interval}
}

// HandleTransactionEvent resyncs the mirror after a transaction change.
func (w *SyncWorker) HandleTransactionEvent(ctx context.Context, e amqp.TransactionEvent) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"component", "worker",
		"transaction_id", e.ID,
		"action", string(e.Action))

	if err := w.Sync(ctx); err != nil {
		return fmt.Errorf("sync after %s %s: %w", e.Action, e.ID, err)
	}
	return nil
}

// Sync copies the current export table into the mirror. Calls are serialized.
func (w *SyncWorker) Sync(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	start := time.Now()
	records, err := w.source.Records(ctx, mirrorScope)
	if err != nil {
		return fmt.Errorf("load export rows: %w", err)
	}
	if err := w.mirror.Replace(ctx, records); err != nil {
		return fmt.Errorf("replace mirror: %w", err)
	}

	w.lastSync = time.Now()
	w.lastRows = len(records) - 1
	slog.InfoContext(ctx, "Mirror synced",
		"component", "worker",
		"rows", w.lastRows,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

// RunPeriodic syncs once at startup and then every interval until ctx is done.
// Failures are logged; the next tick retries.
func (w *SyncWorker) RunPeriodic(ctx context.Context) error {
	if err := w.Sync(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup sync failed", "component", "worker", "error", err)
	}
	if w.interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Sync(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic sync failed", "component", "worker", "error", err)
			}
		}
	}
}

// LastSync reports when the mirror was last written and how many data rows it got.
func (w *SyncWorker) LastSync() (time.Time, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSync, w.lastRows
}
