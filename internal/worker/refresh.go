package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/mebelplatform/wavesbalance/internal/domain"
)

// BalanceRefresher runs one full aggregation for an address.
type BalanceRefresher interface {
	FetchBalances(ctx context.Context, address string) ([]domain.BalanceRecord, error)
}

// AfterRefreshHook is called after each refresh round with the results of
// the addresses that refreshed successfully.
type AfterRefreshHook interface {
	Export(ctx context.Context, balances map[string][]domain.BalanceRecord) error
}

// RefreshWorker keeps the persisted balance sets of the tracked accounts
// fresh. One failing address does not stop the round.
type RefreshWorker struct {
	refresher BalanceRefresher
	addresses []string
	interval  time.Duration
	hook      AfterRefreshHook // optional
}

// NewRefreshWorker creates a RefreshWorker with an optional post-round hook.
func NewRefreshWorker(refresher BalanceRefresher, addresses []string, interval time.Duration, hook AfterRefreshHook) *RefreshWorker {
	return &RefreshWorker{
		refresher: refresher,
		addresses: addresses,
		interval:  interval,
		hook:      hook,
	}
}

// Run starts the refresh loop. It blocks until the context is cancelled.
func (w *RefreshWorker) Run(ctx context.Context) {
	slog.Info("RefreshWorker: starting", "accounts", len(w.addresses))

	// Refresh immediately on startup
	w.refreshAll(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("RefreshWorker: shutting down")
			return
		case <-ticker.C:
			w.refreshAll(ctx)
		}
	}
}

func (w *RefreshWorker) refreshAll(ctx context.Context) {
	results := make(map[string][]domain.BalanceRecord, len(w.addresses))
	for _, address := range w.addresses {
		records, err := w.refresher.FetchBalances(ctx, address)
		if err != nil {
			slog.Error("RefreshWorker: refresh failed", "address", address, "error", err)
			continue
		}
		results[address] = records
	}
	slog.Info("RefreshWorker: round completed", "refreshed", len(results), "accounts", len(w.addresses))

	if len(results) > 0 {
		w.runHook(ctx, results)
	}
}

// runHook calls the post-round hook if one is configured.
func (w *RefreshWorker) runHook(ctx context.Context, balances map[string][]domain.BalanceRecord) {
	if w.hook == nil {
		return
	}
	if err := w.hook.Export(ctx, balances); err != nil {
		slog.Error("RefreshWorker: export hook failed", "error", err)
	} else {
		slog.Info("RefreshWorker: export hook completed")
	}
}
