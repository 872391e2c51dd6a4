package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mebelplatform/wavesbalance/internal/domain"
)

type mockRefresher struct {
	callCount atomic.Int32
	failFor   string
}

func (m *mockRefresher) FetchBalances(_ context.Context, address string) ([]domain.BalanceRecord, error) {
	m.callCount.Add(1)
	if address == m.failFor {
		return nil, errors.New("source down")
	}
	return []domain.BalanceRecord{{AssetID: domain.NativeAssetID, Balance: 100}}, nil
}

type mockHook struct {
	mu    sync.Mutex
	calls []map[string][]domain.BalanceRecord
}

func (m *mockHook) Export(_ context.Context, balances map[string][]domain.BalanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, balances)
	return nil
}

func TestRefreshWorkerRunsAndShutdown(t *testing.T) {
	mock := &mockRefresher{}
	w := NewRefreshWorker(mock, []string{"addr1", "addr2"}, 50*time.Millisecond, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	w.Run(ctx)

	if got := mock.callCount.Load(); got < 2 {
		t.Errorf("call count = %d, want >= 2 (one initial round)", got)
	}
}

func TestRefreshWorkerCallsHook(t *testing.T) {
	hook := &mockHook{}
	w := NewRefreshWorker(&mockRefresher{}, []string{"addr1"}, time.Hour, hook)

	w.refreshAll(context.Background())

	if len(hook.calls) != 1 {
		t.Fatalf("hook calls = %d, want 1", len(hook.calls))
	}
	if len(hook.calls[0]["addr1"]) != 1 {
		t.Errorf("hook payload = %v, want addr1 records", hook.calls[0])
	}
}

func TestRefreshWorkerOneFailureDoesNotStopRound(t *testing.T) {
	hook := &mockHook{}
	w := NewRefreshWorker(&mockRefresher{failFor: "addr1"}, []string{"addr1", "addr2"}, time.Hour, hook)

	w.refreshAll(context.Background())

	if len(hook.calls) != 1 {
		t.Fatalf("hook calls = %d, want 1", len(hook.calls))
	}
	round := hook.calls[0]
	if _, ok := round["addr1"]; ok {
		t.Error("failed address must not be in the hook payload")
	}
	if _, ok := round["addr2"]; !ok {
		t.Error("healthy address missing from the hook payload")
	}
}

func TestRefreshWorkerNoHookCallWhenAllFail(t *testing.T) {
	hook := &mockHook{}
	w := NewRefreshWorker(&mockRefresher{failFor: "addr1"}, []string{"addr1"}, time.Hour, hook)

	w.refreshAll(context.Background())

	if len(hook.calls) != 0 {
		t.Errorf("hook calls = %d, want 0", len(hook.calls))
	}
}
