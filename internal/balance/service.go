// Package balance holds the aggregation engine: it fans out to the chain
// data sources, merges their results into one record per asset, resolves
// metadata, orders the set for display and reconciles it into the store.
package balance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/mebelplatform/wavesbalance/internal/domain"
)

// ErrSourceUnavailable wraps a hard failure of the asset-balance, the
// account-balance or the leasing source. The store is left untouched when
// it is returned.
var ErrSourceUnavailable = errors.New("balance source unavailable")

// ErrMetadataUnavailable wraps a failed metadata resolution. The whole
// aggregation is aborted; individual ids unknown to the data service are
// fine and merely leave their records without metadata.
var ErrMetadataUnavailable = errors.New("asset metadata unavailable")

// AssetBalanceSource lists the issued-asset balances of an address.
type AssetBalanceSource interface {
	AssetBalances(ctx context.Context, address string) ([]domain.AssetBalance, error)
}

// AccountBalanceSource returns the native-coin balance of an address.
type AccountBalanceSource interface {
	AccountBalance(ctx context.Context, address string) (domain.AccountBalance, error)
}

// LeasingSource lists the active leases involving an address.
type LeasingSource interface {
	ActiveLeases(ctx context.Context, address string) ([]domain.Lease, error)
}

// ReservedBalanceSource returns the amounts locked by open orders, keyed
// by asset id. It is the only source allowed to fail without aborting an
// aggregation.
type ReservedBalanceSource interface {
	ReservedBalances(ctx context.Context, address string) (map[string]int64, error)
}

// MetadataSource resolves asset ids to their metadata.
type MetadataSource interface {
	Resolve(ctx context.Context, assetIDs []string, address string) (map[string]domain.AssetMetadata, error)
}

// accountState tracks aggregation generations for one address so that a
// superseded call cannot overwrite data a newer call already committed.
type accountState struct {
	issued atomic.Uint64

	mu        sync.Mutex // serializes reconciliations for the address
	committed uint64
}

// Service aggregates balances for tracked accounts.
type Service struct {
	assets   AssetBalanceSource
	account  AccountBalanceSource
	leasing  LeasingSource
	reserved ReservedBalanceSource
	metadata MetadataSource
	repo     Repository
	env      domain.Environment

	mu     sync.Mutex
	states map[string]*accountState
}

// NewService creates a balance aggregation service.
func NewService(
	assets AssetBalanceSource,
	account AccountBalanceSource,
	leasing LeasingSource,
	reserved ReservedBalanceSource,
	metadata MetadataSource,
	repo Repository,
	env domain.Environment,
) *Service {
	return &Service{
		assets:   assets,
		account:  account,
		leasing:  leasing,
		reserved: reserved,
		metadata: metadata,
		repo:     repo,
		env:      env,
		states:   make(map[string]*accountState),
	}
}

// FetchBalances runs one full aggregation for the address: the four source
// fetches run concurrently, their results are merged, enriched with
// metadata, ordered, and reconciled into the store. A failure of the
// asset-balance, account-balance or leasing fetch aborts the call; a
// failure of the reserved-balance fetch is treated as "no open orders".
// After a successful call the store holds exactly the returned records.
//
// Two concurrent calls for the same address are allowed; the one started
// later wins the store, the earlier one skips its reconciliation if it
// finishes after the newer one committed.
func (s *Service) FetchBalances(ctx context.Context, address string) ([]domain.BalanceRecord, error) {
	state := s.state(address)
	generation := state.issued.Add(1)

	var (
		assets   []domain.AssetBalance
		account  domain.AccountBalance
		leases   []domain.Lease
		reserved map[string]int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if assets, err = s.assets.AssetBalances(gctx, address); err != nil {
			return fmt.Errorf("asset balances: %w: %w", ErrSourceUnavailable, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if account, err = s.account.AccountBalance(gctx, address); err != nil {
			return fmt.Errorf("account balance: %w: %w", ErrSourceUnavailable, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if leases, err = s.leasing.ActiveLeases(gctx, address); err != nil {
			return fmt.Errorf("active leases: %w: %w", ErrSourceUnavailable, err)
		}
		return nil
	})
	g.Go(func() error {
		r, err := s.reserved.ReservedBalances(gctx, address)
		if err != nil {
			slog.Warn("reserved balances unavailable, assuming none",
				"address", address, "error", err)
			reserved = map[string]int64{}
			return nil
		}
		reserved = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	generalIDs := s.env.GeneralAssetIDs()
	records := mergeBalances(assets, account, leases, reserved, generalIDs)

	ids := lo.Map(records, func(rec domain.BalanceRecord, _ int) string {
		return rec.AssetID
	})
	resolved, err := s.metadata.Resolve(ctx, ids, address)
	if err != nil {
		return nil, fmt.Errorf("resolving metadata: %w: %w", ErrMetadataUnavailable, err)
	}
	for i := range records {
		if metadata, ok := resolved[records[i].AssetID]; ok {
			records[i].Metadata = &metadata
		}
	}

	records = orderBalances(records, generalIDs)

	if err := s.commit(ctx, state, address, generation, records); err != nil {
		return nil, err
	}
	return records, nil
}

// Update upserts a single record for the address without touching the
// rest of the persisted set.
func (s *Service) Update(ctx context.Context, address string, record domain.BalanceRecord) error {
	if err := s.repo.Update(ctx, address, record); err != nil {
		return fmt.Errorf("updating balance record: %w", err)
	}
	return nil
}

// Balances returns the persisted balance set of the address without
// hitting any remote source.
func (s *Service) Balances(ctx context.Context, address string) ([]domain.BalanceRecord, error) {
	return s.repo.ListByAddress(ctx, address)
}

// Balance returns one persisted record, or ErrNotFound.
func (s *Service) Balance(ctx context.Context, address, assetID string) (domain.BalanceRecord, error) {
	return s.repo.Get(ctx, address, assetID)
}

func (s *Service) state(address string) *accountState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[address]
	if !ok {
		state = &accountState{}
		s.states[address] = state
	}
	return state
}

func (s *Service) commit(ctx context.Context, state *accountState, address string, generation uint64, records []domain.BalanceRecord) error {
	state.mu.Lock()
	defer state.mu.Unlock()

	if generation <= state.committed {
		slog.Debug("skipping reconciliation superseded by a newer aggregation",
			"address", address)
		return nil
	}

	if err := s.repo.Reconcile(ctx, address, records); err != nil {
		return fmt.Errorf("reconciling balances: %w", err)
	}
	state.committed = generation
	return nil
}
