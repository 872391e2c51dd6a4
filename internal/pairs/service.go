// Package pairs manages the per-network trading pair list. The native
// reference market is an implicit member: always listed first, never
// stored, never removable.
package pairs

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/mebelplatform/wavesbalance/internal/domain"
)

// ErrDefaultPair is returned when a caller tries to add or remove the
// implicit default pair.
var ErrDefaultPair = errors.New("default trading pair is implicit and cannot be changed")

// ErrDuplicatePair is returned when the pair is already in the list.
var ErrDuplicatePair = errors.New("trading pair already in the list")

// ErrPairNotFound is returned when removing a pair that is not in the list.
var ErrPairNotFound = errors.New("trading pair not in the list")

// Service manages the trading pair list of one environment.
type Service struct {
	repo Repository
	env  domain.Environment
}

// NewService creates a trading pair service.
func NewService(repo Repository, env domain.Environment) *Service {
	return &Service{repo: repo, env: env}
}

// List returns the pair list: the default pair first, then the stored
// pairs in insertion order. A stored duplicate of the default pair is
// never surfaced.
func (s *Service) List(ctx context.Context) ([]domain.TradingPair, error) {
	stored, err := s.repo.List(ctx, s.env.Network)
	if err != nil {
		return nil, err
	}

	defaultPair := domain.DefaultPair(s.env)
	stored = lo.Filter(stored, func(p domain.TradingPair, _ int) bool {
		return !p.Equal(defaultPair)
	})
	return append([]domain.TradingPair{defaultPair}, stored...), nil
}

// Add validates and stores a new pair.
func (s *Service) Add(ctx context.Context, amountAssetID, priceAssetID string) (domain.TradingPair, error) {
	pair, err := domain.NewTradingPair(amountAssetID, priceAssetID, s.env.Network)
	if err != nil {
		return domain.TradingPair{}, err
	}
	if pair.Equal(domain.DefaultPair(s.env)) {
		return domain.TradingPair{}, fmt.Errorf("adding %s: %w", pair.Key(), ErrDefaultPair)
	}

	added, err := s.repo.Add(ctx, pair)
	if err != nil {
		return domain.TradingPair{}, err
	}
	if !added {
		return domain.TradingPair{}, fmt.Errorf("adding %s: %w", pair.Key(), ErrDuplicatePair)
	}
	return pair, nil
}

// Remove deletes a stored pair.
func (s *Service) Remove(ctx context.Context, amountAssetID, priceAssetID string) error {
	pair, err := domain.NewTradingPair(amountAssetID, priceAssetID, s.env.Network)
	if err != nil {
		return err
	}
	if pair.Equal(domain.DefaultPair(s.env)) {
		return fmt.Errorf("removing %s: %w", pair.Key(), ErrDefaultPair)
	}

	removed, err := s.repo.Remove(ctx, pair)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("removing %s: %w", pair.Key(), ErrPairNotFound)
	}
	return nil
}
