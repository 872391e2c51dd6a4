package pairs

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mebelplatform/wavesbalance/internal/domain"
)

// Repository defines persistent storage for user-added trading pairs. The
// default pair never passes through it.
type Repository interface {
	List(ctx context.Context, network domain.Network) ([]domain.TradingPair, error)
	Add(ctx context.Context, pair domain.TradingPair) (bool, error)
	Remove(ctx context.Context, pair domain.TradingPair) (bool, error)
}

// PgRepository implements Repository with PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL trading pair repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// List returns the stored pairs of the network in insertion order.
func (r *PgRepository) List(ctx context.Context, network domain.Network) ([]domain.TradingPair, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT amount_asset_id, price_asset_id
		 FROM trading_pairs
		 WHERE network = $1
		 ORDER BY created_at, amount_asset_id`, string(network))
	if err != nil {
		return nil, fmt.Errorf("listing trading pairs: %w", err)
	}
	defer rows.Close()

	var pairs []domain.TradingPair
	for rows.Next() {
		p := domain.TradingPair{Network: network}
		if err := rows.Scan(&p.AmountAssetID, &p.PriceAssetID); err != nil {
			return nil, fmt.Errorf("scanning trading pair: %w", err)
		}
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trading pairs: %w", err)
	}
	return pairs, nil
}

// Add inserts the pair and reports whether it was new.
func (r *PgRepository) Add(ctx context.Context, pair domain.TradingPair) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO trading_pairs (network, amount_asset_id, price_asset_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT DO NOTHING`,
		string(pair.Network), pair.AmountAssetID, pair.PriceAssetID)
	if err != nil {
		return false, fmt.Errorf("adding trading pair %s: %w", pair.Key(), err)
	}
	return tag.RowsAffected() > 0, nil
}

// Remove deletes the pair and reports whether it existed.
func (r *PgRepository) Remove(ctx context.Context, pair domain.TradingPair) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM trading_pairs
		 WHERE network = $1 AND amount_asset_id = $2 AND price_asset_id = $3`,
		string(pair.Network), pair.AmountAssetID, pair.PriceAssetID)
	if err != nil {
		return false, fmt.Errorf("removing trading pair %s: %w", pair.Key(), err)
	}
	return tag.RowsAffected() > 0, nil
}
