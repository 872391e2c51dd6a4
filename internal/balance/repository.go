package balance

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"

	"github.com/mebelplatform/wavesbalance/internal/domain"
)

// ErrNotFound indicates that the requested balance record was not found.
var ErrNotFound = errors.New("balance record not found")

// Repository defines persistent storage for balance records.
type Repository interface {
	Reconcile(ctx context.Context, address string, records []domain.BalanceRecord) error
	Update(ctx context.Context, address string, record domain.BalanceRecord) error
	ListByAddress(ctx context.Context, address string) ([]domain.BalanceRecord, error)
	Get(ctx context.Context, address, assetID string) (domain.BalanceRecord, error)
}

// PgRepository implements Repository with PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL balance repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Reconcile replaces the persisted balance set of the address with the
// given records in a single transaction: records whose asset id is not in
// the new set are deleted together with their settings, everything else is
// upserted. On error the store keeps its previous content.
func (r *PgRepository) Reconcile(ctx context.Context, address string, records []domain.BalanceRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning reconciliation: %w", err)
	}
	defer tx.Rollback(ctx)

	ids := lo.Map(records, func(rec domain.BalanceRecord, _ int) string {
		return rec.AssetID
	})

	if _, err := tx.Exec(ctx,
		`DELETE FROM balance_settings
		 WHERE address = $1 AND NOT (asset_id = ANY($2))`, address, ids); err != nil {
		return fmt.Errorf("deleting stale settings: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM asset_balances
		 WHERE address = $1 AND NOT (asset_id = ANY($2))`, address, ids); err != nil {
		return fmt.Errorf("deleting stale balances: %w", err)
	}

	for _, rec := range records {
		if err := upsertRecord(ctx, tx, address, rec); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing reconciliation: %w", err)
	}
	return nil
}

// Update upserts a single record and its settings without touching any
// other persisted record.
func (r *PgRepository) Update(ctx context.Context, address string, record domain.BalanceRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning update: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := upsertRecord(ctx, tx, address, record); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing update: %w", err)
	}
	return nil
}

func upsertRecord(ctx context.Context, tx pgx.Tx, address string, rec domain.BalanceRecord) error {
	var (
		name      *string
		decimals  *int32
		isGeneral *bool
	)
	if rec.Metadata != nil {
		name = &rec.Metadata.Name
		decimals = &rec.Metadata.Decimals
		isGeneral = &rec.Metadata.IsGeneral
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO asset_balances
		     (address, asset_id, balance, reserved_balance, leased_balance, name, decimals, is_general, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		 ON CONFLICT (address, asset_id) DO UPDATE SET
		     balance = EXCLUDED.balance,
		     reserved_balance = EXCLUDED.reserved_balance,
		     leased_balance = EXCLUDED.leased_balance,
		     name = EXCLUDED.name,
		     decimals = EXCLUDED.decimals,
		     is_general = EXCLUDED.is_general,
		     updated_at = now()`,
		address, rec.AssetID, rec.Balance, rec.ReservedBalance, rec.LeasedBalance,
		name, decimals, isGeneral); err != nil {
		return fmt.Errorf("upserting balance %s: %w", rec.AssetID, err)
	}

	if rec.Settings == nil {
		if _, err := tx.Exec(ctx,
			`DELETE FROM balance_settings WHERE address = $1 AND asset_id = $2`,
			address, rec.AssetID); err != nil {
			return fmt.Errorf("clearing settings %s: %w", rec.AssetID, err)
		}
		return nil
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO balance_settings (address, asset_id, sort_rank, is_favorite)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (address, asset_id) DO UPDATE SET
		     sort_rank = EXCLUDED.sort_rank,
		     is_favorite = EXCLUDED.is_favorite`,
		address, rec.AssetID, rec.Settings.SortRank, rec.Settings.IsFavorite); err != nil {
		return fmt.Errorf("upserting settings %s: %w", rec.AssetID, err)
	}
	return nil
}

// ListByAddress returns the persisted balance set of the address in stored
// sort order.
func (r *PgRepository) ListByAddress(ctx context.Context, address string) ([]domain.BalanceRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT b.asset_id, b.balance, b.reserved_balance, b.leased_balance,
		        b.name, b.decimals, b.is_general,
		        s.sort_rank, s.is_favorite
		 FROM asset_balances b
		 LEFT JOIN balance_settings s
		   ON s.address = b.address AND s.asset_id = b.asset_id
		 WHERE b.address = $1
		 ORDER BY s.sort_rank NULLS LAST, b.asset_id`, address)
	if err != nil {
		return nil, fmt.Errorf("listing balances: %w", err)
	}
	defer rows.Close()

	var records []domain.BalanceRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating balances: %w", err)
	}
	return records, nil
}

// Get returns one persisted balance record, or ErrNotFound.
func (r *PgRepository) Get(ctx context.Context, address, assetID string) (domain.BalanceRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT b.asset_id, b.balance, b.reserved_balance, b.leased_balance,
		        b.name, b.decimals, b.is_general,
		        s.sort_rank, s.is_favorite
		 FROM asset_balances b
		 LEFT JOIN balance_settings s
		   ON s.address = b.address AND s.asset_id = b.asset_id
		 WHERE b.address = $1 AND b.asset_id = $2`, address, assetID)
	if err != nil {
		return domain.BalanceRecord{}, fmt.Errorf("getting balance %s: %w", assetID, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return domain.BalanceRecord{}, fmt.Errorf("getting balance %s: %w", assetID, err)
		}
		return domain.BalanceRecord{}, ErrNotFound
	}
	return scanRecord(rows)
}

func scanRecord(rows pgx.Rows) (domain.BalanceRecord, error) {
	var (
		rec        domain.BalanceRecord
		name       *string
		decimals   *int32
		isGeneral  *bool
		sortRank   *float64
		isFavorite *bool
	)
	if err := rows.Scan(&rec.AssetID, &rec.Balance, &rec.ReservedBalance, &rec.LeasedBalance,
		&name, &decimals, &isGeneral, &sortRank, &isFavorite); err != nil {
		return domain.BalanceRecord{}, fmt.Errorf("scanning balance: %w", err)
	}

	if name != nil && decimals != nil && isGeneral != nil {
		rec.Metadata = &domain.AssetMetadata{
			AssetID:   rec.AssetID,
			Name:      *name,
			Decimals:  *decimals,
			IsGeneral: *isGeneral,
		}
	}
	if sortRank != nil && isFavorite != nil {
		rec.Settings = &domain.BalanceSettings{
			SortRank:   *sortRank,
			IsFavorite: *isFavorite,
		}
	}
	return rec, nil
}
