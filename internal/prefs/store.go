// Package prefs is a per-address key-value store for small display
// preferences. Values are opaque strings; callers own their encoding.
package prefs

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Keys used by the application. The store itself accepts any key.
const (
	KeyTimeFrame    = "timeFrame"
	KeyChartEnabled = "chartEnabled"
	KeyHiddenAssets = "hiddenAssets"
)

// ErrNotFound indicates that the key is not set for the address.
var ErrNotFound = errors.New("preference not found")

// Store persists per-address preferences.
type Store interface {
	Get(ctx context.Context, address, key string) (string, error)
	Set(ctx context.Context, address, key, value string) error
	All(ctx context.Context, address string) (map[string]string, error)
	Delete(ctx context.Context, address, key string) error
}

// PgStore implements Store with PostgreSQL.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore creates a PostgreSQL preference store.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

// Get returns the value of one key, or ErrNotFound.
func (s *PgStore) Get(ctx context.Context, address, key string) (string, error) {
	var value string
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM prefs WHERE address = $1 AND key = $2`, address, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("getting preference %s: %w", key, err)
	}
	return value, nil
}

// Set stores one key, overwriting any previous value.
func (s *PgStore) Set(ctx context.Context, address, key, value string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO prefs (address, key, value)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (address, key) DO UPDATE SET value = $3, updated_at = now()`,
		address, key, value)
	if err != nil {
		return fmt.Errorf("setting preference %s: %w", key, err)
	}
	return nil
}

// All returns every preference of the address.
func (s *PgStore) All(ctx context.Context, address string) (map[string]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT key, value FROM prefs WHERE address = $1`, address)
	if err != nil {
		return nil, fmt.Errorf("listing preferences: %w", err)
	}
	defer rows.Close()

	prefs := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scanning preference: %w", err)
		}
		prefs[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating preferences: %w", err)
	}
	return prefs, nil
}

// Delete removes one key. Deleting an unset key is not an error.
func (s *PgStore) Delete(ctx context.Context, address, key string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM prefs WHERE address = $1 AND key = $2`, address, key)
	if err != nil {
		return fmt.Errorf("deleting preference %s: %w", key, err)
	}
	return nil
}
