package export

import (
	"context"
	"log/slog"
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mebelplatform/wavesbalance/internal/domain"
)

// Row is one exported balance line. Amounts are scaled to display units
// using the asset's resolved decimals; records without metadata keep raw
// units.
type Row struct {
	Address   string
	AssetID   string
	Name      string
	Balance   decimal.Decimal
	Available decimal.Decimal
	Leased    decimal.Decimal
	Reserved  decimal.Decimal
	Favorite  bool
}

// ReportWriter writes balance rows to a report destination.
type ReportWriter interface {
	Write(ctx context.Context, rows []Row) error
}

// Service renders aggregated balances into report rows and delegates
// writing to the configured destinations.
type Service struct {
	writers []ReportWriter
}

// NewService creates a new export Service.
func NewService(writers ...ReportWriter) *Service {
	return &Service{writers: writers}
}

// Export builds report rows from the given per-address balances and writes
// them to every configured destination. A failing writer does not stop the
// remaining ones; the first failure is returned.
// Implements worker.AfterRefreshHook.
func (s *Service) Export(ctx context.Context, balances map[string][]domain.BalanceRecord) error {
	rows := BuildRows(balances)

	var firstErr error
	for _, w := range s.writers {
		if err := w.Write(ctx, rows); err != nil {
			slog.Error("export: report writer failed", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// BuildRows flattens per-address balance records into report rows. Addresses
// are ordered lexically; records keep their order within an address.
func BuildRows(balances map[string][]domain.BalanceRecord) []Row {
	addresses := lo.Keys(balances)
	sort.Strings(addresses)

	total := lo.SumBy(addresses, func(address string) int { return len(balances[address]) })

	rows := make([]Row, 0, total)
	for _, address := range addresses {
		for _, record := range balances[address] {
			rows = append(rows, buildRow(address, record))
		}
	}
	return rows
}

func buildRow(address string, record domain.BalanceRecord) Row {
	row := Row{
		Address:   address,
		AssetID:   record.AssetID,
		Name:      record.DisplayName(),
		Balance:   scaled(record.Balance, record.Metadata),
		Available: scaled(record.Available(), record.Metadata),
		Leased:    scaled(record.LeasedBalance, record.Metadata),
		Reserved:  scaled(record.ReservedBalance, record.Metadata),
	}
	if record.Settings != nil {
		row.Favorite = record.Settings.IsFavorite
	}
	return row
}

func scaled(amount int64, metadata *domain.AssetMetadata) decimal.Decimal {
	if metadata == nil {
		return decimal.New(amount, 0)
	}
	return decimal.New(amount, -metadata.Decimals)
}
