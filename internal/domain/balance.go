package domain

import "github.com/shopspring/decimal"

// AssetBalance is one entry from the node's asset-balance listing. Amounts
// are raw integers in minimal asset units.
type AssetBalance struct {
	AssetID string `json:"assetId"`
	Balance int64  `json:"balance"`
}

// AccountBalance is the node's native-coin balance for an address.
type AccountBalance struct {
	Address string `json:"address"`
	Balance int64  `json:"balance"`
}

// Lease is an active leasing transaction touching an account. Only leases
// whose Sender equals the account's own address reduce its spendable
// balance.
type Lease struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
}

// AssetMetadata is resolved asset info. IsGeneral marks assets configured
// to always appear in a balance list.
type AssetMetadata struct {
	AssetID   string `json:"assetId"`
	Name      string `json:"name"`
	Decimals  int32  `json:"decimals"`
	IsGeneral bool   `json:"isGeneral"`
}

// BalanceSettings are the per-record display settings computed by the
// orderer and persisted alongside the record.
type BalanceSettings struct {
	SortRank   float64 `json:"sortRank"`
	IsFavorite bool    `json:"isFavorite"`
}

// BalanceRecord is one entry per asset known for an account. Metadata and
// Settings are nil until resolved; a record without metadata is still
// displayable.
type BalanceRecord struct {
	AssetID         string           `json:"assetId"`
	Balance         int64            `json:"balance"`
	ReservedBalance int64            `json:"reservedBalance"`
	LeasedBalance   int64            `json:"leasedBalance"`
	Metadata        *AssetMetadata   `json:"metadata,omitempty"`
	Settings        *BalanceSettings `json:"settings,omitempty"`
}

// Available returns the spendable part of the balance: the raw amount minus
// leased-out and order-reserved portions.
func (r BalanceRecord) Available() int64 {
	return r.Balance - r.LeasedBalance - r.ReservedBalance
}

// DisplayAmount scales the raw balance by the asset's decimals. Without
// metadata the raw amount is returned unscaled.
func (r BalanceRecord) DisplayAmount() decimal.Decimal {
	if r.Metadata == nil {
		return decimal.New(r.Balance, 0)
	}
	return decimal.New(r.Balance, -r.Metadata.Decimals)
}

// DisplayName returns the resolved asset name, falling back to the asset id.
func (r BalanceRecord) DisplayName() string {
	if r.Metadata != nil && r.Metadata.Name != "" {
		return r.Metadata.Name
	}
	return r.AssetID
}
