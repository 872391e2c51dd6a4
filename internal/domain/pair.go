package domain

import (
	"errors"
	"fmt"
)

// TradingPair is a market between two assets on one network. Uniqueness is
// on (amount, price) within a network.
type TradingPair struct {
	AmountAssetID string  `json:"amountAssetId"`
	PriceAssetID  string  `json:"priceAssetId"`
	Network       Network `json:"network"`
}

// NewTradingPair validates and builds a pair.
func NewTradingPair(amountAssetID, priceAssetID string, network Network) (TradingPair, error) {
	if amountAssetID == "" || priceAssetID == "" {
		return TradingPair{}, errors.New("trading pair: both asset ids are required")
	}
	if amountAssetID == priceAssetID {
		return TradingPair{}, fmt.Errorf("trading pair: amount and price asset are the same (%s)", amountAssetID)
	}
	if network != NetworkMain && network != NetworkTest {
		return TradingPair{}, fmt.Errorf("trading pair: unknown network %q", network)
	}
	return TradingPair{AmountAssetID: amountAssetID, PriceAssetID: priceAssetID, Network: network}, nil
}

// DefaultPair is the native-to-reference market for the environment. It is
// an implicit member of every pair list: resolved from the network flag,
// never persisted.
func DefaultPair(env Environment) TradingPair {
	return TradingPair{
		AmountAssetID: NativeAssetID,
		PriceAssetID:  env.ReferenceAssetID,
		Network:       env.Network,
	}
}

// Key identifies the market within its network.
func (p TradingPair) Key() string {
	return p.AmountAssetID + "/" + p.PriceAssetID
}

// Equal reports whether two pairs denote the same market on the same
// network.
func (p TradingPair) Equal(other TradingPair) bool {
	return p.AmountAssetID == other.AmountAssetID &&
		p.PriceAssetID == other.PriceAssetID &&
		p.Network == other.Network
}
