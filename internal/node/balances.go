package node

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/mebelplatform/wavesbalance/internal/domain"
)

// assetBalancesResponse mirrors GET /assets/balance/{address}.
type assetBalancesResponse struct {
	Address  string `json:"address"`
	Balances []struct {
		AssetID string `json:"assetId"`
		Balance int64  `json:"balance"`
	} `json:"balances"`
}

// addressBalanceResponse mirrors GET /addresses/balance/{address}.
type addressBalanceResponse struct {
	Address       string `json:"address"`
	Confirmations int    `json:"confirmations"`
	Balance       int64  `json:"balance"`
}

// leaseTransaction mirrors one entry of GET /leasing/active/{address}.
type leaseTransaction struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
}

// AssetBalances returns the non-native asset balances held by the address.
func (c *Client) AssetBalances(ctx context.Context, address string) ([]domain.AssetBalance, error) {
	var resp assetBalancesResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/assets/balance/%s", address), &resp); err != nil {
		return nil, fmt.Errorf("fetching asset balances for %s: %w", address, err)
	}

	balances := make([]domain.AssetBalance, len(resp.Balances))
	for i, b := range resp.Balances {
		balances[i] = domain.AssetBalance{AssetID: b.AssetID, Balance: b.Balance}
	}
	return balances, nil
}

// AccountBalance returns the native-coin balance of the address.
func (c *Client) AccountBalance(ctx context.Context, address string) (domain.AccountBalance, error) {
	var resp addressBalanceResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/addresses/balance/%s", address), &resp); err != nil {
		return domain.AccountBalance{}, fmt.Errorf("fetching account balance for %s: %w", address, err)
	}
	return domain.AccountBalance{Address: resp.Address, Balance: resp.Balance}, nil
}

// ActiveLeases returns the active leasing transactions involving the
// address, incoming and outgoing alike.
func (c *Client) ActiveLeases(ctx context.Context, address string) ([]domain.Lease, error) {
	var resp []leaseTransaction
	if err := c.getJSON(ctx, fmt.Sprintf("/leasing/active/%s", address), &resp); err != nil {
		return nil, fmt.Errorf("fetching active leases for %s: %w", address, err)
	}

	return lo.Map(resp, func(tx leaseTransaction, _ int) domain.Lease {
		return domain.Lease{ID: tx.ID, Sender: tx.Sender, Recipient: tx.Recipient, Amount: tx.Amount}
	}), nil
}
