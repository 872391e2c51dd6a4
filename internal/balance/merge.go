package balance

import (
	"github.com/samber/lo"

	"github.com/mebelplatform/wavesbalance/internal/domain"
)

// mergeBalances combines the four source results into one record per asset:
// issued-asset balances as-is, a native record built from the account
// balance and its outgoing leases, a zero-balance placeholder for every
// configured general asset the account does not hold, and reserved amounts
// stamped onto whichever records the matcher knows about.
func mergeBalances(
	assets []domain.AssetBalance,
	account domain.AccountBalance,
	leases []domain.Lease,
	reserved map[string]int64,
	generalIDs []string,
) []domain.BalanceRecord {
	records := make([]domain.BalanceRecord, 0, len(assets)+1+len(generalIDs))
	for _, a := range assets {
		if a.AssetID == domain.NativeAssetID {
			// The native record is built from the account balance below.
			continue
		}
		records = append(records, domain.BalanceRecord{AssetID: a.AssetID, Balance: a.Balance})
	}

	records = append(records, domain.BalanceRecord{
		AssetID:       domain.NativeAssetID,
		Balance:       account.Balance,
		LeasedBalance: outgoingLeased(leases, account.Address),
	})

	present := lo.SliceToMap(records, func(r domain.BalanceRecord) (string, bool) {
		return r.AssetID, true
	})
	for _, id := range generalIDs {
		if present[id] {
			continue
		}
		records = append(records, domain.BalanceRecord{AssetID: id})
		present[id] = true
	}

	for i := range records {
		if amount, ok := reserved[records[i].AssetID]; ok {
			records[i].ReservedBalance = amount
		}
	}
	return records
}

// outgoingLeased sums the active leases sent by the address itself.
// Incoming leases do not reduce the spendable balance.
func outgoingLeased(leases []domain.Lease, address string) int64 {
	return lo.Reduce(leases, func(sum int64, l domain.Lease, _ int) int64 {
		if l.Sender == address {
			return sum + l.Amount
		}
		return sum
	}, 0)
}
