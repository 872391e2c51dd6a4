package balance

import (
	"slices"
	"sort"

	"github.com/mebelplatform/wavesbalance/internal/domain"
)

// orderBalances sorts records for display and stamps their settings.
// General assets come first, in the order of the configured general list;
// everything else keeps its relative order from the merge step. Each
// record then gets a 0-based sort rank and the native record alone is
// marked favorite.
func orderBalances(records []domain.BalanceRecord, generalIDs []string) []domain.BalanceRecord {
	listIndex := make(map[string]int, len(generalIDs))
	for i, id := range generalIDs {
		if _, ok := listIndex[id]; !ok {
			listIndex[id] = i
		}
	}

	isGeneral := func(r domain.BalanceRecord) bool {
		if r.Metadata == nil || !r.Metadata.IsGeneral {
			return false
		}
		_, ok := listIndex[r.AssetID]
		return ok
	}

	ordered := slices.Clone(records)
	sort.SliceStable(ordered, func(i, j int) bool {
		gi, gj := isGeneral(ordered[i]), isGeneral(ordered[j])
		switch {
		case gi && gj:
			return listIndex[ordered[i].AssetID] < listIndex[ordered[j].AssetID]
		case gi != gj:
			return gi
		default:
			return false
		}
	})

	for i := range ordered {
		ordered[i].Settings = &domain.BalanceSettings{
			SortRank:   float64(i),
			IsFavorite: ordered[i].AssetID == domain.NativeAssetID,
		}
	}
	return ordered
}
