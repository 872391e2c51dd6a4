package balance

import (
	"testing"

	"github.com/mebelplatform/wavesbalance/internal/domain"
)

func generalMeta(assetID string) *domain.AssetMetadata {
	return &domain.AssetMetadata{AssetID: assetID, Name: assetID, Decimals: 8, IsGeneral: true}
}

func plainMeta(assetID string) *domain.AssetMetadata {
	return &domain.AssetMetadata{AssetID: assetID, Name: assetID, Decimals: 8}
}

func assetIDs(records []domain.BalanceRecord) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.AssetID
	}
	return ids
}

func TestOrderBalancesGeneralFirst(t *testing.T) {
	// General list [A, B]; merged order {C, B, A}. The result must begin
	// A, B with C somewhere after both.
	records := []domain.BalanceRecord{
		{AssetID: "C", Metadata: plainMeta("C")},
		{AssetID: "B", Metadata: generalMeta("B")},
		{AssetID: "A", Metadata: generalMeta("A")},
	}

	ordered := orderBalances(records, []string{"A", "B"})

	got := assetIDs(ordered)
	if got[0] != "A" || got[1] != "B" || got[2] != "C" {
		t.Errorf("order = %v, want [A B C]", got)
	}
}

func TestOrderBalancesGeneralNeedsBothFlagAndListEntry(t *testing.T) {
	records := []domain.BalanceRecord{
		// In the list but metadata does not mark it general.
		{AssetID: "A", Metadata: plainMeta("A")},
		// Marked general but not in the list.
		{AssetID: "B", Metadata: generalMeta("B")},
		// No metadata at all.
		{AssetID: "C"},
		{AssetID: "D", Metadata: generalMeta("D")},
	}

	ordered := orderBalances(records, []string{"A", "D"})

	got := assetIDs(ordered)
	if got[0] != "D" {
		t.Errorf("order = %v, want D first (only record both flagged and listed)", got)
	}
	if got[1] != "A" || got[2] != "B" || got[3] != "C" {
		t.Errorf("order = %v, non-general records must keep their relative order", got)
	}
}

func TestOrderBalancesStableForNonGeneral(t *testing.T) {
	records := []domain.BalanceRecord{
		{AssetID: "z"},
		{AssetID: "m"},
		{AssetID: "a"},
	}

	ordered := orderBalances(records, nil)

	got := assetIDs(ordered)
	if got[0] != "z" || got[1] != "m" || got[2] != "a" {
		t.Errorf("order = %v, want input order [z m a] preserved", got)
	}
}

func TestOrderBalancesSettings(t *testing.T) {
	records := []domain.BalanceRecord{
		{AssetID: "asset-x", Metadata: plainMeta("asset-x")},
		{AssetID: domain.NativeAssetID, Metadata: generalMeta(domain.NativeAssetID)},
	}

	ordered := orderBalances(records, []string{domain.NativeAssetID})

	for i, r := range ordered {
		if r.Settings == nil {
			t.Fatalf("record %s has no settings", r.AssetID)
		}
		if r.Settings.SortRank != float64(i) {
			t.Errorf("%s sortRank = %v, want %v", r.AssetID, r.Settings.SortRank, float64(i))
		}
		wantFavorite := r.AssetID == domain.NativeAssetID
		if r.Settings.IsFavorite != wantFavorite {
			t.Errorf("%s isFavorite = %v, want %v", r.AssetID, r.Settings.IsFavorite, wantFavorite)
		}
	}

	if ordered[0].AssetID != domain.NativeAssetID {
		t.Errorf("first record = %s, want native", ordered[0].AssetID)
	}
}

func TestOrderBalancesDoesNotMutateInput(t *testing.T) {
	records := []domain.BalanceRecord{
		{AssetID: "B", Metadata: generalMeta("B")},
		{AssetID: "A", Metadata: generalMeta("A")},
	}

	orderBalances(records, []string{"A", "B"})

	if records[0].AssetID != "B" {
		t.Errorf("input reordered, first = %s, want B", records[0].AssetID)
	}
	if records[0].Settings != nil {
		t.Error("input records must not receive settings")
	}
}
