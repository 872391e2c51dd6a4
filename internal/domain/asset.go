package domain

// NativeAssetID is the asset id of the blockchain's own currency. Unlike
// issued assets it is not a transaction id; both networks use the same
// symbolic id.
const NativeAssetID = "WAVES"

// NativeAssetName and NativeAssetDecimals are protocol constants of the
// native coin; they never come from the data service.
const (
	NativeAssetName     = "Waves"
	NativeAssetDecimals = 8
)

// Network selects the chain environment the service runs against.
type Network string

const (
	NetworkMain Network = "mainnet"
	NetworkTest Network = "testnet"
)

// GeneralAsset describes an asset that is always shown in a balance list,
// held or not. The order of the configured list is the display order.
type GeneralAsset struct {
	AssetID string `json:"assetId"`
	Name    string `json:"name"`
}

// Environment carries the per-network constants threaded through the
// service: the general asset list and the price asset of the default
// trading pair.
type Environment struct {
	Network          Network        `json:"network"`
	GeneralAssets    []GeneralAsset `json:"generalAssets"`
	ReferenceAssetID string         `json:"referenceAssetId"`
}

// mainNetGeneralAssets lists the always-shown assets on mainnet, in display
// order. Ids are the issue-transaction ids of the gateway assets.
var mainNetGeneralAssets = []GeneralAsset{
	{AssetID: NativeAssetID, Name: NativeAssetName},
	{AssetID: "8LQW8f7P5d5PZM7GtZEBgaqRPGSzS3DfPuiXrURJ4AJS", Name: "Bitcoin"},
	{AssetID: "474jTeYx2r2Va35794tCScAXWJG9hU2HcgxzMowaZUnu", Name: "Ethereum"},
	{AssetID: "Ft8X1v1LTa1ABafufpaCWyVj8KkaxUWE6xBhW6sNFJck", Name: "US Dollar"},
	{AssetID: "Gtb1WRznfchDnTh37ezoDTJ4wcoKaRsKqKjJjy7nm2zU", Name: "Euro"},
	{AssetID: "HZk1mbfuJpmxU1Fs4AX5MWLVYtctsNcg6e2C6VKqK8zk", Name: "Litecoin"},
}

var testNetGeneralAssets = []GeneralAsset{
	{AssetID: NativeAssetID, Name: NativeAssetName},
	{AssetID: "DWgwcZTMhSvnyYCoWLRUXXSH1RSkzThXLJhww9gwkqdn", Name: "Bitcoin"},
}

// MainNet returns the mainnet environment.
func MainNet() Environment {
	return Environment{
		Network:          NetworkMain,
		GeneralAssets:    mainNetGeneralAssets,
		ReferenceAssetID: "8LQW8f7P5d5PZM7GtZEBgaqRPGSzS3DfPuiXrURJ4AJS",
	}
}

// TestNet returns the testnet environment.
func TestNet() Environment {
	return Environment{
		Network:          NetworkTest,
		GeneralAssets:    testNetGeneralAssets,
		ReferenceAssetID: "DWgwcZTMhSvnyYCoWLRUXXSH1RSkzThXLJhww9gwkqdn",
	}
}

// EnvironmentFor maps a network flag to its environment. Unknown values
// fall back to mainnet.
func EnvironmentFor(network Network) Environment {
	if network == NetworkTest {
		return TestNet()
	}
	return MainNet()
}

// GeneralAssetIDs returns the configured general asset ids in display order.
func (e Environment) GeneralAssetIDs() []string {
	ids := make([]string, len(e.GeneralAssets))
	for i, a := range e.GeneralAssets {
		ids[i] = a.AssetID
	}
	return ids
}
