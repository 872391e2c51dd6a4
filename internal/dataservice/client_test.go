package dataservice

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/mebelplatform/wavesbalance/internal/domain"
)

func testEnv() domain.Environment {
	return domain.Environment{
		Network: domain.NetworkTest,
		GeneralAssets: []domain.GeneralAsset{
			{AssetID: domain.NativeAssetID, Name: "Waves"},
			{AssetID: "asset-btc", Name: "Bitcoin"},
		},
		ReferenceAssetID: "asset-btc",
	}
}

func TestResolve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v0/assets" {
			t.Errorf("path = %s, want /v0/assets", r.URL.Path)
		}
		ids := r.URL.Query()["ids"]
		if len(ids) != 2 {
			t.Errorf("ids = %v, want 2 entries", ids)
		}
		w.Write([]byte(`{
			"data": [
				{"data": {"id": "asset-btc", "name": "Bitcoin", "precision": 8}},
				{"data": {"id": "asset-x", "name": "Token X", "precision": 2}}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, testEnv())
	metadata, err := client.Resolve(context.Background(), []string{"asset-btc", "asset-x"}, "addr1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(metadata) != 2 {
		t.Fatalf("len = %d, want 2", len(metadata))
	}

	btc := metadata["asset-btc"]
	if btc.Name != "Bitcoin" || btc.Decimals != 8 {
		t.Errorf("btc metadata = %+v", btc)
	}
	if !btc.IsGeneral {
		t.Error("btc should be marked general")
	}
	if metadata["asset-x"].IsGeneral {
		t.Error("asset-x should not be marked general")
	}
}

func TestResolveNativeWithoutNetwork(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("native asset resolution must not hit the data service")
	}))
	defer server.Close()

	client := NewClient(server.URL, testEnv())
	metadata, err := client.Resolve(context.Background(), []string{domain.NativeAssetID}, "addr1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	native := metadata[domain.NativeAssetID]
	if native.Name != "Waves" || native.Decimals != 8 {
		t.Errorf("native metadata = %+v", native)
	}
	if !native.IsGeneral {
		t.Error("native asset should be marked general")
	}
}

func TestResolveUnknownIDAbsent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [{"data": null}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, testEnv())
	metadata, err := client.Resolve(context.Background(), []string{"asset-unknown"}, "addr1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := metadata["asset-unknown"]; ok {
		t.Error("unknown id should be absent from the result")
	}
}

func TestResolveUsesCache(t *testing.T) {
	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write([]byte(`{"data": [{"data": {"id": "asset-x", "name": "Token X", "precision": 2}}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, testEnv())
	for range 3 {
		if _, err := client.Resolve(context.Background(), []string{"asset-x"}, "addr1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("requests = %d, want 1", got)
	}
}

func TestResolveDeduplicatesIDs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ids := r.URL.Query()["ids"]; len(ids) != 1 {
			t.Errorf("ids = %v, want a single entry", ids)
		}
		w.Write([]byte(`{"data": [{"data": {"id": "asset-x", "name": "Token X", "precision": 2}}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, testEnv())
	if _, err := client.Resolve(context.Background(), []string{"asset-x", "asset-x"}, "addr1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestResolveUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "upstream down")
	}))
	defer server.Close()

	client := NewClient(server.URL, testEnv())
	if _, err := client.Resolve(context.Background(), []string{"asset-x"}, "addr1"); err == nil {
		t.Fatal("expected error, got nil")
	}
}
