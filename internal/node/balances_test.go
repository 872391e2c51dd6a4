package node

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 0, time.Millisecond)
}

func TestAssetBalances(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/assets/balance/addr1" {
			t.Errorf("path = %s, want /assets/balance/addr1", r.URL.Path)
		}
		w.Write([]byte(`{
			"address": "addr1",
			"balances": [
				{"assetId": "asset-a", "balance": 500},
				{"assetId": "asset-b", "balance": 0}
			]
		}`))
	})

	balances, err := client.AssetBalances(context.Background(), "addr1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(balances) != 2 {
		t.Fatalf("len = %d, want 2", len(balances))
	}
	if balances[0].AssetID != "asset-a" || balances[0].Balance != 500 {
		t.Errorf("first balance = %+v, want asset-a/500", balances[0])
	}
	if balances[1].AssetID != "asset-b" || balances[1].Balance != 0 {
		t.Errorf("second balance = %+v, want asset-b/0", balances[1])
	}
}

func TestAssetBalancesEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"address": "addr1", "balances": []}`))
	})

	balances, err := client.AssetBalances(context.Background(), "addr1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(balances) != 0 {
		t.Errorf("len = %d, want 0", len(balances))
	}
}

func TestAccountBalance(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/addresses/balance/addr1" {
			t.Errorf("path = %s, want /addresses/balance/addr1", r.URL.Path)
		}
		w.Write([]byte(`{"address": "addr1", "confirmations": 0, "balance": 123456789}`))
	})

	balance, err := client.AccountBalance(context.Background(), "addr1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance.Address != "addr1" {
		t.Errorf("address = %s, want addr1", balance.Address)
	}
	if balance.Balance != 123456789 {
		t.Errorf("balance = %d, want 123456789", balance.Balance)
	}
}

func TestActiveLeases(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/leasing/active/addr1" {
			t.Errorf("path = %s, want /leasing/active/addr1", r.URL.Path)
		}
		w.Write([]byte(`[
			{"id": "lease-1", "sender": "addr1", "recipient": "addr2", "amount": 700},
			{"id": "lease-2", "sender": "addr3", "recipient": "addr1", "amount": 300}
		]`))
	})

	leases, err := client.ActiveLeases(context.Background(), "addr1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(leases) != 2 {
		t.Fatalf("len = %d, want 2", len(leases))
	}
	if leases[0].ID != "lease-1" || leases[0].Sender != "addr1" || leases[0].Amount != 700 {
		t.Errorf("first lease = %+v", leases[0])
	}
	if leases[1].Recipient != "addr1" {
		t.Errorf("second lease recipient = %s, want addr1", leases[1].Recipient)
	}
}

func TestAssetBalancesUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if _, err := client.AssetBalances(context.Background(), "addr1"); err == nil {
		t.Fatal("expected error, got nil")
	}
}
