package node

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetJSONRetriesOn429(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"address":"addr1","balance":100}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 3, 10*time.Millisecond)
	var dest addressBalanceResponse
	if err := client.getJSON(context.Background(), "/addresses/balance/addr1", &dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest.Balance != 100 {
		t.Errorf("balance = %d, want 100", dest.Balance)
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}

func TestGetJSONMaxRetriesExceeded(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, 2, 10*time.Millisecond)
	var dest addressBalanceResponse
	if err := client.getJSON(context.Background(), "/addresses/balance/addr1", &dest); err == nil {
		t.Fatal("expected error, got nil")
	}
	if got := attempts.Load(); got != 3 { // initial + 2 retries
		t.Errorf("attempts = %d, want 3", got)
	}
}

func TestGetJSONServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`node is syncing`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 3, 10*time.Millisecond)
	var dest addressBalanceResponse
	if err := client.getJSON(context.Background(), "/addresses/balance/addr1", &dest); err == nil {
		t.Fatal("expected error for 502, got nil")
	}
}

func TestGetJSONMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"address":`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 0, time.Millisecond)
	var dest addressBalanceResponse
	if err := client.getJSON(context.Background(), "/addresses/balance/addr1", &dest); err == nil {
		t.Fatal("expected error for malformed JSON, got nil")
	}
}

func TestGetJSONContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL, 5, time.Second)
	var dest addressBalanceResponse
	if err := client.getJSON(ctx, "/addresses/balance/addr1", &dest); err == nil {
		t.Fatal("expected error on cancelled context, got nil")
	}
}
