package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/mebelplatform/wavesbalance/internal/balance"
	"github.com/mebelplatform/wavesbalance/internal/domain"
	"github.com/mebelplatform/wavesbalance/internal/pairs"
	"github.com/mebelplatform/wavesbalance/internal/prefs"
)

// NewServer creates an HTTP server with all routes configured. When
// adminAPIKey is empty the mutating routes are left unprotected.
func NewServer(
	port string,
	balances *balance.Service,
	pairList *pairs.Service,
	prefStore prefs.Store,
	env domain.Environment,
	adminAPIKey string,
) *http.Server {
	handler := NewHandler(balances, env)
	settings := NewSettingsHandler(pairList, prefStore)

	protect := func(h http.HandlerFunc) http.Handler {
		if adminAPIKey == "" {
			return h
		}
		return requireAuth(adminAPIKey, h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/environment", handler.GetEnvironment)

	mux.HandleFunc("GET /api/v1/balances/{address}", handler.GetBalances)
	mux.HandleFunc("GET /api/v1/balances/{address}/{assetId}", handler.GetBalance)
	mux.Handle("POST /api/v1/balances/{address}/refresh", protect(handler.RefreshBalances))
	mux.Handle("PUT /api/v1/balances/{address}/{assetId}", protect(handler.UpdateBalance))

	mux.HandleFunc("GET /api/v1/pairs", settings.ListPairs)
	mux.Handle("POST /api/v1/pairs", protect(settings.AddPair))
	mux.Handle("DELETE /api/v1/pairs/{amountAssetId}/{priceAssetId}", protect(settings.RemovePair))

	mux.HandleFunc("GET /api/v1/prefs/{address}", settings.GetPrefs)
	mux.HandleFunc("GET /api/v1/prefs/{address}/{key}", settings.GetPref)
	mux.Handle("PUT /api/v1/prefs/{address}/{key}", protect(settings.SetPref))
	mux.Handle("DELETE /api/v1/prefs/{address}/{key}", protect(settings.DeletePref))

	return &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func requireAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if !strings.HasPrefix(auth, "Bearer ") || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
