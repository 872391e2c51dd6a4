package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mebelplatform/wavesbalance/internal/balance"
	"github.com/mebelplatform/wavesbalance/internal/domain"
)

// Handler provides HTTP endpoints for the balance API.
type Handler struct {
	balances *balance.Service
	env      domain.Environment
}

// NewHandler creates a new API handler.
func NewHandler(balances *balance.Service, env domain.Environment) *Handler {
	return &Handler{balances: balances, env: env}
}

// GetEnvironment handles GET /api/v1/environment.
func (h *Handler) GetEnvironment(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.env)
}

// GetBalances handles GET /api/v1/balances/{address}. It serves the
// persisted set; it never triggers a fetch.
func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")

	records, err := h.balances.Balances(r.Context(), address)
	if err != nil {
		slog.Error("failed to list balances", "address", address, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if records == nil {
		records = []domain.BalanceRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// GetBalance handles GET /api/v1/balances/{address}/{assetId}.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	assetID := r.PathValue("assetId")

	record, err := h.balances.Balance(r.Context(), address, assetID)
	if err != nil {
		if errors.Is(err, balance.ErrNotFound) {
			writeError(w, http.StatusNotFound, "balance record not found")
			return
		}
		slog.Error("failed to get balance", "address", address, "assetId", assetID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// RefreshBalances handles POST /api/v1/balances/{address}/refresh. It runs
// a full aggregation and responds with the reconciled set.
func (h *Handler) RefreshBalances(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")

	records, err := h.balances.FetchBalances(r.Context(), address)
	if err != nil {
		if errors.Is(err, balance.ErrSourceUnavailable) || errors.Is(err, balance.ErrMetadataUnavailable) {
			slog.Warn("balance refresh failed upstream", "address", address, "error", err)
			writeError(w, http.StatusBadGateway, "upstream source unavailable")
			return
		}
		slog.Error("failed to refresh balances", "address", address, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// UpdateBalance handles PUT /api/v1/balances/{address}/{assetId}. The
// asset id in the path wins over whatever the body carries.
func (h *Handler) UpdateBalance(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	assetID := r.PathValue("assetId")

	var record domain.BalanceRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	record.AssetID = assetID

	if err := h.balances.Update(r.Context(), address, record); err != nil {
		slog.Error("failed to update balance", "address", address, "assetId", assetID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
		return
	}
	_, _ = w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
