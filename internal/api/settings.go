package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mebelplatform/wavesbalance/internal/pairs"
	"github.com/mebelplatform/wavesbalance/internal/prefs"
)

// SettingsHandler provides HTTP endpoints for trading pairs and
// preferences.
type SettingsHandler struct {
	pairs *pairs.Service
	prefs prefs.Store
}

// NewSettingsHandler creates a settings handler.
func NewSettingsHandler(pairList *pairs.Service, prefStore prefs.Store) *SettingsHandler {
	return &SettingsHandler{pairs: pairList, prefs: prefStore}
}

// ListPairs handles GET /api/v1/pairs.
func (h *SettingsHandler) ListPairs(w http.ResponseWriter, r *http.Request) {
	list, err := h.pairs.List(r.Context())
	if err != nil {
		slog.Error("failed to list trading pairs", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// AddPair handles POST /api/v1/pairs.
func (h *SettingsHandler) AddPair(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AmountAssetID string `json:"amountAssetId"`
		PriceAssetID  string `json:"priceAssetId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	pair, err := h.pairs.Add(r.Context(), req.AmountAssetID, req.PriceAssetID)
	if err != nil {
		switch {
		case errors.Is(err, pairs.ErrDefaultPair):
			writeError(w, http.StatusConflict, "default pair is implicit and cannot be added")
		case errors.Is(err, pairs.ErrDuplicatePair):
			writeError(w, http.StatusConflict, "pair already in the list")
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusCreated, pair)
}

// RemovePair handles DELETE /api/v1/pairs/{amountAssetId}/{priceAssetId}.
func (h *SettingsHandler) RemovePair(w http.ResponseWriter, r *http.Request) {
	amountAssetID := r.PathValue("amountAssetId")
	priceAssetID := r.PathValue("priceAssetId")

	if err := h.pairs.Remove(r.Context(), amountAssetID, priceAssetID); err != nil {
		switch {
		case errors.Is(err, pairs.ErrDefaultPair):
			writeError(w, http.StatusConflict, "default pair cannot be removed")
		case errors.Is(err, pairs.ErrPairNotFound):
			writeError(w, http.StatusNotFound, "pair not in the list")
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetPrefs handles GET /api/v1/prefs/{address}.
func (h *SettingsHandler) GetPrefs(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")

	all, err := h.prefs.All(r.Context(), address)
	if err != nil {
		slog.Error("failed to list preferences", "address", address, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, all)
}

// GetPref handles GET /api/v1/prefs/{address}/{key}.
func (h *SettingsHandler) GetPref(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	key := r.PathValue("key")

	value, err := h.prefs.Get(r.Context(), address, key)
	if err != nil {
		if errors.Is(err, prefs.ErrNotFound) {
			writeError(w, http.StatusNotFound, "preference not set")
			return
		}
		slog.Error("failed to get preference", "address", address, "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": value})
}

// SetPref handles PUT /api/v1/prefs/{address}/{key}.
func (h *SettingsHandler) SetPref(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	key := r.PathValue("key")

	var req struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.prefs.Set(r.Context(), address, key, req.Value); err != nil {
		slog.Error("failed to set preference", "address", address, "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": req.Value})
}

// DeletePref handles DELETE /api/v1/prefs/{address}/{key}.
func (h *SettingsHandler) DeletePref(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	key := r.PathValue("key")

	if err := h.prefs.Delete(r.Context(), address, key); err != nil {
		slog.Error("failed to delete preference", "address", address, "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
