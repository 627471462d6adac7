package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sabordecasa/api/internal/database"
	"github.com/sabordecasa/api/internal/enum"
	"github.com/sabordecasa/api/internal/store"
)

// StoreConfigStore defines the database methods needed by the store
// status handlers. Satisfied by *database.Queries.
type StoreConfigStore interface {
	UpsertConfigValue(ctx context.Context, arg database.UpsertConfigValueParams) (database.StoreConfig, error)
}

// StoreHandler serves the storefront open/closed state and the admin
// override that controls it.
type StoreHandler struct {
	store   StoreConfigStore
	monitor *store.Monitor
	notify  Notifier
}

// NewStoreHandler creates a new StoreHandler.
func NewStoreHandler(cfgStore StoreConfigStore, monitor *store.Monitor, notify Notifier) *StoreHandler {
	return &StoreHandler{store: cfgStore, monitor: monitor, notify: notify}
}

// RegisterPublicRoutes registers the public status endpoint.
func (h *StoreHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/status", h.GetStatus)
}

// RegisterAdminRoutes registers the admin status override endpoints.
func (h *StoreHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/status", h.GetStatus)
	r.Put("/status", h.SetStatus)
}

type storeStatusResponse struct {
	Status string `json:"status"`
	Open   bool   `json:"open"`
}

type setStatusRequest struct {
	Status string `json:"status"`
}

// GetStatus handles GET /store/status: the configured mode plus the
// effective open flag after the auto schedule is applied.
func (h *StoreHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, storeStatusResponse{
		Status: h.monitor.Status(r.Context()),
		Open:   h.monitor.Open(r.Context()),
	})
}

// SetStatus handles PUT /admin/store/status. After persisting, the
// monitor re-evaluates immediately so websocket clients see the flip
// without waiting for the next poll tick.
func (h *StoreHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	switch req.Status {
	case enum.StoreStatusOpen, enum.StoreStatusClosed, enum.StoreStatusAuto:
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "status must be open, closed or auto"})
		return
	}

	if _, err := h.store.UpsertConfigValue(r.Context(), database.UpsertConfigValueParams{
		Key:   enum.StoreStatusKey,
		Value: req.Status,
	}); err != nil {
		log.Printf("ERROR: set store status: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.monitor.Poke(r.Context())
	h.notify.NotifyChange("store_config", "update", enum.StoreStatusKey)

	writeJSON(w, http.StatusOK, storeStatusResponse{
		Status: req.Status,
		Open:   h.monitor.Open(r.Context()),
	})
}
