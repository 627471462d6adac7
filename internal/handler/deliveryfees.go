package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sabordecasa/api/internal/database"
	"github.com/sabordecasa/api/internal/delivery"
)

// DeliveryFeeStore defines the database methods needed by the delivery
// zone handlers. Satisfied by *database.Queries.
type DeliveryFeeStore interface {
	ListDeliveryFees(ctx context.Context) ([]database.DeliveryFee, error)
	ListActiveDeliveryFees(ctx context.Context) ([]database.DeliveryFee, error)
	GetDeliveryFee(ctx context.Context, id uuid.UUID) (database.DeliveryFee, error)
	CreateDeliveryFee(ctx context.Context, arg database.CreateDeliveryFeeParams) (database.DeliveryFee, error)
	UpdateDeliveryFee(ctx context.Context, arg database.UpdateDeliveryFeeParams) (database.DeliveryFee, error)
	SetDeliveryFeeActive(ctx context.Context, arg database.SetDeliveryFeeActiveParams) (database.DeliveryFee, error)
	DeleteDeliveryFee(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// DeliveryFeeHandler handles the admin delivery zone table and the
// public fee preview the storefront shows before checkout.
type DeliveryFeeHandler struct {
	store  DeliveryFeeStore
	notify Notifier
}

// NewDeliveryFeeHandler creates a new DeliveryFeeHandler.
func NewDeliveryFeeHandler(store DeliveryFeeStore, notify Notifier) *DeliveryFeeHandler {
	return &DeliveryFeeHandler{store: store, notify: notify}
}

// RegisterAdminRoutes registers zone CRUD endpoints on the given Chi
// router. Expected to be mounted under /admin/delivery-fees.
func (h *DeliveryFeeHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Patch("/active", h.SetActive)
		r.Delete("/", h.Delete)
	})
}

// RegisterPublicRoutes registers the public fee preview.
func (h *DeliveryFeeHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/", h.Preview)
}

type deliveryFeeRequest struct {
	Neighborhood string `json:"neighborhood"`
	Fee          string `json:"fee"`
}

type deliveryFeeResponse struct {
	ID           uuid.UUID `json:"id"`
	Neighborhood string    `json:"neighborhood"`
	Fee          string    `json:"fee"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type feePreviewResponse struct {
	Fee     string `json:"fee"`
	Free    bool   `json:"free"`
	Matched bool   `json:"matched"`
}

func toDeliveryFeeResponse(f database.DeliveryFee) deliveryFeeResponse {
	return deliveryFeeResponse{
		ID:           f.ID,
		Neighborhood: f.Neighborhood,
		Fee:          centsToString(f.FeeCents),
		IsActive:     f.IsActive,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

func (req *deliveryFeeRequest) validate() (int64, error) {
	if strings.TrimSpace(req.Neighborhood) == "" {
		return 0, errors.New("neighborhood is required")
	}
	cents, err := centsFromString(req.Fee)
	if err != nil {
		return 0, errors.New("invalid fee")
	}
	if cents < 0 {
		return 0, errors.New("fee cannot be negative")
	}
	return cents, nil
}

// List handles GET /admin/delivery-fees.
func (h *DeliveryFeeHandler) List(w http.ResponseWriter, r *http.Request) {
	fees, err := h.store.ListDeliveryFees(r.Context())
	if err != nil {
		log.Printf("ERROR: list delivery fees: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]deliveryFeeResponse, len(fees))
	for i, f := range fees {
		resp[i] = toDeliveryFeeResponse(f)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"delivery_fees": resp})
}

// Get handles GET /admin/delivery-fees/{id}.
func (h *DeliveryFeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	feeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid delivery fee ID"})
		return
	}

	fee, err := h.store.GetDeliveryFee(r.Context(), feeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "delivery fee not found"})
			return
		}
		log.Printf("ERROR: get delivery fee: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toDeliveryFeeResponse(fee))
}

// Create handles POST /admin/delivery-fees. Neighborhood names are
// unique case-insensitively; a duplicate maps to 409.
func (h *DeliveryFeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req deliveryFeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	cents, err := req.validate()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	fee, err := h.store.CreateDeliveryFee(r.Context(), database.CreateDeliveryFeeParams{
		Neighborhood: strings.TrimSpace(req.Neighborhood),
		FeeCents:     cents,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "a zone with this neighborhood already exists"})
			return
		}
		log.Printf("ERROR: create delivery fee: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notify.NotifyChange("delivery_fees", "create", fee.ID.String())
	writeJSON(w, http.StatusCreated, toDeliveryFeeResponse(fee))
}

// Update handles PUT /admin/delivery-fees/{id}.
func (h *DeliveryFeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	feeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid delivery fee ID"})
		return
	}

	var req deliveryFeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	cents, err := req.validate()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	fee, err := h.store.UpdateDeliveryFee(r.Context(), database.UpdateDeliveryFeeParams{
		ID:           feeID,
		Neighborhood: strings.TrimSpace(req.Neighborhood),
		FeeCents:     cents,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "delivery fee not found"})
			return
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "a zone with this neighborhood already exists"})
			return
		}
		log.Printf("ERROR: update delivery fee: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notify.NotifyChange("delivery_fees", "update", fee.ID.String())
	writeJSON(w, http.StatusOK, toDeliveryFeeResponse(fee))
}

// SetActive handles PATCH /admin/delivery-fees/{id}/active.
func (h *DeliveryFeeHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	feeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid delivery fee ID"})
		return
	}

	var req setActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	fee, err := h.store.SetDeliveryFeeActive(r.Context(), database.SetDeliveryFeeActiveParams{
		ID:       feeID,
		IsActive: req.IsActive,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "delivery fee not found"})
			return
		}
		log.Printf("ERROR: set delivery fee active: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notify.NotifyChange("delivery_fees", "update", fee.ID.String())
	writeJSON(w, http.StatusOK, toDeliveryFeeResponse(fee))
}

// Delete handles DELETE /admin/delivery-fees/{id}.
func (h *DeliveryFeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	feeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid delivery fee ID"})
		return
	}

	deleted, err := h.store.DeleteDeliveryFee(r.Context(), feeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "delivery fee not found"})
			return
		}
		log.Printf("ERROR: delete delivery fee: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notify.NotifyChange("delivery_fees", "delete", deleted.String())
	w.WriteHeader(http.StatusNoContent)
}

// Preview handles GET /delivery-fee. The storefront calls this as the
// customer types their address so the cart shows the fee before the
// order is placed. The same resolution runs again at checkout; this is
// a preview, never the authoritative price.
func (h *DeliveryFeeHandler) Preview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	neighborhood := q.Get("neighborhood")

	if q.Get("pickup") == "true" {
		writeJSON(w, http.StatusOK, feePreviewResponse{Fee: centsToString(0), Free: true})
		return
	}

	var subtotal int64
	if s := q.Get("subtotal"); s != "" {
		v, err := centsFromString(s)
		if err != nil || v < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid subtotal"})
			return
		}
		subtotal = v
	}

	zones, err := h.store.ListActiveDeliveryFees(r.Context())
	if err != nil {
		log.Printf("ERROR: list delivery fees for preview: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	_, matched := delivery.MatchZone(zones, neighborhood)
	fee := delivery.ResolveFee(zones, neighborhood, false, subtotal)

	writeJSON(w, http.StatusOK, feePreviewResponse{
		Fee:     centsToString(fee),
		Free:    fee == 0,
		Matched: matched,
	})
}
