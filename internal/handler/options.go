package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sabordecasa/api/internal/database"
)

// OptionStore defines the database methods needed by the add-on option
// handlers. Satisfied by *database.Queries.
type OptionStore interface {
	ListOptionsByProduct(ctx context.Context, productID uuid.UUID) ([]database.ProductOption, error)
	GetOption(ctx context.Context, arg database.GetOptionParams) (database.ProductOption, error)
	CreateOption(ctx context.Context, arg database.CreateOptionParams) (database.ProductOption, error)
	UpdateOption(ctx context.Context, arg database.UpdateOptionParams) (database.ProductOption, error)
	SetOptionActive(ctx context.Context, arg database.SetOptionActiveParams) (database.ProductOption, error)
	DeleteOption(ctx context.Context, arg database.DeleteOptionParams) (uuid.UUID, error)
}

// OptionHandler handles a product's add-on options. All routes are
// scoped under the parent product so an option can never be addressed
// through the wrong product.
type OptionHandler struct {
	store  OptionStore
	notify Notifier
}

// NewOptionHandler creates a new OptionHandler.
func NewOptionHandler(store OptionStore, notify Notifier) *OptionHandler {
	return &OptionHandler{store: store, notify: notify}
}

// RegisterRoutes registers option endpoints on the given Chi router.
// Expected to be mounted under /admin/products/{productID}/options.
func (h *OptionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Route("/{optionID}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Patch("/active", h.SetActive)
		r.Delete("/", h.Delete)
	})
}

type optionRequest struct {
	Name       string `json:"name"`
	PriceDelta string `json:"price_delta"`
}

type optionResponse struct {
	ID         uuid.UUID `json:"id"`
	ProductID  uuid.UUID `json:"product_id"`
	Name       string    `json:"name"`
	PriceDelta string    `json:"price_delta"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toOptionResponse(o database.ProductOption) optionResponse {
	return optionResponse{
		ID:         o.ID,
		ProductID:  o.ProductID,
		Name:       o.Name,
		PriceDelta: centsToString(o.PriceDeltaCents),
		IsActive:   o.IsActive,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

func optionIDs(r *http.Request) (productID, optionID uuid.UUID, err error) {
	productID, err = uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		return uuid.Nil, uuid.Nil, errors.New("invalid product ID")
	}
	optionID, err = uuid.Parse(chi.URLParam(r, "optionID"))
	if err != nil {
		return uuid.Nil, uuid.Nil, errors.New("invalid option ID")
	}
	return productID, optionID, nil
}

// List handles GET /admin/products/{productID}/options.
func (h *OptionHandler) List(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product ID"})
		return
	}

	options, err := h.store.ListOptionsByProduct(r.Context(), productID)
	if err != nil {
		log.Printf("ERROR: list options: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]optionResponse, len(options))
	for i, o := range options {
		resp[i] = toOptionResponse(o)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"options": resp})
}

// Get handles GET /admin/products/{productID}/options/{optionID}.
func (h *OptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	productID, optionID, err := optionIDs(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	option, err := h.store.GetOption(r.Context(), database.GetOptionParams{
		ID:        optionID,
		ProductID: productID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "option not found"})
			return
		}
		log.Printf("ERROR: get option: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toOptionResponse(option))
}

// Create handles POST /admin/products/{productID}/options. The price
// delta may be negative (a discounting option) but the checkout floor
// keeps line prices at zero or above.
func (h *OptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product ID"})
		return
	}

	var req optionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	delta, err := centsFromString(req.PriceDelta)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid price_delta"})
		return
	}

	option, err := h.store.CreateOption(r.Context(), database.CreateOptionParams{
		ProductID:       productID,
		Name:            req.Name,
		PriceDeltaCents: delta,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "product not found"})
			return
		}
		log.Printf("ERROR: create option: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notify.NotifyChange("product_options", "create", option.ID.String())
	writeJSON(w, http.StatusCreated, toOptionResponse(option))
}

// Update handles PUT /admin/products/{productID}/options/{optionID}.
func (h *OptionHandler) Update(w http.ResponseWriter, r *http.Request) {
	productID, optionID, err := optionIDs(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var req optionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	delta, err := centsFromString(req.PriceDelta)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid price_delta"})
		return
	}

	option, err := h.store.UpdateOption(r.Context(), database.UpdateOptionParams{
		ID:              optionID,
		ProductID:       productID,
		Name:            req.Name,
		PriceDeltaCents: delta,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "option not found"})
			return
		}
		log.Printf("ERROR: update option: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notify.NotifyChange("product_options", "update", option.ID.String())
	writeJSON(w, http.StatusOK, toOptionResponse(option))
}

// SetActive handles PATCH /admin/products/{productID}/options/{optionID}/active.
func (h *OptionHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	productID, optionID, err := optionIDs(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var req setActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	option, err := h.store.SetOptionActive(r.Context(), database.SetOptionActiveParams{
		ID:        optionID,
		ProductID: productID,
		IsActive:  req.IsActive,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "option not found"})
			return
		}
		log.Printf("ERROR: set option active: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notify.NotifyChange("product_options", "update", option.ID.String())
	writeJSON(w, http.StatusOK, toOptionResponse(option))
}

// Delete handles DELETE /admin/products/{productID}/options/{optionID}.
func (h *OptionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	productID, optionID, err := optionIDs(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	deleted, err := h.store.DeleteOption(r.Context(), database.DeleteOptionParams{
		ID:        optionID,
		ProductID: productID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "option not found"})
			return
		}
		log.Printf("ERROR: delete option: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notify.NotifyChange("product_options", "delete", deleted.String())
	w.WriteHeader(http.StatusNoContent)
}
