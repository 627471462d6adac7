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

// ProductStore defines the database methods needed by the product
// handlers. Satisfied by *database.Queries.
type ProductStore interface {
	ListProducts(ctx context.Context) ([]database.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (database.Product, error)
	CreateProduct(ctx context.Context, arg database.CreateProductParams) (database.Product, error)
	UpdateProduct(ctx context.Context, arg database.UpdateProductParams) (database.Product, error)
	SetProductActive(ctx context.Context, arg database.SetProductActiveParams) (database.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// ProductHandler handles the admin product catalog.
type ProductHandler struct {
	store  ProductStore
	notify Notifier
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(store ProductStore, notify Notifier) *ProductHandler {
	return &ProductHandler{store: store, notify: notify}
}

// RegisterRoutes registers product endpoints on the given Chi router.
// Expected to be mounted under /admin/products.
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Route("/{productID}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Patch("/active", h.SetActive)
		r.Delete("/", h.Delete)
	})
}

type productRequest struct {
	CategoryID   uuid.UUID `json:"category_id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	Price        string    `json:"price"`
	ImageURL     *string   `json:"image_url"`
	IsBestSeller bool      `json:"is_best_seller"`
	IsPopular    bool      `json:"is_popular"`
}

type productResponse struct {
	ID           uuid.UUID `json:"id"`
	CategoryID   uuid.UUID `json:"category_id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	Price        string    `json:"price"`
	ImageURL     *string   `json:"image_url"`
	IsBestSeller bool      `json:"is_best_seller"`
	IsPopular    bool      `json:"is_popular"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type setActiveRequest struct {
	IsActive bool `json:"is_active"`
}

func toProductResponse(p database.Product) productResponse {
	resp := productResponse{
		ID:           p.ID,
		CategoryID:   p.CategoryID,
		Name:         p.Name,
		Price:        centsToString(p.PriceCents),
		IsBestSeller: p.IsBestSeller,
		IsPopular:    p.IsPopular,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if p.Description.Valid {
		resp.Description = &p.Description.String
	}
	if p.ImageUrl.Valid {
		resp.ImageURL = &p.ImageUrl.String
	}
	return resp
}

func (req *productRequest) validate() (int64, error) {
	if req.Name == "" {
		return 0, errors.New("name is required")
	}
	if req.CategoryID == uuid.Nil {
		return 0, errors.New("category_id is required")
	}
	cents, err := centsFromString(req.Price)
	if err != nil {
		return 0, errors.New("invalid price")
	}
	if cents < 0 {
		return 0, errors.New("price cannot be negative")
	}
	return cents, nil
}

// List handles GET /admin/products (active and inactive).
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.ListProducts(r.Context())
	if err != nil {
		log.Printf("ERROR: list products: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]productResponse, len(products))
	for i, p := range products {
		resp[i] = toProductResponse(p)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"products": resp})
}

// Get handles GET /admin/products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product ID"})
		return
	}

	product, err := h.store.GetProduct(r.Context(), productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
			return
		}
		log.Printf("ERROR: get product: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// Create handles POST /admin/products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	cents, err := req.validate()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	product, err := h.store.CreateProduct(r.Context(), database.CreateProductParams{
		CategoryID:   req.CategoryID,
		Name:         req.Name,
		Description:  optionalText(req.Description),
		PriceCents:   cents,
		ImageUrl:     optionalText(req.ImageURL),
		IsBestSeller: req.IsBestSeller,
		IsPopular:    req.IsPopular,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "category not found"})
			return
		}
		log.Printf("ERROR: create product: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notify.NotifyChange("products", "create", product.ID.String())
	writeJSON(w, http.StatusCreated, toProductResponse(product))
}

// Update handles PUT /admin/products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product ID"})
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	cents, err := req.validate()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	product, err := h.store.UpdateProduct(r.Context(), database.UpdateProductParams{
		ID:           productID,
		CategoryID:   req.CategoryID,
		Name:         req.Name,
		Description:  optionalText(req.Description),
		PriceCents:   cents,
		ImageUrl:     optionalText(req.ImageURL),
		IsBestSeller: req.IsBestSeller,
		IsPopular:    req.IsPopular,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
			return
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "category not found"})
			return
		}
		log.Printf("ERROR: update product: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notify.NotifyChange("products", "update", product.ID.String())
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// SetActive handles PATCH /admin/products/{id}/active. Deactivation
// hides the product from the storefront without losing order history.
func (h *ProductHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product ID"})
		return
	}

	var req setActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	product, err := h.store.SetProductActive(r.Context(), database.SetProductActiveParams{
		ID:       productID,
		IsActive: req.IsActive,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
			return
		}
		log.Printf("ERROR: set product active: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notify.NotifyChange("products", "update", product.ID.String())
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// Delete handles DELETE /admin/products/{id}. Products referenced by
// orders keep their denormalized name on the order lines, so deletion
// never rewrites history.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product ID"})
		return
	}

	deleted, err := h.store.DeleteProduct(r.Context(), productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
			return
		}
		log.Printf("ERROR: delete product: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notify.NotifyChange("products", "delete", deleted.String())
	w.WriteHeader(http.StatusNoContent)
}
