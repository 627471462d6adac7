package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sabordecasa/api/internal/database"
)

// MenuStore defines the database methods needed by the public menu
// handler. Satisfied by *database.Queries.
type MenuStore interface {
	ListActiveCategories(ctx context.Context) ([]database.Category, error)
	ListActiveProducts(ctx context.Context) ([]database.Product, error)
	ListActiveOptionsByProduct(ctx context.Context, productID uuid.UUID) ([]database.ProductOption, error)
}

// MenuHandler serves the public storefront menu: active categories with
// their active products and add-on options, in display order.
type MenuHandler struct {
	store MenuStore
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(store MenuStore) *MenuHandler {
	return &MenuHandler{store: store}
}

// RegisterRoutes registers menu endpoints on the given Chi router.
func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
}

type menuOptionResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	PriceDelta string    `json:"price_delta"`
}

type menuProductResponse struct {
	ID           uuid.UUID            `json:"id"`
	Name         string               `json:"name"`
	Description  *string              `json:"description"`
	Price        string               `json:"price"`
	ImageURL     *string              `json:"image_url"`
	IsBestSeller bool                 `json:"is_best_seller"`
	IsPopular    bool                 `json:"is_popular"`
	Options      []menuOptionResponse `json:"options"`
}

type menuCategoryResponse struct {
	ID       uuid.UUID             `json:"id"`
	Name     string                `json:"name"`
	Products []menuProductResponse `json:"products"`
}

// Get handles GET /menu. Categories without any active product are
// dropped from the response so the storefront never renders an empty
// section.
func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categories, err := h.store.ListActiveCategories(ctx)
	if err != nil {
		log.Printf("ERROR: list categories: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	products, err := h.store.ListActiveProducts(ctx)
	if err != nil {
		log.Printf("ERROR: list products: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	byCategory := make(map[uuid.UUID][]menuProductResponse)
	for _, p := range products {
		options, err := h.store.ListActiveOptionsByProduct(ctx, p.ID)
		if err != nil {
			log.Printf("ERROR: list options for product %s: %v", p.ID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}

		mp := menuProductResponse{
			ID:           p.ID,
			Name:         p.Name,
			Price:        centsToString(p.PriceCents),
			IsBestSeller: p.IsBestSeller,
			IsPopular:    p.IsPopular,
			Options:      make([]menuOptionResponse, len(options)),
		}
		if p.Description.Valid {
			mp.Description = &p.Description.String
		}
		if p.ImageUrl.Valid {
			mp.ImageURL = &p.ImageUrl.String
		}
		for i, o := range options {
			mp.Options[i] = menuOptionResponse{
				ID:         o.ID,
				Name:       o.Name,
				PriceDelta: centsToString(o.PriceDeltaCents),
			}
		}
		byCategory[p.CategoryID] = append(byCategory[p.CategoryID], mp)
	}

	resp := make([]menuCategoryResponse, 0, len(categories))
	for _, c := range categories {
		prods, ok := byCategory[c.ID]
		if !ok {
			continue
		}
		resp = append(resp, menuCategoryResponse{
			ID:       c.ID,
			Name:     c.Name,
			Products: prods,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"categories": resp})
}
