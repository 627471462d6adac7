package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sabordecasa/api/internal/database"
	"github.com/sabordecasa/api/internal/handler"
	"github.com/sabordecasa/api/internal/middleware"
)

// --- Mock OptionStore ---

type mockOptionStore struct {
	listFn      func(ctx context.Context, productID uuid.UUID) ([]database.ProductOption, error)
	getFn       func(ctx context.Context, arg database.GetOptionParams) (database.ProductOption, error)
	createFn    func(ctx context.Context, arg database.CreateOptionParams) (database.ProductOption, error)
	updateFn    func(ctx context.Context, arg database.UpdateOptionParams) (database.ProductOption, error)
	setActiveFn func(ctx context.Context, arg database.SetOptionActiveParams) (database.ProductOption, error)
	deleteFn    func(ctx context.Context, arg database.DeleteOptionParams) (uuid.UUID, error)
}

func (m *mockOptionStore) ListOptionsByProduct(ctx context.Context, productID uuid.UUID) ([]database.ProductOption, error) {
	if m.listFn != nil {
		return m.listFn(ctx, productID)
	}
	return []database.ProductOption{}, nil
}

func (m *mockOptionStore) GetOption(ctx context.Context, arg database.GetOptionParams) (database.ProductOption, error) {
	if m.getFn != nil {
		return m.getFn(ctx, arg)
	}
	return database.ProductOption{}, pgx.ErrNoRows
}

func (m *mockOptionStore) CreateOption(ctx context.Context, arg database.CreateOptionParams) (database.ProductOption, error) {
	if m.createFn != nil {
		return m.createFn(ctx, arg)
	}
	return database.ProductOption{}, pgx.ErrNoRows
}

func (m *mockOptionStore) UpdateOption(ctx context.Context, arg database.UpdateOptionParams) (database.ProductOption, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, arg)
	}
	return database.ProductOption{}, pgx.ErrNoRows
}

func (m *mockOptionStore) SetOptionActive(ctx context.Context, arg database.SetOptionActiveParams) (database.ProductOption, error) {
	if m.setActiveFn != nil {
		return m.setActiveFn(ctx, arg)
	}
	return database.ProductOption{}, pgx.ErrNoRows
}

func (m *mockOptionStore) DeleteOption(ctx context.Context, arg database.DeleteOptionParams) (uuid.UUID, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, arg)
	}
	return uuid.Nil, pgx.ErrNoRows
}

func setupOptionRouter(store *mockOptionStore) *chi.Mux {
	h := handler.NewOptionHandler(store, handler.NopNotifier)
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(testJWTSecret))
		r.Route("/admin/products/{productID}/options", h.RegisterRoutes)
	})
	return r
}

func optionPath(productID uuid.UUID, rest string) string {
	return "/admin/products/" + productID.String() + "/options" + rest
}

// --- Tests ---

func TestCreateOption_NegativeDeltaAllowed(t *testing.T) {
	productID := uuid.New()
	store := &mockOptionStore{
		createFn: func(_ context.Context, arg database.CreateOptionParams) (database.ProductOption, error) {
			if arg.ProductID != productID {
				t.Errorf("product: got %s, want %s", arg.ProductID, productID)
			}
			if arg.PriceDeltaCents != -200 {
				t.Errorf("delta: got %d, want -200", arg.PriceDeltaCents)
			}
			now := time.Now()
			return database.ProductOption{
				ID:              uuid.New(),
				ProductID:       arg.ProductID,
				Name:            arg.Name,
				PriceDeltaCents: arg.PriceDeltaCents,
				IsActive:        true,
				CreatedAt:       now,
				UpdatedAt:       now,
			}, nil
		},
	}
	r := setupOptionRouter(store)

	rr := doAuthRequest(t, r, "POST", optionPath(productID, "/"), map[string]string{
		"name":        "Sem arroz",
		"price_delta": "-2.00",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["price_delta"] != "-2.00" {
		t.Errorf("price_delta: got %v, want -2.00", resp["price_delta"])
	}
}

func TestCreateOption_UnknownProduct(t *testing.T) {
	store := &mockOptionStore{
		createFn: func(_ context.Context, arg database.CreateOptionParams) (database.ProductOption, error) {
			return database.ProductOption{}, &pgconn.PgError{Code: "23503"}
		},
	}
	r := setupOptionRouter(store)

	rr := doAuthRequest(t, r, "POST", optionPath(uuid.New(), "/"), map[string]string{
		"name":        "Ovo frito",
		"price_delta": "3.00",
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestCreateOption_Validation(t *testing.T) {
	r := setupOptionRouter(&mockOptionStore{})
	productID := uuid.New()

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing name", map[string]string{"price_delta": "3.00"}},
		{"bad delta", map[string]string{"name": "Ovo frito", "price_delta": "tres"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doAuthRequest(t, r, "POST", optionPath(productID, "/"), tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestGetOption_ScopedToProduct(t *testing.T) {
	productID := uuid.New()
	optionID := uuid.New()
	store := &mockOptionStore{
		getFn: func(_ context.Context, arg database.GetOptionParams) (database.ProductOption, error) {
			if arg.ProductID != productID || arg.ID != optionID {
				return database.ProductOption{}, pgx.ErrNoRows
			}
			return database.ProductOption{ID: optionID, ProductID: productID, Name: "Ovo frito", PriceDeltaCents: 300}, nil
		},
	}
	r := setupOptionRouter(store)

	rr := doAuthRequest(t, r, "GET", optionPath(productID, "/"+optionID.String()), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	// Same option under a different product must not resolve.
	rr = doAuthRequest(t, r, "GET", optionPath(uuid.New(), "/"+optionID.String()), nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("cross-product status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestDeleteOption(t *testing.T) {
	productID := uuid.New()
	optionID := uuid.New()
	store := &mockOptionStore{
		deleteFn: func(_ context.Context, arg database.DeleteOptionParams) (uuid.UUID, error) {
			if arg.ProductID != productID || arg.ID != optionID {
				return uuid.Nil, pgx.ErrNoRows
			}
			return optionID, nil
		},
	}
	r := setupOptionRouter(store)

	rr := doAuthRequest(t, r, "DELETE", optionPath(productID, "/"+optionID.String()), nil)
	if rr.Code != http.StatusNoContent {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNoContent)
	}
}

func TestSetOptionActive_NotFound(t *testing.T) {
	r := setupOptionRouter(&mockOptionStore{})

	rr := doAuthRequest(t, r, "PATCH", optionPath(uuid.New(), "/"+uuid.NewString()+"/active"), map[string]bool{
		"is_active": false,
	})
	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}
