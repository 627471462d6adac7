package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/sabordecasa/api/internal/database"
	"github.com/sabordecasa/api/internal/enum"
	"github.com/sabordecasa/api/internal/handler"
	"github.com/sabordecasa/api/internal/middleware"
	"github.com/sabordecasa/api/internal/store"
)

// --- Mock config store ---

type mockConfigStore struct {
	values map[string]string
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{values: make(map[string]string)}
}

func (m *mockConfigStore) GetConfigValue(_ context.Context, key string) (database.StoreConfig, error) {
	v, ok := m.values[key]
	if !ok {
		return database.StoreConfig{}, pgx.ErrNoRows
	}
	return database.StoreConfig{Key: key, Value: v, UpdatedAt: time.Now()}, nil
}

func (m *mockConfigStore) UpsertConfigValue(_ context.Context, arg database.UpsertConfigValueParams) (database.StoreConfig, error) {
	m.values[arg.Key] = arg.Value
	return database.StoreConfig{Key: arg.Key, Value: arg.Value, UpdatedAt: time.Now()}, nil
}

func setupStoreRouter(cfgStore *mockConfigStore, notify handler.Notifier) *chi.Mux {
	if notify == nil {
		notify = handler.NopNotifier
	}
	monitor := store.NewMonitor(cfgStore, time.Minute, nil)
	h := handler.NewStoreHandler(cfgStore, monitor, notify)
	r := chi.NewRouter()
	r.Route("/store", h.RegisterPublicRoutes)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(testJWTSecret))
		r.Route("/admin/store", h.RegisterAdminRoutes)
	})
	return r
}

// --- Tests ---

func TestStoreStatus_ForcedOpen(t *testing.T) {
	cfgStore := newMockConfigStore()
	cfgStore.values[enum.StoreStatusKey] = enum.StoreStatusOpen
	r := setupStoreRouter(cfgStore, nil)

	req := httptest.NewRequest("GET", "/store/status", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	resp := decodeResponse(t, rr)
	if resp["status"] != enum.StoreStatusOpen {
		t.Errorf("status: got %v, want open", resp["status"])
	}
	if resp["open"] != true {
		t.Errorf("open: got %v, want true", resp["open"])
	}
}

func TestStoreStatus_ForcedClosed(t *testing.T) {
	cfgStore := newMockConfigStore()
	cfgStore.values[enum.StoreStatusKey] = enum.StoreStatusClosed
	r := setupStoreRouter(cfgStore, nil)

	req := httptest.NewRequest("GET", "/store/status", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	resp := decodeResponse(t, rr)
	if resp["open"] != false {
		t.Errorf("open: got %v, want false", resp["open"])
	}
}

func TestStoreStatus_MissingRowDefaultsToAuto(t *testing.T) {
	r := setupStoreRouter(newMockConfigStore(), nil)

	req := httptest.NewRequest("GET", "/store/status", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	resp := decodeResponse(t, rr)
	if resp["status"] != enum.StoreStatusAuto {
		t.Errorf("status: got %v, want auto", resp["status"])
	}
}

func TestSetStoreStatus_Persists(t *testing.T) {
	cfgStore := newMockConfigStore()
	notify := &recordingNotifier{}
	r := setupStoreRouter(cfgStore, notify)

	rr := doAuthRequest(t, r, "PUT", "/admin/store/status",
		map[string]string{"status": enum.StoreStatusClosed})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	if cfgStore.values[enum.StoreStatusKey] != enum.StoreStatusClosed {
		t.Errorf("persisted value: got %q, want closed", cfgStore.values[enum.StoreStatusKey])
	}
	if notify.last() != "store_config:update" {
		t.Errorf("notification: got %q, want store_config:update", notify.last())
	}
}

func TestSetStoreStatus_RejectsUnknownValue(t *testing.T) {
	r := setupStoreRouter(newMockConfigStore(), nil)

	rr := doAuthRequest(t, r, "PUT", "/admin/store/status",
		map[string]string{"status": "maybe"})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestSetStoreStatus_RequiresAuth(t *testing.T) {
	r := setupStoreRouter(newMockConfigStore(), nil)

	req := httptest.NewRequest("PUT", "/admin/store/status", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}
