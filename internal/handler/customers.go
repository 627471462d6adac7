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
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/sabordecasa/api/internal/database"
)

// CustomerStore defines the database methods needed by the customer
// handlers. Satisfied by *database.Queries.
type CustomerStore interface {
	ListCustomers(ctx context.Context, arg database.ListCustomersParams) ([]database.Customer, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (database.Customer, error)
	UpdateCustomer(ctx context.Context, arg database.UpdateCustomerParams) (database.Customer, error)
	SetCustomerArchived(ctx context.Context, arg database.SetCustomerArchivedParams) (database.Customer, error)
	ListOrdersByPhone(ctx context.Context, arg database.ListOrdersByPhoneParams) ([]database.Order, error)
}

// CustomerHandler handles the admin customer directory. Customers are
// never deleted, only archived, so their order history stays intact.
type CustomerHandler struct {
	store  CustomerStore
	notify Notifier
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(store CustomerStore, notify Notifier) *CustomerHandler {
	return &CustomerHandler{store: store, notify: notify}
}

// RegisterRoutes registers customer endpoints on the given Chi router.
// Expected to be mounted under /admin/customers.
func (h *CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Patch("/archive", h.SetArchived)
		r.Get("/orders", h.Orders)
	})
}

type customerResponse struct {
	ID         uuid.UUID `json:"id"`
	Phone      string    `json:"phone"`
	Name       string    `json:"name"`
	IsArchived bool      `json:"is_archived"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type updateCustomerRequest struct {
	Phone string `json:"phone"`
	Name  string `json:"name"`
}

type setArchivedRequest struct {
	Archived bool `json:"archived"`
}

func toCustomerResponse(c database.Customer) customerResponse {
	return customerResponse{
		ID:         c.ID,
		Phone:      c.Phone,
		Name:       c.Name,
		IsArchived: c.IsArchived,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// List handles GET /admin/customers. archived=true switches to the
// archived view; search matches phone or name.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	params := database.ListCustomersParams{
		Archived: r.URL.Query().Get("archived") == "true",
		Limit:    int32(limit),
		Offset:   int32(offset),
	}
	if s := r.URL.Query().Get("search"); s != "" {
		params.Search = pgtype.Text{String: s, Valid: true}
	}

	customers, err := h.store.ListCustomers(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: list customers: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]customerResponse, len(customers))
	for i, c := range customers {
		resp[i] = toCustomerResponse(c)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"customers": resp,
		"limit":     limit,
		"offset":    offset,
	})
}

// Get handles GET /admin/customers/{id}.
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid customer ID"})
		return
	}

	customer, err := h.store.GetCustomer(r.Context(), customerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "customer not found"})
			return
		}
		log.Printf("ERROR: get customer: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toCustomerResponse(customer))
}

// Update handles PUT /admin/customers/{id}. Changing the phone to one
// already on file is a 409; phone is the business key.
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid customer ID"})
		return
	}

	var req updateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if req.Phone == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "phone is required"})
		return
	}

	customer, err := h.store.UpdateCustomer(r.Context(), database.UpdateCustomerParams{
		ID:    customerID,
		Phone: req.Phone,
		Name:  req.Name,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "customer not found"})
			return
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "another customer already has this phone"})
			return
		}
		log.Printf("ERROR: update customer: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notify.NotifyChange("customers", "update", customer.ID.String())
	writeJSON(w, http.StatusOK, toCustomerResponse(customer))
}

// SetArchived handles PATCH /admin/customers/{id}/archive.
func (h *CustomerHandler) SetArchived(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid customer ID"})
		return
	}

	var req setArchivedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	customer, err := h.store.SetCustomerArchived(r.Context(), database.SetCustomerArchivedParams{
		ID:       customerID,
		Archived: req.Archived,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "customer not found"})
			return
		}
		log.Printf("ERROR: set customer archived: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notify.NotifyChange("customers", "update", customer.ID.String())
	writeJSON(w, http.StatusOK, toCustomerResponse(customer))
}

// Orders handles GET /admin/customers/{id}/orders: the customer's
// order history, matched by phone since orders carry contact data
// denormalized.
func (h *CustomerHandler) Orders(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid customer ID"})
		return
	}

	customer, err := h.store.GetCustomer(r.Context(), customerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "customer not found"})
			return
		}
		log.Printf("ERROR: get customer for orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	limit, offset := parsePagination(r)
	orders, err := h.store.ListOrdersByPhone(r.Context(), database.ListOrdersByPhoneParams{
		Phone:  customer.Phone,
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		log.Printf("ERROR: list orders by phone: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, orderListResponse{
		Orders: resp,
		Limit:  limit,
		Offset: offset,
	})
}
