package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/sabordecasa/api/internal/database"
	"github.com/sabordecasa/api/internal/enum"
)

// OrderStore defines the database methods needed by the admin order
// handlers. Satisfied by *database.Queries; narrow interface for
// testability.
type OrderStore interface {
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
	UpdatePaymentStatus(ctx context.Context, arg database.UpdatePaymentStatusParams) (database.Order, error)
	CancelOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	RestoreOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// OrderHandler handles the admin order surface: listing, detail, and
// the lifecycle transitions.
type OrderHandler struct {
	store  OrderStore
	notify Notifier
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(store OrderStore, notify Notifier) *OrderHandler {
	return &OrderHandler{store: store, notify: notify}
}

// RegisterRoutes registers order endpoints on the given Chi router.
// Expected to be mounted under /admin/orders.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Patch("/status", h.UpdateStatus)
		r.Patch("/payment", h.UpdatePayment)
		r.Post("/cancel", h.Cancel)
		r.Post("/restore", h.Restore)
		r.Delete("/", h.Delete)
	})
}

// --- Request / Response types ---

type orderResponse struct {
	ID            uuid.UUID           `json:"id"`
	ShortID       string              `json:"short_id"`
	CustomerName  string              `json:"customer_name"`
	CustomerPhone string              `json:"customer_phone"`
	Subtotal      string              `json:"subtotal"`
	DeliveryFee   string              `json:"delivery_fee"`
	Total         string              `json:"total"`
	Status        string              `json:"status"`
	PaymentStatus string              `json:"payment_status"`
	PaymentMethod string              `json:"payment_method"`
	IsPickup      bool                `json:"is_pickup"`
	ScheduledTime *string             `json:"scheduled_time"`
	Street        *string             `json:"street"`
	Number        *string             `json:"number"`
	Complement    *string             `json:"complement"`
	Neighborhood  *string             `json:"neighborhood"`
	City          *string             `json:"city"`
	Observation   *string             `json:"observation"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	Items         []orderItemResponse `json:"items,omitempty"`
}

type orderItemResponse struct {
	ID           uuid.UUID `json:"id"`
	ProductName  string    `json:"product_name"`
	OptionsLabel *string   `json:"options_label"`
	Quantity     int32     `json:"quantity"`
	UnitPrice    string    `json:"unit_price"`
}

type orderListResponse struct {
	Orders []orderResponse `json:"orders"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type updatePaymentRequest struct {
	PaymentStatus string `json:"payment_status"`
}

func toOrderResponse(o database.Order) orderResponse {
	resp := orderResponse{
		ID:            o.ID,
		ShortID:       o.ShortID,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		Subtotal:      centsToString(o.SubtotalCents),
		DeliveryFee:   centsToString(o.DeliveryFeeCents),
		Total:         centsToString(o.TotalCents),
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		PaymentMethod: o.PaymentMethod,
		IsPickup:      o.IsPickup,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	if o.ScheduledTime.Valid {
		resp.ScheduledTime = &o.ScheduledTime.String
	}
	if o.Street.Valid {
		resp.Street = &o.Street.String
	}
	if o.Number.Valid {
		resp.Number = &o.Number.String
	}
	if o.Complement.Valid {
		resp.Complement = &o.Complement.String
	}
	if o.Neighborhood.Valid {
		resp.Neighborhood = &o.Neighborhood.String
	}
	if o.City.Valid {
		resp.City = &o.City.String
	}
	if o.Observation.Valid {
		resp.Observation = &o.Observation.String
	}
	return resp
}

func toOrderItemResponse(it database.OrderItem) orderItemResponse {
	resp := orderItemResponse{
		ID:          it.ID,
		ProductName: it.ProductName,
		Quantity:    it.Quantity,
		UnitPrice:   centsToString(it.UnitPriceCents),
	}
	if it.OptionsLabel.Valid {
		resp.OptionsLabel = &it.OptionsLabel.String
	}
	return resp
}

// --- Handlers ---

// List handles GET /admin/orders. status=cancelado is the trash view;
// without a status filter cancelled orders are hidden.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	params := database.ListOrdersParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	}

	if s := r.URL.Query().Get("status"); s != "" {
		if !isValidOrderStatus(s) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
			return
		}
		params.Status = pgtype.Text{String: s, Valid: true}
	}
	if s := r.URL.Query().Get("phone"); s != "" {
		params.Phone = pgtype.Text{String: s, Valid: true}
	}
	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid start_date format, use YYYY-MM-DD"})
			return
		}
		params.StartDate = pgtype.Timestamptz{Time: t, Valid: true}
	}
	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid end_date format, use YYYY-MM-DD"})
			return
		}
		params.EndDate = pgtype.Timestamptz{Time: t, Valid: true}
	}

	orders, err := h.store.ListOrders(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
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

// Get handles GET /admin/orders/{id}, returning the order with lines.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	order, err := h.store.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	items, err := h.store.ListOrderItemsByOrder(r.Context(), orderID)
	if err != nil {
		log.Printf("ERROR: list order items: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := toOrderResponse(order)
	resp.Items = make([]orderItemResponse, len(items))
	for i, it := range items {
		resp.Items[i] = toOrderItemResponse(it)
	}

	writeJSON(w, http.StatusOK, resp)
}

// UpdateStatus handles PATCH /admin/orders/{id}/status. The update is a
// compare-and-set against the status the admin saw; a concurrent
// transition turns into a 409 instead of silently overwriting.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Status == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "status is required"})
		return
	}
	if !isValidOrderStatus(req.Status) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
		return
	}

	current, err := h.store.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order for status update: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if err := validateStatusTransition(current.Status, req.Status); err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}

	updated, err := h.store.UpdateOrderStatus(r.Context(), database.UpdateOrderStatusParams{
		ID:            orderID,
		Status:        req.Status,
		CurrentStatus: current.Status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Status changed between our read and write (concurrent admin)
			writeJSON(w, http.StatusConflict, map[string]string{"error": "order status changed, please retry"})
			return
		}
		log.Printf("ERROR: update order status: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notify.NotifyChange("orders", "update", updated.ID.String())
	writeJSON(w, http.StatusOK, toOrderResponse(updated))
}

// UpdatePayment handles PATCH /admin/orders/{id}/payment.
func (h *OrderHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req updatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.PaymentStatus != enum.PaymentStatusPendente && req.PaymentStatus != enum.PaymentStatusPago {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payment_status"})
		return
	}

	updated, err := h.store.UpdatePaymentStatus(r.Context(), database.UpdatePaymentStatusParams{
		ID:            orderID,
		PaymentStatus: req.PaymentStatus,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: update payment status: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notify.NotifyChange("orders", "update", updated.ID.String())
	writeJSON(w, http.StatusOK, toOrderResponse(updated))
}

// Cancel handles POST /admin/orders/{id}/cancel. The SQL enforces the
// precondition atomically: only non-finalizado, non-cancelado orders
// can be cancelled.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	cancelled, err := h.store.CancelOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No rows updated: order missing, finished, or already cancelled.
			// Fetch to give a better error message.
			current, fetchErr := h.store.GetOrder(r.Context(), orderID)
			if fetchErr != nil {
				if errors.Is(fetchErr, pgx.ErrNoRows) {
					writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
					return
				}
				log.Printf("ERROR: get order for cancel: %v", fetchErr)
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
				return
			}
			if current.Status == enum.OrderStatusFinalizado {
				writeJSON(w, http.StatusConflict, map[string]string{"error": "cannot cancel a finished order"})
				return
			}
			if current.Status == enum.OrderStatusCancelado {
				writeJSON(w, http.StatusConflict, map[string]string{"error": "order is already cancelled"})
				return
			}
			writeJSON(w, http.StatusConflict, map[string]string{"error": "order cannot be cancelled"})
			return
		}
		log.Printf("ERROR: cancel order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notify.NotifyChange("orders", "update", cancelled.ID.String())
	writeJSON(w, http.StatusOK, toOrderResponse(cancelled))
}

// Restore handles POST /admin/orders/{id}/restore, moving a cancelled
// order back to pendente.
func (h *OrderHandler) Restore(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	restored, err := h.store.RestoreOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "only cancelled orders can be restored"})
			return
		}
		log.Printf("ERROR: restore order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notify.NotifyChange("orders", "update", restored.ID.String())
	writeJSON(w, http.StatusOK, toOrderResponse(restored))
}

// Delete handles DELETE /admin/orders/{id}: permanent removal from the
// trash view. Only cancelled orders qualify; the delete cascades to the
// order lines and cannot be undone.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	deleted, err := h.store.DeleteOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "only cancelled orders can be permanently deleted"})
			return
		}
		log.Printf("ERROR: delete order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notify.NotifyChange("orders", "delete", deleted.String())
	w.WriteHeader(http.StatusNoContent)
}

// --- Helpers ---

func isValidOrderStatus(s string) bool {
	switch s {
	case enum.OrderStatusPendente,
		enum.OrderStatusPreparando,
		enum.OrderStatusPronto,
		enum.OrderStatusFinalizado,
		enum.OrderStatusCancelado:
		return true
	}
	return false
}

// allowedTransitions defines valid status transitions.
// Key is current status, value is the set of statuses it can move to.
// finalizado is terminal; cancelado can only go back to pendente.
var allowedTransitions = map[string][]string{
	enum.OrderStatusPendente:   {enum.OrderStatusPreparando, enum.OrderStatusCancelado},
	enum.OrderStatusPreparando: {enum.OrderStatusPronto, enum.OrderStatusCancelado},
	enum.OrderStatusPronto:     {enum.OrderStatusFinalizado, enum.OrderStatusCancelado},
	enum.OrderStatusCancelado:  {enum.OrderStatusPendente},
}

// validateStatusTransition checks if the transition from current to next is allowed.
func validateStatusTransition(current, next string) error {
	allowed, ok := allowedTransitions[current]
	if !ok {
		return fmt.Errorf("cannot transition from %s", current)
	}
	for _, s := range allowed {
		if s == next {
			return nil
		}
	}
	return fmt.Errorf("cannot transition from %s to %s", current, next)
}
