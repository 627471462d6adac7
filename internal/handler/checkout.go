package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sabordecasa/api/internal/service"
)

// CheckoutHandler exposes the public checkout endpoint.
type CheckoutHandler struct {
	service *service.CheckoutService
	notify  Notifier
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(svc *service.CheckoutService, notify Notifier) *CheckoutHandler {
	return &CheckoutHandler{service: svc, notify: notify}
}

// RegisterRoutes registers checkout endpoints on the given Chi router.
func (h *CheckoutHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Confirm)
}

type checkoutResponse struct {
	Order   orderResponse `json:"order"`
	Message string        `json:"message"`
	URL     string        `json:"whatsapp_url"`
}

// Confirm handles POST /checkout. All pricing comes from the live menu
// on the server side; the client payload carries only IDs and
// quantities. Validation failures map to 400, store-closed to 409.
func (h *CheckoutHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req service.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	result, err := h.service.Confirm(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStoreClosed):
			writeJSON(w, http.StatusConflict, map[string]string{"error": "store is closed"})
		case errors.Is(err, service.ErrEmptyItems),
			errors.Is(err, service.ErrNameRequired),
			errors.Is(err, service.ErrPhoneInvalid),
			errors.Is(err, service.ErrStreetRequired),
			errors.Is(err, service.ErrNumberRequired),
			errors.Is(err, service.ErrNoZoneMatch),
			errors.Is(err, service.ErrInvalidPayment),
			errors.Is(err, service.ErrInvalidQuantity),
			errors.Is(err, service.ErrInvalidProductID),
			errors.Is(err, service.ErrInvalidOptionID),
			errors.Is(err, service.ErrProductNotFound),
			errors.Is(err, service.ErrOptionNotFound):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			log.Printf("ERROR: checkout: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	h.notify.NotifyChange("orders", "create", result.Order.ID.String())

	resp := checkoutResponse{
		Order:   toOrderResponse(result.Order),
		Message: result.Message.Text,
		URL:     result.Message.URL,
	}
	resp.Order.Items = make([]orderItemResponse, len(result.Items))
	for i, it := range result.Items {
		resp.Order.Items[i] = toOrderItemResponse(it)
	}

	writeJSON(w, http.StatusCreated, resp)
}
