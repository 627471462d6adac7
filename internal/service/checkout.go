package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/sabordecasa/api/internal/database"
	"github.com/sabordecasa/api/internal/delivery"
	"github.com/sabordecasa/api/internal/enum"
)

// MinPhoneLength is the minimum length of the formatted phone,
// e.g. "(11) 99999-8888" is 15 characters.
const MinPhoneLength = 14

// Errors returned by the checkout service.
var (
	ErrStoreClosed      = errors.New("store is not accepting orders")
	ErrEmptyItems       = errors.New("items are required")
	ErrNameRequired     = errors.New("name is required")
	ErrPhoneInvalid     = errors.New("phone is incomplete")
	ErrStreetRequired   = errors.New("street is required for delivery")
	ErrNumberRequired   = errors.New("number is required for delivery")
	ErrNoZoneMatch      = errors.New("neighborhood has no active delivery zone")
	ErrInvalidPayment   = errors.New("invalid payment_method")
	ErrInvalidQuantity  = errors.New("quantity must be > 0")
	ErrInvalidProductID = errors.New("invalid product_id")
	ErrInvalidOptionID  = errors.New("invalid option_id")
	ErrProductNotFound  = errors.New("product not found or inactive")
	ErrOptionNotFound   = errors.New("option not found or inactive")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// CheckoutStore defines the DB methods needed to confirm orders.
// Satisfied by *database.Queries (and its WithTx variant).
type CheckoutStore interface {
	ListActiveDeliveryFees(ctx context.Context) ([]database.DeliveryFee, error)
	GetProductForCheckout(ctx context.Context, id uuid.UUID) (database.Product, error)
	GetOptionForCheckout(ctx context.Context, arg database.GetOptionForCheckoutParams) (database.ProductOption, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
	UpsertCustomerByPhone(ctx context.Context, arg database.UpsertCustomerByPhoneParams) (database.Customer, error)
}

// NewCheckoutStore creates a CheckoutStore from a DBTX (pool or tx).
type NewCheckoutStore func(db database.DBTX) CheckoutStore

// CheckoutRequest is the validated input for confirming an order.
type CheckoutRequest struct {
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	PaymentMethod string `json:"payment_method"`
	// ScheduledTime non-empty means a scheduled pickup; the address
	// fields are then ignored and the delivery fee is zero.
	ScheduledTime string                `json:"scheduled_time"`
	Street        string                `json:"street"`
	Number        string                `json:"number"`
	Complement    string                `json:"complement"`
	Neighborhood  string                `json:"neighborhood"`
	City          string                `json:"city"`
	Observation   string                `json:"observation"`
	Items         []CheckoutItemRequest `json:"items"`
}

// CheckoutItemRequest is a single cart line handed to checkout. Prices
// are recomputed server-side from the menu; the client's snapshot is
// never trusted.
type CheckoutItemRequest struct {
	ProductID string   `json:"product_id"`
	Quantity  int32    `json:"quantity"`
	OptionIDs []string `json:"option_ids"`
}

// CheckoutResult is the persisted order plus the outbound hand-off.
type CheckoutResult struct {
	Order   database.Order
	Items   []database.OrderItem
	Message OutboundMessage
}

// CheckoutService assembles cart, address and payment into a persisted
// order and the WhatsApp hand-off message.
type CheckoutService struct {
	store      CheckoutStore
	pool       TxBeginner
	newStore   NewCheckoutStore
	open       func(ctx context.Context) bool
	storeName  string
	storePhone string
}

// NewCheckoutService creates a new CheckoutService. store is the
// pool-bound query set (used outside transactions); open gates checkout
// on store availability.
func NewCheckoutService(store CheckoutStore, pool TxBeginner, newStore NewCheckoutStore, open func(ctx context.Context) bool, storeName, storePhone string) *CheckoutService {
	return &CheckoutService{
		store:      store,
		pool:       pool,
		newStore:   newStore,
		open:       open,
		storeName:  storeName,
		storePhone: storePhone,
	}
}

// Confirm validates, prices, and persists the order with its lines in a
// single transaction, then upserts the customer profile best-effort and
// builds the outbound message. On any persistence failure nothing is
// committed and the caller keeps the cart.
func (s *CheckoutService) Confirm(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if !s.open(ctx) {
		return nil, ErrStoreClosed
	}

	if strings.TrimSpace(req.CustomerName) == "" {
		return nil, ErrNameRequired
	}
	if len(strings.TrimSpace(req.CustomerPhone)) < MinPhoneLength {
		return nil, ErrPhoneInvalid
	}
	if !isValidPaymentMethod(req.PaymentMethod) {
		return nil, ErrInvalidPayment
	}
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}

	pickup := strings.TrimSpace(req.ScheduledTime) != ""
	if !pickup {
		if strings.TrimSpace(req.Street) == "" {
			return nil, ErrStreetRequired
		}
		if strings.TrimSpace(req.Number) == "" {
			return nil, ErrNumberRequired
		}
	}

	order, items, err := s.confirmTx(ctx, req, pickup)
	if err != nil {
		return nil, err
	}

	// Best-effort profile upsert; failure never aborts the order.
	if _, err := s.store.UpsertCustomerByPhone(ctx, database.UpsertCustomerByPhoneParams{
		Phone: strings.TrimSpace(req.CustomerPhone),
		Name:  strings.TrimSpace(req.CustomerName),
	}); err != nil {
		log.Printf("WARN: upsert customer profile for order %s: %v", order.ShortID, err)
	}

	return &CheckoutResult{
		Order:   order,
		Items:   items,
		Message: BuildOrderMessage(s.storeName, s.storePhone, order, items),
	}, nil
}

// confirmTx prices the cart against the live menu and inserts the order
// with all its lines atomically. A failed line insert rolls the order
// back too; no order ever persists without items.
func (s *CheckoutService) confirmTx(ctx context.Context, req CheckoutRequest, pickup bool) (database.Order, []database.OrderItem, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.Order{}, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	// --- Zone check (delivery only) ---
	var zones []database.DeliveryFee
	if !pickup {
		zones, err = store.ListActiveDeliveryFees(ctx)
		if err != nil {
			return database.Order{}, nil, fmt.Errorf("list delivery zones: %w", err)
		}
		if _, ok := delivery.MatchZone(zones, req.Neighborhood); !ok {
			return database.Order{}, nil, ErrNoZoneMatch
		}
	}

	// --- Price items from the live menu ---
	var subtotal int64
	var itemParams []database.CreateOrderItemParams
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return database.Order{}, nil, fmt.Errorf("item[%d]: %w", i, ErrInvalidQuantity)
		}

		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return database.Order{}, nil, fmt.Errorf("item[%d]: %w", i, ErrInvalidProductID)
		}
		product, err := store.GetProductForCheckout(ctx, productID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return database.Order{}, nil, fmt.Errorf("item[%d]: %w", i, ErrProductNotFound)
			}
			return database.Order{}, nil, fmt.Errorf("item[%d]: get product: %w", i, err)
		}

		unitPrice := product.PriceCents
		var optionNames []string
		for j, optID := range item.OptionIDs {
			oid, err := uuid.Parse(optID)
			if err != nil {
				return database.Order{}, nil, fmt.Errorf("item[%d].options[%d]: %w", i, j, ErrInvalidOptionID)
			}
			option, err := store.GetOptionForCheckout(ctx, database.GetOptionForCheckoutParams{
				ID:        oid,
				ProductID: productID,
			})
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return database.Order{}, nil, fmt.Errorf("item[%d].options[%d]: %w", i, j, ErrOptionNotFound)
				}
				return database.Order{}, nil, fmt.Errorf("item[%d].options[%d]: get option: %w", i, j, err)
			}
			unitPrice += option.PriceDeltaCents
			optionNames = append(optionNames, option.Name)
		}

		subtotal += unitPrice * int64(item.Quantity)

		optionsLabel := pgtype.Text{}
		if len(optionNames) > 0 {
			optionsLabel = pgtype.Text{String: strings.Join(optionNames, ", "), Valid: true}
		}
		itemParams = append(itemParams, database.CreateOrderItemParams{
			ProductName:    product.Name,
			OptionsLabel:   optionsLabel,
			Quantity:       item.Quantity,
			UnitPriceCents: unitPrice,
		})
	}

	fee := delivery.ResolveFee(zones, req.Neighborhood, pickup, subtotal)
	total := subtotal + fee

	// --- Insert order ---
	orderID := uuid.New()
	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		ID:               orderID,
		ShortID:          ShortID(orderID),
		CustomerName:     strings.TrimSpace(req.CustomerName),
		CustomerPhone:    strings.TrimSpace(req.CustomerPhone),
		SubtotalCents:    subtotal,
		DeliveryFeeCents: fee,
		TotalCents:       total,
		PaymentMethod:    req.PaymentMethod,
		IsPickup:         pickup,
		ScheduledTime:    optionalText(req.ScheduledTime),
		Street:           optionalText(req.Street),
		Number:           optionalText(req.Number),
		Complement:       optionalText(req.Complement),
		Neighborhood:     optionalText(req.Neighborhood),
		City:             optionalText(req.City),
		Observation:      optionalText(req.Observation),
	})
	if err != nil {
		return database.Order{}, nil, fmt.Errorf("create order: %w", err)
	}

	// --- Insert lines ---
	var items []database.OrderItem
	for _, params := range itemParams {
		params.OrderID = order.ID
		item, err := store.CreateOrderItem(ctx, params)
		if err != nil {
			return database.Order{}, nil, fmt.Errorf("create order item: %w", err)
		}
		items = append(items, item)
	}

	if err := tx.Commit(ctx); err != nil {
		return database.Order{}, nil, fmt.Errorf("commit tx: %w", err)
	}

	return order, items, nil
}

// ShortID is the human-friendly rendering of an order id, used on
// printed tickets and in the WhatsApp message.
func ShortID(id uuid.UUID) string {
	return strings.ToUpper(id.String()[:8])
}

func isValidPaymentMethod(s string) bool {
	switch s {
	case enum.PaymentMethodPix, enum.PaymentMethodDinheiro, enum.PaymentMethodCartao:
		return true
	}
	return false
}

func optionalText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}
