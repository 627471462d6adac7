package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `id, short_id, customer_name, customer_phone,
	subtotal_cents, delivery_fee_cents, total_cents,
	status, payment_status, payment_method, is_pickup, scheduled_time,
	street, number, complement, neighborhood, city, observation,
	created_at, updated_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.ShortID, &o.CustomerName, &o.CustomerPhone,
		&o.SubtotalCents, &o.DeliveryFeeCents, &o.TotalCents,
		&o.Status, &o.PaymentStatus, &o.PaymentMethod, &o.IsPickup, &o.ScheduledTime,
		&o.Street, &o.Number, &o.Complement, &o.Neighborhood, &o.City, &o.Observation,
		&o.CreatedAt, &o.UpdatedAt)
	return o, err
}

const createOrder = `
INSERT INTO orders (id, short_id, customer_name, customer_phone,
	subtotal_cents, delivery_fee_cents, total_cents,
	payment_method, is_pickup, scheduled_time,
	street, number, complement, neighborhood, city, observation)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
RETURNING ` + orderColumns + `
`

type CreateOrderParams struct {
	ID               uuid.UUID
	ShortID          string
	CustomerName     string
	CustomerPhone    string
	SubtotalCents    int64
	DeliveryFeeCents int64
	TotalCents       int64
	PaymentMethod    string
	IsPickup         bool
	ScheduledTime    pgtype.Text
	Street           pgtype.Text
	Number           pgtype.Text
	Complement       pgtype.Text
	Neighborhood     pgtype.Text
	City             pgtype.Text
	Observation      pgtype.Text
}

// CreateOrder inserts a new order. Status and payment_status start at
// their DB defaults (pendente / pendente).
func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, createOrder,
		arg.ID, arg.ShortID, arg.CustomerName, arg.CustomerPhone,
		arg.SubtotalCents, arg.DeliveryFeeCents, arg.TotalCents,
		arg.PaymentMethod, arg.IsPickup, arg.ScheduledTime,
		arg.Street, arg.Number, arg.Complement, arg.Neighborhood, arg.City, arg.Observation))
}

const createOrderItem = `
INSERT INTO order_items (order_id, product_name, options_label, quantity, unit_price_cents)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, order_id, product_name, options_label, quantity, unit_price_cents
`

type CreateOrderItemParams struct {
	OrderID        uuid.UUID
	ProductName    string
	OptionsLabel   pgtype.Text
	Quantity       int32
	UnitPriceCents int64
}

func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error) {
	row := q.db.QueryRow(ctx, createOrderItem,
		arg.OrderID, arg.ProductName, arg.OptionsLabel, arg.Quantity, arg.UnitPriceCents)
	var it OrderItem
	err := row.Scan(&it.ID, &it.OrderID, &it.ProductName, &it.OptionsLabel, &it.Quantity, &it.UnitPriceCents)
	return it, err
}

const getOrder = `
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1
`

func (q *Queries) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrder, id))
}

const listOrders = `
SELECT ` + orderColumns + `
FROM orders
WHERE (($1::text IS NULL AND status <> 'cancelado') OR status = $1)
  AND ($2::timestamptz IS NULL OR created_at >= $2)
  AND ($3::timestamptz IS NULL OR created_at < $3)
  AND ($4::text IS NULL OR customer_phone ILIKE '%' || $4 || '%' ESCAPE '\')
ORDER BY created_at DESC
LIMIT $5 OFFSET $6
`

type ListOrdersParams struct {
	Status    pgtype.Text
	StartDate pgtype.Timestamptz
	EndDate   pgtype.Timestamptz
	Phone     pgtype.Text
	Limit     int32
	Offset    int32
}

// ListOrders excludes cancelled orders unless status = 'cancelado' is
// requested explicitly (the trash view).
func (q *Queries) ListOrders(ctx context.Context, arg ListOrdersParams) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrders,
		arg.Status, arg.StartDate, arg.EndDate, escapeLike(arg.Phone), arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, rows.Err()
}

const listOrdersByPhone = `
SELECT ` + orderColumns + `
FROM orders
WHERE customer_phone = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`

type ListOrdersByPhoneParams struct {
	Phone  string
	Limit  int32
	Offset int32
}

func (q *Queries) ListOrdersByPhone(ctx context.Context, arg ListOrdersByPhoneParams) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrdersByPhone, arg.Phone, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, rows.Err()
}

const listOrderItemsByOrder = `
SELECT id, order_id, product_name, options_label, quantity, unit_price_cents
FROM order_items
WHERE order_id = $1
ORDER BY id
`

func (q *Queries) ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, listOrderItemsByOrder, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductName, &it.OptionsLabel, &it.Quantity, &it.UnitPriceCents); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

const updateOrderStatus = `
UPDATE orders
SET status = $2, updated_at = now()
WHERE id = $1 AND status = $3
RETURNING ` + orderColumns + `
`

type UpdateOrderStatusParams struct {
	ID            uuid.UUID
	Status        string
	CurrentStatus string
}

// UpdateOrderStatus is a compare-and-set on the current status; returns
// pgx.ErrNoRows when a concurrent admin moved the order first.
func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, updateOrderStatus, arg.ID, arg.Status, arg.CurrentStatus))
}

const updatePaymentStatus = `
UPDATE orders
SET payment_status = $2, updated_at = now()
WHERE id = $1
RETURNING ` + orderColumns + `
`

type UpdatePaymentStatusParams struct {
	ID            uuid.UUID
	PaymentStatus string
}

func (q *Queries) UpdatePaymentStatus(ctx context.Context, arg UpdatePaymentStatusParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, updatePaymentStatus, arg.ID, arg.PaymentStatus))
}

const cancelOrder = `
UPDATE orders
SET status = 'cancelado', updated_at = now()
WHERE id = $1 AND status NOT IN ('finalizado', 'cancelado')
RETURNING ` + orderColumns + `
`

// CancelOrder moves any non-terminal order to cancelado. The WHERE
// clause enforces the precondition atomically.
func (q *Queries) CancelOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, cancelOrder, id))
}

const restoreOrder = `
UPDATE orders
SET status = 'pendente', updated_at = now()
WHERE id = $1 AND status = 'cancelado'
RETURNING ` + orderColumns + `
`

func (q *Queries) RestoreOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, restoreOrder, id))
}

const deleteOrder = `
DELETE FROM orders
WHERE id = $1 AND status = 'cancelado'
RETURNING id
`

// DeleteOrder permanently removes a cancelled order and, via ON DELETE
// CASCADE, its lines. Irreversible.
func (q *Queries) DeleteOrder(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, deleteOrder, id)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}
