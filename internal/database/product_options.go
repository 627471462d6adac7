package database

import (
	"context"

	"github.com/google/uuid"
)

const optionColumns = `id, product_id, name, price_delta_cents, is_active, created_at, updated_at`

func scanOption(row interface{ Scan(...interface{}) error }) (ProductOption, error) {
	var o ProductOption
	err := row.Scan(&o.ID, &o.ProductID, &o.Name, &o.PriceDeltaCents, &o.IsActive, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

const listOptionsByProduct = `
SELECT ` + optionColumns + `
FROM product_options
WHERE product_id = $1
ORDER BY name
`

func (q *Queries) ListOptionsByProduct(ctx context.Context, productID uuid.UUID) ([]ProductOption, error) {
	rows, err := q.db.Query(ctx, listOptionsByProduct, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ProductOption
	for rows.Next() {
		o, err := scanOption(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, rows.Err()
}

const listActiveOptionsByProduct = `
SELECT ` + optionColumns + `
FROM product_options
WHERE product_id = $1 AND is_active = true
ORDER BY name
`

func (q *Queries) ListActiveOptionsByProduct(ctx context.Context, productID uuid.UUID) ([]ProductOption, error) {
	rows, err := q.db.Query(ctx, listActiveOptionsByProduct, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ProductOption
	for rows.Next() {
		o, err := scanOption(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, rows.Err()
}

const getOption = `
SELECT ` + optionColumns + `
FROM product_options
WHERE id = $1 AND product_id = $2
`

type GetOptionParams struct {
	ID        uuid.UUID
	ProductID uuid.UUID
}

func (q *Queries) GetOption(ctx context.Context, arg GetOptionParams) (ProductOption, error) {
	return scanOption(q.db.QueryRow(ctx, getOption, arg.ID, arg.ProductID))
}

const getOptionForCheckout = `
SELECT ` + optionColumns + `
FROM product_options
WHERE id = $1 AND product_id = $2 AND is_active = true
`

type GetOptionForCheckoutParams struct {
	ID        uuid.UUID
	ProductID uuid.UUID
}

func (q *Queries) GetOptionForCheckout(ctx context.Context, arg GetOptionForCheckoutParams) (ProductOption, error) {
	return scanOption(q.db.QueryRow(ctx, getOptionForCheckout, arg.ID, arg.ProductID))
}

const createOption = `
INSERT INTO product_options (product_id, name, price_delta_cents)
VALUES ($1, $2, $3)
RETURNING ` + optionColumns + `
`

type CreateOptionParams struct {
	ProductID       uuid.UUID
	Name            string
	PriceDeltaCents int64
}

func (q *Queries) CreateOption(ctx context.Context, arg CreateOptionParams) (ProductOption, error) {
	return scanOption(q.db.QueryRow(ctx, createOption, arg.ProductID, arg.Name, arg.PriceDeltaCents))
}

const updateOption = `
UPDATE product_options
SET name = $3, price_delta_cents = $4, updated_at = now()
WHERE id = $1 AND product_id = $2
RETURNING ` + optionColumns + `
`

type UpdateOptionParams struct {
	ID              uuid.UUID
	ProductID       uuid.UUID
	Name            string
	PriceDeltaCents int64
}

func (q *Queries) UpdateOption(ctx context.Context, arg UpdateOptionParams) (ProductOption, error) {
	return scanOption(q.db.QueryRow(ctx, updateOption, arg.ID, arg.ProductID, arg.Name, arg.PriceDeltaCents))
}

const setOptionActive = `
UPDATE product_options
SET is_active = $3, updated_at = now()
WHERE id = $1 AND product_id = $2
RETURNING ` + optionColumns + `
`

type SetOptionActiveParams struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	IsActive  bool
}

func (q *Queries) SetOptionActive(ctx context.Context, arg SetOptionActiveParams) (ProductOption, error) {
	return scanOption(q.db.QueryRow(ctx, setOptionActive, arg.ID, arg.ProductID, arg.IsActive))
}

const deleteOption = `
DELETE FROM product_options
WHERE id = $1 AND product_id = $2
RETURNING id
`

type DeleteOptionParams struct {
	ID        uuid.UUID
	ProductID uuid.UUID
}

func (q *Queries) DeleteOption(ctx context.Context, arg DeleteOptionParams) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, deleteOption, arg.ID, arg.ProductID)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}
