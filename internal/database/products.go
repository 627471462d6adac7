package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const productColumns = `id, category_id, name, description, price_cents, image_url,
	is_best_seller, is_popular, is_active, created_at, updated_at`

func scanProduct(row interface{ Scan(...interface{}) error }) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.PriceCents, &p.ImageUrl,
		&p.IsBestSeller, &p.IsPopular, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

const listProducts = `
SELECT ` + productColumns + `
FROM products
ORDER BY name
`

func (q *Queries) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := q.db.Query(ctx, listProducts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

const listActiveProducts = `
SELECT ` + productColumns + `
FROM products
WHERE is_active = true
ORDER BY name
`

func (q *Queries) ListActiveProducts(ctx context.Context) ([]Product, error) {
	rows, err := q.db.Query(ctx, listActiveProducts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

const getProduct = `
SELECT ` + productColumns + `
FROM products
WHERE id = $1
`

func (q *Queries) GetProduct(ctx context.Context, id uuid.UUID) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, getProduct, id))
}

const getProductForCheckout = `
SELECT ` + productColumns + `
FROM products
WHERE id = $1 AND is_active = true
`

// GetProductForCheckout only sees active products: deactivated items
// cannot be ordered even from a stale cart.
func (q *Queries) GetProductForCheckout(ctx context.Context, id uuid.UUID) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, getProductForCheckout, id))
}

const createProduct = `
INSERT INTO products (category_id, name, description, price_cents, image_url, is_best_seller, is_popular)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + productColumns + `
`

type CreateProductParams struct {
	CategoryID   uuid.UUID
	Name         string
	Description  pgtype.Text
	PriceCents   int64
	ImageUrl     pgtype.Text
	IsBestSeller bool
	IsPopular    bool
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, createProduct,
		arg.CategoryID, arg.Name, arg.Description, arg.PriceCents, arg.ImageUrl, arg.IsBestSeller, arg.IsPopular))
}

const updateProduct = `
UPDATE products
SET category_id = $2, name = $3, description = $4, price_cents = $5,
	image_url = $6, is_best_seller = $7, is_popular = $8, updated_at = now()
WHERE id = $1
RETURNING ` + productColumns + `
`

type UpdateProductParams struct {
	ID           uuid.UUID
	CategoryID   uuid.UUID
	Name         string
	Description  pgtype.Text
	PriceCents   int64
	ImageUrl     pgtype.Text
	IsBestSeller bool
	IsPopular    bool
}

func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, updateProduct,
		arg.ID, arg.CategoryID, arg.Name, arg.Description, arg.PriceCents, arg.ImageUrl, arg.IsBestSeller, arg.IsPopular))
}

const setProductActive = `
UPDATE products
SET is_active = $2, updated_at = now()
WHERE id = $1
RETURNING ` + productColumns + `
`

type SetProductActiveParams struct {
	ID       uuid.UUID
	IsActive bool
}

func (q *Queries) SetProductActive(ctx context.Context, arg SetProductActiveParams) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, setProductActive, arg.ID, arg.IsActive))
}

const deleteProduct = `
DELETE FROM products
WHERE id = $1
RETURNING id
`

func (q *Queries) DeleteProduct(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, deleteProduct, id)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}
