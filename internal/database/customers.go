package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const customerColumns = `id, phone, name, is_archived, created_at, updated_at`

func scanCustomer(row interface{ Scan(...interface{}) error }) (Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.Phone, &c.Name, &c.IsArchived, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const listCustomers = `
SELECT ` + customerColumns + `
FROM customers
WHERE is_archived = $1
  AND ($2::text IS NULL
       OR phone ILIKE '%' || $2 || '%' ESCAPE '\'
       OR name ILIKE '%' || $2 || '%' ESCAPE '\')
ORDER BY name
LIMIT $3 OFFSET $4
`

type ListCustomersParams struct {
	Archived bool
	Search   pgtype.Text
	Limit    int32
	Offset   int32
}

func (q *Queries) ListCustomers(ctx context.Context, arg ListCustomersParams) ([]Customer, error) {
	rows, err := q.db.Query(ctx, listCustomers, arg.Archived, escapeLike(arg.Search), arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

const getCustomer = `
SELECT ` + customerColumns + `
FROM customers
WHERE id = $1
`

func (q *Queries) GetCustomer(ctx context.Context, id uuid.UUID) (Customer, error) {
	return scanCustomer(q.db.QueryRow(ctx, getCustomer, id))
}

const getCustomerByPhone = `
SELECT ` + customerColumns + `
FROM customers
WHERE phone = $1
`

func (q *Queries) GetCustomerByPhone(ctx context.Context, phone string) (Customer, error) {
	return scanCustomer(q.db.QueryRow(ctx, getCustomerByPhone, phone))
}

const upsertCustomerByPhone = `
INSERT INTO customers (phone, name)
VALUES ($1, $2)
ON CONFLICT (phone) DO UPDATE
SET name = EXCLUDED.name, updated_at = now()
RETURNING ` + customerColumns + `
`

type UpsertCustomerByPhoneParams struct {
	Phone string
	Name  string
}

// UpsertCustomerByPhone opportunistically records or refreshes a profile.
// Phone is the business key.
func (q *Queries) UpsertCustomerByPhone(ctx context.Context, arg UpsertCustomerByPhoneParams) (Customer, error) {
	return scanCustomer(q.db.QueryRow(ctx, upsertCustomerByPhone, arg.Phone, arg.Name))
}

const updateCustomer = `
UPDATE customers
SET phone = $2, name = $3, updated_at = now()
WHERE id = $1
RETURNING ` + customerColumns + `
`

type UpdateCustomerParams struct {
	ID    uuid.UUID
	Phone string
	Name  string
}

func (q *Queries) UpdateCustomer(ctx context.Context, arg UpdateCustomerParams) (Customer, error) {
	return scanCustomer(q.db.QueryRow(ctx, updateCustomer, arg.ID, arg.Phone, arg.Name))
}

const setCustomerArchived = `
UPDATE customers
SET is_archived = $2, updated_at = now()
WHERE id = $1
RETURNING ` + customerColumns + `
`

type SetCustomerArchivedParams struct {
	ID       uuid.UUID
	Archived bool
}

func (q *Queries) SetCustomerArchived(ctx context.Context, arg SetCustomerArchivedParams) (Customer, error) {
	return scanCustomer(q.db.QueryRow(ctx, setCustomerArchived, arg.ID, arg.Archived))
}
