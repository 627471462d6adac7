package database

import (
	"context"

	"github.com/google/uuid"
)

const feeColumns = `id, neighborhood, fee_cents, is_active, created_at, updated_at`

func scanFee(row interface{ Scan(...interface{}) error }) (DeliveryFee, error) {
	var f DeliveryFee
	err := row.Scan(&f.ID, &f.Neighborhood, &f.FeeCents, &f.IsActive, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

const listDeliveryFees = `
SELECT ` + feeColumns + `
FROM delivery_fees
ORDER BY neighborhood
`

func (q *Queries) ListDeliveryFees(ctx context.Context) ([]DeliveryFee, error) {
	rows, err := q.db.Query(ctx, listDeliveryFees)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DeliveryFee
	for rows.Next() {
		f, err := scanFee(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	return items, rows.Err()
}

const listActiveDeliveryFees = `
SELECT ` + feeColumns + `
FROM delivery_fees
WHERE is_active = true
ORDER BY neighborhood
`

func (q *Queries) ListActiveDeliveryFees(ctx context.Context) ([]DeliveryFee, error) {
	rows, err := q.db.Query(ctx, listActiveDeliveryFees)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DeliveryFee
	for rows.Next() {
		f, err := scanFee(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	return items, rows.Err()
}

const getDeliveryFee = `
SELECT ` + feeColumns + `
FROM delivery_fees
WHERE id = $1
`

func (q *Queries) GetDeliveryFee(ctx context.Context, id uuid.UUID) (DeliveryFee, error) {
	return scanFee(q.db.QueryRow(ctx, getDeliveryFee, id))
}

const createDeliveryFee = `
INSERT INTO delivery_fees (neighborhood, fee_cents)
VALUES ($1, $2)
RETURNING ` + feeColumns + `
`

type CreateDeliveryFeeParams struct {
	Neighborhood string
	FeeCents     int64
}

func (q *Queries) CreateDeliveryFee(ctx context.Context, arg CreateDeliveryFeeParams) (DeliveryFee, error) {
	return scanFee(q.db.QueryRow(ctx, createDeliveryFee, arg.Neighborhood, arg.FeeCents))
}

const updateDeliveryFee = `
UPDATE delivery_fees
SET neighborhood = $2, fee_cents = $3, updated_at = now()
WHERE id = $1
RETURNING ` + feeColumns + `
`

type UpdateDeliveryFeeParams struct {
	ID           uuid.UUID
	Neighborhood string
	FeeCents     int64
}

func (q *Queries) UpdateDeliveryFee(ctx context.Context, arg UpdateDeliveryFeeParams) (DeliveryFee, error) {
	return scanFee(q.db.QueryRow(ctx, updateDeliveryFee, arg.ID, arg.Neighborhood, arg.FeeCents))
}

const setDeliveryFeeActive = `
UPDATE delivery_fees
SET is_active = $2, updated_at = now()
WHERE id = $1
RETURNING ` + feeColumns + `
`

type SetDeliveryFeeActiveParams struct {
	ID       uuid.UUID
	IsActive bool
}

func (q *Queries) SetDeliveryFeeActive(ctx context.Context, arg SetDeliveryFeeActiveParams) (DeliveryFee, error) {
	return scanFee(q.db.QueryRow(ctx, setDeliveryFeeActive, arg.ID, arg.IsActive))
}

const deleteDeliveryFee = `
DELETE FROM delivery_fees
WHERE id = $1
RETURNING id
`

func (q *Queries) DeleteDeliveryFee(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, deleteDeliveryFee, id)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}
