package database

import (
	"context"

	"github.com/google/uuid"
)

const listCategories = `
SELECT id, name, sort_order, is_active, created_at, updated_at
FROM categories
ORDER BY sort_order, name
`

func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.Query(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

const listActiveCategories = `
SELECT id, name, sort_order, is_active, created_at, updated_at
FROM categories
WHERE is_active = true
ORDER BY sort_order, name
`

func (q *Queries) ListActiveCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.Query(ctx, listActiveCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

const getCategory = `
SELECT id, name, sort_order, is_active, created_at, updated_at
FROM categories
WHERE id = $1
`

func (q *Queries) GetCategory(ctx context.Context, id uuid.UUID) (Category, error) {
	row := q.db.QueryRow(ctx, getCategory, id)
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const createCategory = `
INSERT INTO categories (name, sort_order)
VALUES ($1, $2)
RETURNING id, name, sort_order, is_active, created_at, updated_at
`

type CreateCategoryParams struct {
	Name      string
	SortOrder int32
}

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error) {
	row := q.db.QueryRow(ctx, createCategory, arg.Name, arg.SortOrder)
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const updateCategory = `
UPDATE categories
SET name = $2, sort_order = $3, updated_at = now()
WHERE id = $1
RETURNING id, name, sort_order, is_active, created_at, updated_at
`

type UpdateCategoryParams struct {
	ID        uuid.UUID
	Name      string
	SortOrder int32
}

func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) (Category, error) {
	row := q.db.QueryRow(ctx, updateCategory, arg.ID, arg.Name, arg.SortOrder)
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const setCategoryActive = `
UPDATE categories
SET is_active = $2, updated_at = now()
WHERE id = $1
RETURNING id, name, sort_order, is_active, created_at, updated_at
`

type SetCategoryActiveParams struct {
	ID       uuid.UUID
	IsActive bool
}

func (q *Queries) SetCategoryActive(ctx context.Context, arg SetCategoryActiveParams) (Category, error) {
	row := q.db.QueryRow(ctx, setCategoryActive, arg.ID, arg.IsActive)
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const deleteCategory = `
DELETE FROM categories
WHERE id = $1
RETURNING id
`

func (q *Queries) DeleteCategory(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, deleteCategory, id)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}
