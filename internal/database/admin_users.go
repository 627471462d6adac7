package database

import (
	"context"

	"github.com/google/uuid"
)

const getAdminByEmail = `
SELECT id, email, hashed_password, full_name, is_active, created_at, updated_at
FROM admin_users
WHERE email = $1 AND is_active = true
`

func (q *Queries) GetAdminByEmail(ctx context.Context, email string) (AdminUser, error) {
	row := q.db.QueryRow(ctx, getAdminByEmail, email)
	var u AdminUser
	err := row.Scan(&u.ID, &u.Email, &u.HashedPassword, &u.FullName, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

const getAdminByID = `
SELECT id, email, hashed_password, full_name, is_active, created_at, updated_at
FROM admin_users
WHERE id = $1 AND is_active = true
`

func (q *Queries) GetAdminByID(ctx context.Context, id uuid.UUID) (AdminUser, error) {
	row := q.db.QueryRow(ctx, getAdminByID, id)
	var u AdminUser
	err := row.Scan(&u.ID, &u.Email, &u.HashedPassword, &u.FullName, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
