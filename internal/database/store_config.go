package database

import "context"

const getConfigValue = `
SELECT key, value, updated_at
FROM store_config
WHERE key = $1
`

func (q *Queries) GetConfigValue(ctx context.Context, key string) (StoreConfig, error) {
	row := q.db.QueryRow(ctx, getConfigValue, key)
	var c StoreConfig
	err := row.Scan(&c.Key, &c.Value, &c.UpdatedAt)
	return c, err
}

const upsertConfigValue = `
INSERT INTO store_config (key, value)
VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE
SET value = EXCLUDED.value, updated_at = now()
RETURNING key, value, updated_at
`

type UpsertConfigValueParams struct {
	Key   string
	Value string
}

func (q *Queries) UpsertConfigValue(ctx context.Context, arg UpsertConfigValueParams) (StoreConfig, error) {
	row := q.db.QueryRow(ctx, upsertConfigValue, arg.Key, arg.Value)
	var c StoreConfig
	err := row.Scan(&c.Key, &c.Value, &c.UpdatedAt)
	return c, err
}
