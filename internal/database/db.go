// Package database is the query layer over PostgreSQL. It follows the
// sqlc calling convention (DBTX, Queries, one Params struct per query)
// so handlers can depend on narrow interfaces satisfied by *Queries.
package database

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx, letting the same
// queries run against the pool or inside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Queries exposes all database operations.
type Queries struct {
	db DBTX
}

// New creates Queries bound to the given pool or transaction.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns Queries bound to the given transaction.
func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE wildcards in user-supplied search text.
// The matching queries carry an ESCAPE '\' clause.
func escapeLike(t pgtype.Text) pgtype.Text {
	if !t.Valid {
		return t
	}
	return pgtype.Text{String: likeEscaper.Replace(t.String), Valid: true}
}
