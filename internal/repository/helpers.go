package repository

import (
	"context"
	"database/sql"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn runs on tx when one is given, otherwise on db.
func conn(db *sql.DB, tx *sql.Tx) querier {
	if tx != nil {
		return tx
	}
	return db
}

// NewID returns a server-assigned document identifier.
func NewID() (string, error) {
	return gonanoid.New()
}

type scanner interface {
	Scan(dest ...any) error
}
