package persistence

import (
	"context"
	_ "embed"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema/payroll-schema.sql
var schemaSQL string

// EnsureSchema creates the record-store tables if they do not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return gerrors.Wrap(err, "apply payroll schema")
	}
	return nil
}
