package db

import (
	"context"
	_ "embed"

	"seatlock-coordinator/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// ApplySchema creates the coordinator's tables and indexes if they do not
// exist. The schema is a single idempotent file, applied at startup and by
// the e2e suite.
func ApplySchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return errs.Wrap(err, "failed to apply schema")
	}
	return nil
}
