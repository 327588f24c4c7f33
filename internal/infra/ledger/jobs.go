package ledger

import (
	"context"
	"time"

	"seatlock-coordinator/internal/infra"
	"seatlock-coordinator/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLedgerJobs reads and settles queued conversion jobs. Jobs are
// created by the lock store inside the conversion transaction.
type PostgresLedgerJobs struct {
	pool *pgxpool.Pool
}

func NewPostgresLedgerJobs(pool *pgxpool.Pool) *PostgresLedgerJobs {
	return &PostgresLedgerJobs{pool: pool}
}

func (r *PostgresLedgerJobs) Pending(ctx context.Context, limit int) ([]*shared.LedgerJob, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, topic, payload, status, attempts, last_error, run_at
		 FROM ledger_jobs
		 WHERE status = 'queued' AND run_at <= now()
		 ORDER BY run_at
		 LIMIT $1`,
		limit)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to load pending ledger jobs", err)
	}
	defer rows.Close()

	var jobs []*shared.LedgerJob
	for rows.Next() {
		var (
			j         shared.LedgerJob
			lastError *string
			runAt     time.Time
		)
		if err := rows.Scan(&j.ID, &j.Topic, &j.Payload, &j.Status, &j.Attempts, &lastError, &runAt); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan ledger job", err)
		}
		j.LastError = lastError
		j.RunAt = runAt
		jobs = append(jobs, &j)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to iterate ledger jobs", err)
	}
	return jobs, nil
}

func (r *PostgresLedgerJobs) MarkDispatched(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx,
		`UPDATE ledger_jobs
		 SET status = 'dispatched', attempts = attempts + 1, updated_at = now()
		 WHERE id = $1`,
		id); err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to mark ledger job dispatched", err)
	}
	return nil
}

func (r *PostgresLedgerJobs) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	// Failed publishes stay queued so the next dispatcher pass retries them.
	if _, err := r.pool.Exec(ctx,
		`UPDATE ledger_jobs
		 SET attempts = attempts + 1, last_error = $2, updated_at = now()
		 WHERE id = $1`,
		id, reason); err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to mark ledger job failed", err)
	}
	return nil
}
