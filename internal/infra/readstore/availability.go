package readstore

import (
	"context"
	"time"

	"seatlock-coordinator/internal/domain/hold"
	"seatlock-coordinator/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresAvailabilityReader serves the polling read side. It shares the
// tables with the lock store but none of its write paths: many concurrent
// shopping sessions hit these queries every few seconds.
type PostgresAvailabilityReader struct {
	pool *pgxpool.Pool
}

func NewPostgresAvailabilityReader(pool *pgxpool.Pool) *PostgresAvailabilityReader {
	return &PostgresAvailabilityReader{pool: pool}
}

func (r *PostgresAvailabilityReader) ListActive(ctx context.Context, inv hold.InventoryRef, now time.Time) ([]*hold.SeatHold, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, inventory_type, inventory_id, seat_id, owner_user_id, owner_session_id,
		        price_cents, status, acquired_at, expires_at
		 FROM seat_holds
		 WHERE inventory_type = $1 AND inventory_id = $2
		   AND status = 'ACTIVE' AND expires_at > $3
		 ORDER BY seat_id`,
		inv.InventoryType.String(), inv.InventoryID, now)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list active holds", err)
	}
	return collectViewHolds(rows)
}

func (r *PostgresAvailabilityReader) ListByOwner(ctx context.Context, owner hold.Owner, now time.Time) ([]*hold.SeatHold, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, inventory_type, inventory_id, seat_id, owner_user_id, owner_session_id,
		        price_cents, status, acquired_at, expires_at
		 FROM seat_holds
		 WHERE status = 'ACTIVE' AND expires_at > $1
		   AND ((($2 <> '') AND owner_user_id = $2) OR (($3 <> '') AND owner_session_id = $3))
		 ORDER BY inventory_type, inventory_id, seat_id`,
		now, owner.UserID, owner.SessionID)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list holds by owner", err)
	}
	return collectViewHolds(rows)
}

func (r *PostgresAvailabilityReader) ListBookedSeatIDs(ctx context.Context, inv hold.InventoryRef) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT seat_id FROM booked_seats
		 WHERE inventory_type = $1 AND inventory_id = $2
		 ORDER BY seat_id`,
		inv.InventoryType.String(), inv.InventoryID)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list booked seats", err)
	}
	defer rows.Close()

	seatIDs := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan booked seat", err)
		}
		seatIDs = append(seatIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to iterate booked seats", err)
	}
	return seatIDs, nil
}

func (r *PostgresAvailabilityReader) SeatTaken(ctx context.Context, key hold.SeatKey, now time.Time) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM booked_seats
		   WHERE inventory_type = $1 AND inventory_id = $2 AND seat_id = $3)
		 OR EXISTS (
		   SELECT 1 FROM seat_holds
		   WHERE inventory_type = $1 AND inventory_id = $2 AND seat_id = $3
		     AND status = 'ACTIVE' AND expires_at > $4)`,
		key.InventoryType.String(), key.InventoryID, key.SeatID, now).Scan(&taken)
	if err != nil {
		return false, infra.WrapRepoErr(infra.KindDBFailure, "failed to check seat", err)
	}
	return taken, nil
}

func collectViewHolds(rows pgx.Rows) ([]*hold.SeatHold, error) {
	defer rows.Close()
	var holds []*hold.SeatHold
	for rows.Next() {
		var (
			id                     uuid.UUID
			invType, invID, seatID string
			ownerUserID, sessionID string
			priceCents             int64
			status                 string
			acquiredAt, expiresAt  time.Time
		)
		if err := rows.Scan(&id, &invType, &invID, &seatID, &ownerUserID, &sessionID, &priceCents, &status, &acquiredAt, &expiresAt); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan hold", err)
		}
		key := hold.SeatKey{InventoryType: hold.InventoryType(invType), InventoryID: invID, SeatID: seatID}
		owner := hold.Owner{UserID: ownerUserID, SessionID: sessionID}
		holds = append(holds, hold.ReconstructSeatHold(id, key, owner, priceCents, hold.Status(status), acquiredAt, expiresAt))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to iterate holds", err)
	}
	return holds, nil
}
