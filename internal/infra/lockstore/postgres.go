package lockstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"seatlock-coordinator/internal/domain/booking"
	"seatlock-coordinator/internal/domain/hold"
	"seatlock-coordinator/internal/infra"
	"seatlock-coordinator/internal/infra/db"
	"seatlock-coordinator/internal/infra/ledger"
	"seatlock-coordinator/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLockStore implements shared.LockStore on top of the seat_holds /
// booked_seats tables. The partial unique index on active keys is the
// per-key arbiter: every conflicting acquisition is decided by the database,
// not by application-level locking.
type PostgresLockStore struct {
	pool *pgxpool.Pool
}

func NewPostgresLockStore(pool *pgxpool.Pool) *PostgresLockStore {
	return &PostgresLockStore{pool: pool}
}

const holdColumns = `id, inventory_type, inventory_id, seat_id, owner_user_id, owner_session_id, price_cents, status, acquired_at, expires_at`

func (s *PostgresLockStore) TryCreate(ctx context.Context, h *hold.SeatHold) (shared.CreateOutcome, error) {
	var outcome shared.CreateOutcome
	err := db.WithTx(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		out, err := acquireOne(ctx, tx, h)
		if err != nil {
			return err
		}
		outcome = out
		return nil
	})
	return outcome, err
}

func (s *PostgresLockStore) TryCreateAll(ctx context.Context, holds []*hold.SeatHold) error {
	if len(holds) == 0 {
		return nil
	}
	// Holds arrive in canonical key order; acquiring them in that order
	// inside one transaction keeps row-lock acquisition deadlock-free and
	// makes the rollback on first conflict implicit.
	return db.WithTx(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		for _, h := range holds {
			if _, err := acquireOne(ctx, tx, h); err != nil {
				return err
			}
		}
		return nil
	})
}

func acquireOne(ctx context.Context, tx pgx.Tx, h *hold.SeatHold) (shared.CreateOutcome, error) {
	k := h.Key()
	now := h.AcquiredAt()

	// Lapsed holds still occupy the active-key index until swept; retire
	// them here so expiry never blocks a new acquisition.
	_, err := tx.Exec(ctx,
		`UPDATE seat_holds SET status = 'EXPIRED'
		 WHERE inventory_type = $1 AND inventory_id = $2 AND seat_id = $3
		   AND status = 'ACTIVE' AND expires_at <= $4`,
		k.InventoryType.String(), k.InventoryID, k.SeatID, now)
	if err != nil {
		return 0, infra.WrapRepoErr(infra.KindDBFailure, "failed to retire lapsed hold", err)
	}

	booked, err := seatBooked(ctx, tx, k)
	if err != nil {
		return 0, err
	}
	if booked {
		return 0, infra.NewRepoErr(infra.KindSeatBooked, k.String())
	}

	owner := h.Owner()
	tag, err := tx.Exec(ctx,
		`UPDATE seat_holds SET acquired_at = $4, expires_at = $5
		 WHERE inventory_type = $1 AND inventory_id = $2 AND seat_id = $3
		   AND status = 'ACTIVE'
		   AND ((($6 <> '') AND owner_user_id = $6) OR (($7 <> '') AND owner_session_id = $7))`,
		k.InventoryType.String(), k.InventoryID, k.SeatID,
		h.AcquiredAt(), h.ExpiresAt(), owner.UserID, owner.SessionID)
	if err != nil {
		return 0, infra.WrapRepoErr(infra.KindDBFailure, "failed to refresh hold", err)
	}
	if tag.RowsAffected() == 1 {
		return shared.OutcomeRefreshed, nil
	}

	tag, err = tx.Exec(ctx,
		`INSERT INTO seat_holds (`+holdColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (inventory_type, inventory_id, seat_id) WHERE status = 'ACTIVE' DO NOTHING`,
		h.ID(), k.InventoryType.String(), k.InventoryID, k.SeatID,
		owner.UserID, owner.SessionID, h.PriceCents(), h.Status().String(),
		h.AcquiredAt(), h.ExpiresAt())
	if err != nil {
		if db.IsUniqueViolation(err) {
			return 0, infra.NewRepoErr(infra.KindSeatLocked, k.String())
		}
		return 0, infra.WrapRepoErr(infra.KindDBFailure, "failed to insert hold", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, infra.NewRepoErr(infra.KindSeatLocked, k.String())
	}

	// Re-check after the insert. A conversion racing this acquisition can
	// commit its booked_seats row while our speculative insert waits on the
	// converting hold's active-key index entry; the first check ran before
	// that commit was visible. Finding a booking here rolls the insert back.
	booked, err = seatBooked(ctx, tx, k)
	if err != nil {
		return 0, err
	}
	if booked {
		return 0, infra.NewRepoErr(infra.KindSeatBooked, k.String())
	}
	return shared.OutcomeCreated, nil
}

func seatBooked(ctx context.Context, tx pgx.Tx, k hold.SeatKey) (bool, error) {
	var booked bool
	err := tx.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM booked_seats
		   WHERE inventory_type = $1 AND inventory_id = $2 AND seat_id = $3)`,
		k.InventoryType.String(), k.InventoryID, k.SeatID).Scan(&booked)
	if err != nil {
		return false, infra.WrapRepoErr(infra.KindDBFailure, "failed to check booked seat", err)
	}
	return booked, nil
}

func (s *PostgresLockStore) CompareAndRemove(ctx context.Context, key hold.SeatKey, owner hold.Owner, to hold.Status, now time.Time) (bool, error) {
	var removed bool
	err := db.WithTx(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE seat_holds SET status = $7
			 WHERE inventory_type = $1 AND inventory_id = $2 AND seat_id = $3
			   AND status = 'ACTIVE' AND expires_at > $4
			   AND ((($5 <> '') AND owner_user_id = $5) OR (($6 <> '') AND owner_session_id = $6))`,
			key.InventoryType.String(), key.InventoryID, key.SeatID, now,
			owner.UserID, owner.SessionID, to.String())
		if err != nil {
			return infra.WrapRepoErr(infra.KindDBFailure, "failed to release hold", err)
		}
		if tag.RowsAffected() == 1 {
			removed = true
			return nil
		}

		// Nothing released: distinguish a foreign active hold from plain
		// absence (absence, including expiry, is an idempotent no-op).
		var heldByOther bool
		err = tx.QueryRow(ctx,
			`SELECT EXISTS (
			   SELECT 1 FROM seat_holds
			   WHERE inventory_type = $1 AND inventory_id = $2 AND seat_id = $3
			     AND status = 'ACTIVE' AND expires_at > $4)`,
			key.InventoryType.String(), key.InventoryID, key.SeatID, now).Scan(&heldByOther)
		if err != nil {
			return infra.WrapRepoErr(infra.KindDBFailure, "failed to check hold ownership", err)
		}
		if heldByOther {
			return infra.NewRepoErr(infra.KindNotOwner, key.String())
		}
		removed = false
		return nil
	})
	return removed, err
}

func (s *PostgresLockStore) ReleaseAllForOwner(ctx context.Context, owner hold.Owner, now time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE seat_holds SET status = 'RELEASED'
		 WHERE status = 'ACTIVE' AND expires_at > $1
		   AND ((($2 <> '') AND owner_user_id = $2) OR (($3 <> '') AND owner_session_id = $3))`,
		now, owner.UserID, owner.SessionID)
	if err != nil {
		return 0, infra.WrapRepoErr(infra.KindDBFailure, "failed to release holds for owner", err)
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresLockStore) Get(ctx context.Context, key hold.SeatKey, now time.Time) (*hold.SeatHold, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+holdColumns+` FROM seat_holds
		 WHERE inventory_type = $1 AND inventory_id = $2 AND seat_id = $3
		   AND status = 'ACTIVE' AND expires_at > $4`,
		key.InventoryType.String(), key.InventoryID, key.SeatID, now)
	h, err := scanHold(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.NewRepoErr(infra.KindNotFound, key.String())
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to get hold", err)
	}
	return h, nil
}

func (s *PostgresLockStore) ListActive(ctx context.Context, inv hold.InventoryRef, now time.Time) ([]*hold.SeatHold, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+holdColumns+` FROM seat_holds
		 WHERE inventory_type = $1 AND inventory_id = $2
		   AND status = 'ACTIVE' AND expires_at > $3
		 ORDER BY seat_id`,
		inv.InventoryType.String(), inv.InventoryID, now)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list active holds", err)
	}
	return collectHolds(rows)
}

func (s *PostgresLockStore) ListByOwner(ctx context.Context, owner hold.Owner, now time.Time) ([]*hold.SeatHold, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+holdColumns+` FROM seat_holds
		 WHERE status = 'ACTIVE' AND expires_at > $1
		   AND ((($2 <> '') AND owner_user_id = $2) OR (($3 <> '') AND owner_session_id = $3))
		 ORDER BY inventory_type, inventory_id, seat_id`,
		now, owner.UserID, owner.SessionID)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list holds by owner", err)
	}
	return collectHolds(rows)
}

func (s *PostgresLockStore) RemoveExpired(ctx context.Context, now time.Time, limit int) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE seat_holds SET status = 'EXPIRED'
		 WHERE id IN (
		   SELECT id FROM seat_holds
		   WHERE status = 'ACTIVE' AND expires_at <= $1
		   LIMIT $2
		   FOR UPDATE SKIP LOCKED)`,
		now, limit)
	if err != nil {
		return 0, infra.WrapRepoErr(infra.KindDBFailure, "failed to sweep expired holds", err)
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresLockStore) ConvertAllForOwner(ctx context.Context, owner hold.Owner, bookingRef string, now time.Time) ([]*booking.BookedSeat, error) {
	var booked []*booking.BookedSeat
	err := db.WithTx(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT `+holdColumns+` FROM seat_holds
			 WHERE status = 'ACTIVE'
			   AND ((($1 <> '') AND owner_user_id = $1) OR (($2 <> '') AND owner_session_id = $2))
			 ORDER BY inventory_type, inventory_id, seat_id
			 FOR UPDATE`,
			owner.UserID, owner.SessionID)
		if err != nil {
			return infra.WrapRepoErr(infra.KindDBFailure, "failed to load holds for conversion", err)
		}
		holds, err := collectHolds(rows)
		if err != nil {
			return err
		}

		// An already-swept (or never-acquired) selection converts nothing;
		// failing the whole call is safer for the payment flow than a
		// vacuous success.
		if len(holds) == 0 {
			return infra.NewRepoErr(infra.KindHoldExpired, "no active holds to convert")
		}
		for _, h := range holds {
			if h.Expired(now) {
				return infra.NewRepoErr(infra.KindHoldExpired, h.Key().String())
			}
		}

		ids := make([]uuid.UUID, len(holds))
		for i, h := range holds {
			ids[i] = h.ID()
		}
		if _, err := tx.Exec(ctx,
			`UPDATE seat_holds SET status = 'CONVERTED' WHERE id = ANY($1)`, ids); err != nil {
			return infra.WrapRepoErr(infra.KindDBFailure, "failed to convert holds", err)
		}

		booked = make([]*booking.BookedSeat, 0, len(holds))
		for _, h := range holds {
			k := h.Key()
			if _, err := tx.Exec(ctx,
				`INSERT INTO booked_seats (inventory_type, inventory_id, seat_id, booking_ref, booked_at)
				 VALUES ($1, $2, $3, $4, $5)`,
				k.InventoryType.String(), k.InventoryID, k.SeatID, bookingRef, now); err != nil {
				if db.IsUniqueViolation(err) {
					return infra.NewRepoErr(infra.KindSeatBooked, k.String())
				}
				return infra.WrapRepoErr(infra.KindDBFailure, "failed to insert booked seat", err)
			}
			booked = append(booked, booking.NewBookedSeat(k, bookingRef, now))
		}

		payload, err := json.Marshal(ledger.NewConversionEvent(bookingRef, owner, holds, now))
		if err != nil {
			return infra.WrapRepoErr(infra.KindDBFailure, "failed to marshal conversion event", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO ledger_jobs (id, topic, payload, status, run_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), ledger.TopicBookingConverted, payload, shared.LedgerJobQueued, now); err != nil {
			return infra.WrapRepoErr(infra.KindDBFailure, "failed to enqueue ledger job", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booked, nil
}

func scanHold(row pgx.Row) (*hold.SeatHold, error) {
	var (
		id                     uuid.UUID
		invType, invID, seatID string
		ownerUserID, sessionID string
		priceCents             int64
		status                 string
		acquiredAt, expiresAt  time.Time
	)
	if err := row.Scan(&id, &invType, &invID, &seatID, &ownerUserID, &sessionID, &priceCents, &status, &acquiredAt, &expiresAt); err != nil {
		return nil, err
	}
	key := hold.SeatKey{InventoryType: hold.InventoryType(invType), InventoryID: invID, SeatID: seatID}
	owner := hold.Owner{UserID: ownerUserID, SessionID: sessionID}
	return hold.ReconstructSeatHold(id, key, owner, priceCents, hold.Status(status), acquiredAt, expiresAt), nil
}

func collectHolds(rows pgx.Rows) ([]*hold.SeatHold, error) {
	defer rows.Close()
	var holds []*hold.SeatHold
	for rows.Next() {
		h, err := scanHold(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan hold", err)
		}
		holds = append(holds, h)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to iterate holds", err)
	}
	return holds, nil
}
