package commands

import (
	"context"
	"log/slog"
	"sort"

	"seatlock-coordinator/internal/domain/hold"
	"seatlock-coordinator/internal/infra"
	"seatlock-coordinator/internal/pkg/clock"
	"seatlock-coordinator/internal/pkg/errs"
	"seatlock-coordinator/internal/usecase/shared"
)

type LockSeatInput struct {
	Key        hold.SeatKey
	Owner      hold.Owner
	PriceCents int64
}

type LockSeatsInput struct {
	Keys  []hold.SeatKey
	Owner hold.Owner
	// PriceCents[i] is the snapshot price for Keys[i].
	PriceCents []int64
}

// LockGrant is returned on a successful acquisition; ExpiresIn drives the
// client's countdown timer.
type LockGrant struct {
	ExpiresIn int64
}

// LockCommands is the request-level API over the lock store: it assigns
// TTLs, enforces ownership and conflict rules and imposes the canonical
// acquisition order for multi-seat requests. Acquisition never blocks
// waiting for a seat to free up; conflicts fail fast.
type LockCommands interface {
	LockSeat(ctx context.Context, in LockSeatInput) (*LockGrant, error)
	LockSeats(ctx context.Context, in LockSeatsInput) error
	UnlockSeat(ctx context.Context, key hold.SeatKey, owner hold.Owner) error
	ReleaseAllForOwner(ctx context.Context, owner hold.Owner) (int64, error)
}

type lockCommandsImpl struct {
	store shared.LockStore
	clock clock.Clock
}

func NewLockCommands(store shared.LockStore, clock clock.Clock) LockCommands {
	return &lockCommandsImpl{store: store, clock: clock}
}

func (c *lockCommandsImpl) LockSeat(ctx context.Context, in LockSeatInput) (*LockGrant, error) {
	now := c.clock.Now()

	h, err := hold.NewSeatHold(in.Key, in.Owner, in.PriceCents, now)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	outcome, err := c.store.TryCreate(ctx, h)
	if err != nil {
		return nil, mapConflict(err)
	}
	if outcome == shared.OutcomeRefreshed {
		slog.Debug("hold refreshed", "key", in.Key.String())
	}
	return &LockGrant{ExpiresIn: h.ExpiresIn(now)}, nil
}

func (c *lockCommandsImpl) LockSeats(ctx context.Context, in LockSeatsInput) error {
	if len(in.Keys) == 0 || len(in.Keys) != len(in.PriceCents) {
		return errs.Mark(errs.New("seat and price counts must match"), errs.ErrValidation)
	}
	now := c.clock.Now()

	holds := make([]*hold.SeatHold, len(in.Keys))
	for i, k := range in.Keys {
		h, err := hold.NewSeatHold(k, in.Owner, in.PriceCents[i], now)
		if err != nil {
			return errs.Mark(err, errs.ErrValidation)
		}
		holds[i] = h
	}

	// Canonical global order: two overlapping bulk requests always contend
	// on their first shared seat, so neither can hold a later seat while
	// waiting on an earlier one.
	sortHoldsByKey(holds)

	if err := c.store.TryCreateAll(ctx, holds); err != nil {
		return mapConflict(err)
	}
	return nil
}

func (c *lockCommandsImpl) UnlockSeat(ctx context.Context, key hold.SeatKey, owner hold.Owner) error {
	// Releasing an absent (or already expired) hold succeeds as a no-op;
	// only a foreign active hold is refused.
	_, err := c.store.CompareAndRemove(ctx, key, owner, hold.StatusReleased, c.clock.Now())
	if err != nil {
		return mapConflict(err)
	}
	return nil
}

func (c *lockCommandsImpl) ReleaseAllForOwner(ctx context.Context, owner hold.Owner) (int64, error) {
	released, err := c.store.ReleaseAllForOwner(ctx, owner, c.clock.Now())
	if err != nil {
		return 0, errs.Mark(err, errs.ErrStoreOperationFailed)
	}
	return released, nil
}

func sortHoldsByKey(holds []*hold.SeatHold) {
	sort.Slice(holds, func(i, j int) bool { return holds[i].Key().Less(holds[j].Key()) })
}

// mapConflict translates store error kinds into the sentinel errors the
// handlers expose as wire-level reason codes.
func mapConflict(err error) error {
	switch {
	case infra.IsKind(err, infra.KindSeatBooked):
		return errs.Mark(err, errs.ErrSeatBooked)
	case infra.IsKind(err, infra.KindSeatLocked):
		return errs.Mark(err, errs.ErrSeatLocked)
	case infra.IsKind(err, infra.KindNotOwner):
		return errs.Mark(err, errs.ErrNotOwner)
	case infra.IsKind(err, infra.KindHoldExpired):
		return errs.Mark(err, errs.ErrHoldExpired)
	default:
		return errs.Mark(err, errs.ErrStoreOperationFailed)
	}
}
