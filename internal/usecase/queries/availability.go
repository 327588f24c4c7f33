package queries

import (
	"context"
	"sort"
	"time"

	"seatlock-coordinator/internal/domain/hold"
	"seatlock-coordinator/internal/pkg/clock"
	"seatlock-coordinator/internal/pkg/errs"
)

// Read models (DTO for read side). Results are display-only: the command
// layer's synchronous responses remain the sole authority on whether a
// caller's own action succeeded.
type AvailabilityView struct {
	LockedSeats    []string `json:"lockedSeats"`
	BookedSeats    []string `json:"bookedSeats"`
	AllUnavailable []string `json:"allUnavailable"`
}

type OwnedLock struct {
	SeatID        string `json:"seatId"`
	InventoryType string `json:"inventoryType"`
	Price         int64  `json:"price"`
	Status        string `json:"status"`
}

type OwnedLockView struct {
	Lock      OwnedLock `json:"lock"`
	ExpiresIn int64     `json:"expiresIn"`
}

type AvailabilityQueries interface {
	ListAvailability(ctx context.Context, inv hold.InventoryRef) (*AvailabilityView, error)
	ListMine(ctx context.Context, owner hold.Owner) ([]*OwnedLockView, error)
	CheckOne(ctx context.Context, key hold.SeatKey) (bool, error)
}

// AvailabilityReader is the read-side store. Implementations may serve
// slightly stale data (a short cache in front of the store); staleness must
// stay well under the 600s hold TTL. Store failures propagate: the read
// side fails closed rather than reporting contended seats as free.
type AvailabilityReader interface {
	ListActive(ctx context.Context, inv hold.InventoryRef, now time.Time) ([]*hold.SeatHold, error)
	ListByOwner(ctx context.Context, owner hold.Owner, now time.Time) ([]*hold.SeatHold, error)
	ListBookedSeatIDs(ctx context.Context, inv hold.InventoryRef) ([]string, error)
	SeatTaken(ctx context.Context, key hold.SeatKey, now time.Time) (bool, error)
}

type availabilityQueriesImpl struct {
	reader AvailabilityReader
	clock  clock.Clock
}

func NewAvailabilityQueries(reader AvailabilityReader, clock clock.Clock) AvailabilityQueries {
	return &availabilityQueriesImpl{reader: reader, clock: clock}
}

func (q *availabilityQueriesImpl) ListAvailability(ctx context.Context, inv hold.InventoryRef) (*AvailabilityView, error) {
	now := q.clock.Now()

	holds, err := q.reader.ListActive(ctx, inv, now)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrStoreOperationFailed)
	}
	booked, err := q.reader.ListBookedSeatIDs(ctx, inv)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrStoreOperationFailed)
	}

	locked := make([]string, 0, len(holds))
	for _, h := range holds {
		locked = append(locked, h.Key().SeatID)
	}
	if booked == nil {
		booked = []string{}
	}

	return &AvailabilityView{
		LockedSeats:    locked,
		BookedSeats:    booked,
		AllUnavailable: union(locked, booked),
	}, nil
}

func (q *availabilityQueriesImpl) ListMine(ctx context.Context, owner hold.Owner) ([]*OwnedLockView, error) {
	now := q.clock.Now()

	holds, err := q.reader.ListByOwner(ctx, owner, now)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrStoreOperationFailed)
	}

	out := make([]*OwnedLockView, len(holds))
	for i, h := range holds {
		out[i] = &OwnedLockView{
			Lock: OwnedLock{
				SeatID:        h.Key().SeatID,
				InventoryType: h.Key().InventoryType.String(),
				Price:         h.PriceCents(),
				Status:        h.Status().String(),
			},
			ExpiresIn: h.ExpiresIn(now),
		}
	}
	return out, nil
}

func (q *availabilityQueriesImpl) CheckOne(ctx context.Context, key hold.SeatKey) (bool, error) {
	taken, err := q.reader.SeatTaken(ctx, key, q.clock.Now())
	if err != nil {
		return false, errs.Mark(err, errs.ErrStoreOperationFailed)
	}
	return !taken, nil
}

func union(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range a {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	for _, s := range b {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
