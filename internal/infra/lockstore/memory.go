package lockstore

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"seatlock-coordinator/internal/domain/booking"
	"seatlock-coordinator/internal/domain/hold"
	"seatlock-coordinator/internal/infra"
	"seatlock-coordinator/internal/infra/ledger"
	"seatlock-coordinator/internal/usecase/shared"

	"github.com/google/uuid"
)

// MemoryLockStore is an in-process implementation of shared.LockStore for
// local development and unit tests. A single mutex serializes every
// operation, which trivially satisfies per-key linearizability. It also
// serves the read side and the ledger job queue so the whole service can
// run with STORE_DRIVER=memory.
type MemoryLockStore struct {
	mu     sync.Mutex
	holds  map[string]*hold.SeatHold
	booked map[string]*booking.BookedSeat
	jobs   []*shared.LedgerJob
}

func NewMemoryLockStore() *MemoryLockStore {
	return &MemoryLockStore{
		holds:  make(map[string]*hold.SeatHold),
		booked: make(map[string]*booking.BookedSeat),
	}
}

func (s *MemoryLockStore) TryCreate(_ context.Context, h *hold.SeatHold) (shared.CreateOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acquireLocked(h)
}

func (s *MemoryLockStore) TryCreateAll(_ context.Context, holds []*hold.SeatHold) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate the whole batch before touching state so a conflict on any
	// seat leaves nothing acquired.
	for _, h := range holds {
		now := h.AcquiredAt()
		k := h.Key().String()
		if _, ok := s.booked[k]; ok {
			return infra.NewRepoErr(infra.KindSeatBooked, h.Key().String())
		}
		if existing, ok := s.holds[k]; ok && !existing.Expired(now) && !h.Owner().Matches(existing.Owner()) {
			return infra.NewRepoErr(infra.KindSeatLocked, h.Key().String())
		}
	}
	for _, h := range holds {
		if _, err := s.acquireLocked(h); err != nil {
			return err
		}
	}
	return nil
}

func (s *MemoryLockStore) acquireLocked(h *hold.SeatHold) (shared.CreateOutcome, error) {
	now := h.AcquiredAt()
	k := h.Key().String()

	if _, ok := s.booked[k]; ok {
		return 0, infra.NewRepoErr(infra.KindSeatBooked, h.Key().String())
	}
	if existing, ok := s.holds[k]; ok && !existing.Expired(now) {
		if h.Owner().Matches(existing.Owner()) {
			// Same-owner re-lock: restart the TTL, keep the original
			// price snapshot.
			existing.Refresh(now)
			return shared.OutcomeRefreshed, nil
		}
		return 0, infra.NewRepoErr(infra.KindSeatLocked, h.Key().String())
	}
	s.holds[k] = h
	return shared.OutcomeCreated, nil
}

func (s *MemoryLockStore) CompareAndRemove(_ context.Context, key hold.SeatKey, owner hold.Owner, _ hold.Status, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.holds[key.String()]
	if !ok || existing.Expired(now) {
		return false, nil
	}
	if !owner.Matches(existing.Owner()) {
		return false, infra.NewRepoErr(infra.KindNotOwner, key.String())
	}
	delete(s.holds, key.String())
	return true, nil
}

func (s *MemoryLockStore) ReleaseAllForOwner(_ context.Context, owner hold.Owner, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var released int64
	for k, h := range s.holds {
		if h.Expired(now) {
			continue
		}
		if owner.Matches(h.Owner()) {
			delete(s.holds, k)
			released++
		}
	}
	return released, nil
}

func (s *MemoryLockStore) Get(_ context.Context, key hold.SeatKey, now time.Time) (*hold.SeatHold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.holds[key.String()]
	if !ok || h.Expired(now) {
		return nil, infra.NewRepoErr(infra.KindNotFound, key.String())
	}
	return h, nil
}

func (s *MemoryLockStore) ListActive(_ context.Context, inv hold.InventoryRef, now time.Time) ([]*hold.SeatHold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*hold.SeatHold
	for _, h := range s.holds {
		if h.Expired(now) {
			continue
		}
		if h.Key().Inventory() == inv {
			out = append(out, h)
		}
	}
	sortHolds(out)
	return out, nil
}

func (s *MemoryLockStore) ListByOwner(_ context.Context, owner hold.Owner, now time.Time) ([]*hold.SeatHold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*hold.SeatHold
	for _, h := range s.holds {
		if h.Expired(now) {
			continue
		}
		if owner.Matches(h.Owner()) {
			out = append(out, h)
		}
	}
	sortHolds(out)
	return out, nil
}

func (s *MemoryLockStore) RemoveExpired(_ context.Context, now time.Time, limit int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var swept int64
	for k, h := range s.holds {
		if int(swept) >= limit {
			break
		}
		if h.Expired(now) {
			delete(s.holds, k)
			swept++
		}
	}
	return swept, nil
}

func (s *MemoryLockStore) ConvertAllForOwner(_ context.Context, owner hold.Owner, bookingRef string, now time.Time) ([]*booking.BookedSeat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var owned []*hold.SeatHold
	for _, h := range s.holds {
		if owner.Matches(h.Owner()) {
			owned = append(owned, h)
		}
	}
	if len(owned) == 0 {
		return nil, infra.NewRepoErr(infra.KindHoldExpired, "no active holds to convert")
	}
	for _, h := range owned {
		if h.Expired(now) {
			return nil, infra.NewRepoErr(infra.KindHoldExpired, h.Key().String())
		}
		if _, ok := s.booked[h.Key().String()]; ok {
			return nil, infra.NewRepoErr(infra.KindSeatBooked, h.Key().String())
		}
	}
	sortHolds(owned)

	bookedSeats := make([]*booking.BookedSeat, 0, len(owned))
	for _, h := range owned {
		k := h.Key()
		b := booking.NewBookedSeat(k, bookingRef, now)
		s.booked[k.String()] = b
		delete(s.holds, k.String())
		bookedSeats = append(bookedSeats, b)
	}

	payload, err := json.Marshal(ledger.NewConversionEvent(bookingRef, owner, owned, now))
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to marshal conversion event", err)
	}
	s.jobs = append(s.jobs, &shared.LedgerJob{
		ID:      uuid.New(),
		Topic:   ledger.TopicBookingConverted,
		Payload: payload,
		Status:  shared.LedgerJobQueued,
		RunAt:   now,
	})
	return bookedSeats, nil
}

// --- read side -------------------------------------------------------------

func (s *MemoryLockStore) ListBookedSeatIDs(_ context.Context, inv hold.InventoryRef) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []string
	for _, b := range s.booked {
		if b.Key().Inventory() == inv {
			out = append(out, b.Key().SeatID)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemoryLockStore) IsBooked(_ context.Context, key hold.SeatKey) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.booked[key.String()]
	return ok, nil
}

func (s *MemoryLockStore) SeatTaken(_ context.Context, key hold.SeatKey, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.booked[key.String()]; ok {
		return true, nil
	}
	h, ok := s.holds[key.String()]
	return ok && !h.Expired(now), nil
}

// --- ledger jobs -----------------------------------------------------------

func (s *MemoryLockStore) Pending(_ context.Context, limit int) ([]*shared.LedgerJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*shared.LedgerJob
	for _, j := range s.jobs {
		if len(out) >= limit {
			break
		}
		if j.Status == shared.LedgerJobQueued {
			out = append(out, j)
		}
	}
	return out, nil
}

func (s *MemoryLockStore) MarkDispatched(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, j := range s.jobs {
		if j.ID == id {
			j.Status = shared.LedgerJobDispatched
			j.Attempts++
			return nil
		}
	}
	return infra.NewRepoErr(infra.KindNotFound, id.String())
}

func (s *MemoryLockStore) MarkFailed(_ context.Context, id uuid.UUID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, j := range s.jobs {
		if j.ID == id {
			j.Attempts++
			j.LastError = &reason
			return nil
		}
	}
	return infra.NewRepoErr(infra.KindNotFound, id.String())
}

func sortHolds(holds []*hold.SeatHold) {
	sort.Slice(holds, func(i, j int) bool { return holds[i].Key().Less(holds[j].Key()) })
}
