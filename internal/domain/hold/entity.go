package hold

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// SeatKey is the composite identity of a physical seat. It is the sole
// addressing mechanism for holds and bookings.
type SeatKey struct {
	InventoryType InventoryType
	InventoryID   string
	SeatID        string
}

func NewSeatKey(inventoryType, inventoryID, seatID string) (SeatKey, error) {
	t, err := NewInventoryType(inventoryType)
	if err != nil {
		return SeatKey{}, err
	}
	if inventoryID == "" {
		return SeatKey{}, ErrEmptyInventoryID
	}
	if seatID == "" {
		return SeatKey{}, ErrEmptySeatID
	}
	return SeatKey{InventoryType: t, InventoryID: inventoryID, SeatID: seatID}, nil
}

func (k SeatKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.InventoryType, k.InventoryID, k.SeatID)
}

// Less defines the canonical global order used by multi-seat acquisition.
// Acquiring in this order guarantees two overlapping bulk requests cannot
// deadlock each other.
func (k SeatKey) Less(other SeatKey) bool {
	if k.InventoryType != other.InventoryType {
		return k.InventoryType < other.InventoryType
	}
	if k.InventoryID != other.InventoryID {
		return k.InventoryID < other.InventoryID
	}
	return k.SeatID < other.SeatID
}

// SortKeys orders keys canonically in place.
func SortKeys(keys []SeatKey) {
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
}

// InventoryRef addresses all seats of one inventory unit (a specific bus
// departure, flight, train or hotel).
type InventoryRef struct {
	InventoryType InventoryType
	InventoryID   string
}

func NewInventoryRef(inventoryType, inventoryID string) (InventoryRef, error) {
	t, err := NewInventoryType(inventoryType)
	if err != nil {
		return InventoryRef{}, err
	}
	if inventoryID == "" {
		return InventoryRef{}, ErrEmptyInventoryID
	}
	return InventoryRef{InventoryType: t, InventoryID: inventoryID}, nil
}

func (k SeatKey) Inventory() InventoryRef {
	return InventoryRef{InventoryType: k.InventoryType, InventoryID: k.InventoryID}
}

// Owner is the dual identity of the caller: a signed-in user id and/or a
// browser session id. Either one is sufficient to prove ownership.
type Owner struct {
	UserID    string
	SessionID string
}

func NewOwner(userID, sessionID string) (Owner, error) {
	if userID == "" && sessionID == "" {
		return Owner{}, ErrMissingOwner
	}
	return Owner{UserID: userID, SessionID: sessionID}, nil
}

// Matches reports whether o proves ownership of a hold owned by held.
// Empty components never match.
func (o Owner) Matches(held Owner) bool {
	if o.UserID != "" && o.UserID == held.UserID {
		return true
	}
	if o.SessionID != "" && o.SessionID == held.SessionID {
		return true
	}
	return false
}

// SeatHold is a temporary, TTL-bounded claim on a seat. At most one hold
// per SeatKey may be ACTIVE at any instant; a hold is considered absent
// once its expiry has passed, whether or not the reaper has swept it.
type SeatHold struct {
	id         uuid.UUID
	key        SeatKey
	owner      Owner
	priceCents int64
	status     Status
	acquiredAt time.Time
	expiresAt  time.Time
}

func NewSeatHold(key SeatKey, owner Owner, priceCents int64, now time.Time) (*SeatHold, error) {
	if priceCents < 0 {
		return nil, ErrNegativePrice
	}
	return &SeatHold{
		id:         uuid.New(),
		key:        key,
		owner:      owner,
		priceCents: priceCents,
		status:     StatusActive,
		acquiredAt: now,
		expiresAt:  now.Add(TTL),
	}, nil
}

func ReconstructSeatHold(
	id uuid.UUID,
	key SeatKey,
	owner Owner,
	priceCents int64,
	status Status,
	acquiredAt, expiresAt time.Time,
) *SeatHold {
	return &SeatHold{
		id:         id,
		key:        key,
		owner:      owner,
		priceCents: priceCents,
		status:     status,
		acquiredAt: acquiredAt,
		expiresAt:  expiresAt,
	}
}

func (h *SeatHold) ID() uuid.UUID         { return h.id }
func (h *SeatHold) Key() SeatKey          { return h.key }
func (h *SeatHold) Owner() Owner          { return h.owner }
func (h *SeatHold) PriceCents() int64     { return h.priceCents }
func (h *SeatHold) Status() Status        { return h.status }
func (h *SeatHold) AcquiredAt() time.Time { return h.acquiredAt }
func (h *SeatHold) ExpiresAt() time.Time  { return h.expiresAt }

func (h *SeatHold) Expired(now time.Time) bool {
	return !now.Before(h.expiresAt)
}

// ExpiresIn returns the remaining lifetime in whole seconds, never negative.
func (h *SeatHold) ExpiresIn(now time.Time) int64 {
	remaining := h.expiresAt.Sub(now)
	if remaining < 0 {
		return 0
	}
	return int64(remaining / time.Second)
}

// Refresh restarts the TTL for a same-owner re-lock. The price snapshot
// captured at first acquisition is kept.
func (h *SeatHold) Refresh(now time.Time) {
	h.acquiredAt = now
	h.expiresAt = now.Add(TTL)
}
