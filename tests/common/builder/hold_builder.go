//go:build unit || e2e

package builder

import (
	"time"

	domhold "seatlock-coordinator/internal/domain/hold"

	"github.com/google/uuid"
)

type HoldBuilder struct {
	InventoryType string
	InventoryID   string
	SeatID        string
	OwnerUserID   string
	OwnerSession  string
	PriceCents    int64
	AcquiredAt    time.Time
}

func NewHoldBuilder() *HoldBuilder {
	return &HoldBuilder{
		InventoryType: "BUS",
		InventoryID:   "1",
		SeatID:        "L1",
		OwnerUserID:   "user-a",
		OwnerSession:  "sess-a",
		PriceCents:    1530,
		AcquiredAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (b *HoldBuilder) With(mutate func(*HoldBuilder)) *HoldBuilder {
	mutate(b)
	return b
}

func (b *HoldBuilder) BuildKey() (domhold.SeatKey, error) {
	return domhold.NewSeatKey(b.InventoryType, b.InventoryID, b.SeatID)
}

func (b *HoldBuilder) BuildOwner() (domhold.Owner, error) {
	return domhold.NewOwner(b.OwnerUserID, b.OwnerSession)
}

func (b *HoldBuilder) BuildDomain() (*domhold.SeatHold, error) {
	key, err := b.BuildKey()
	if err != nil {
		return nil, err
	}
	owner, err := b.BuildOwner()
	if err != nil {
		return nil, err
	}
	return domhold.NewSeatHold(key, owner, b.PriceCents, b.AcquiredAt)
}

// BuildExpiredDomain reconstructs a hold whose TTL already lapsed relative
// to b.AcquiredAt.
func (b *HoldBuilder) BuildExpiredDomain() (*domhold.SeatHold, error) {
	key, err := b.BuildKey()
	if err != nil {
		return nil, err
	}
	owner, err := b.BuildOwner()
	if err != nil {
		return nil, err
	}
	acquired := b.AcquiredAt.Add(-domhold.TTL - time.Second)
	return domhold.ReconstructSeatHold(
		uuid.New(), key, owner, b.PriceCents, domhold.StatusActive,
		acquired, acquired.Add(domhold.TTL),
	), nil
}

// BuildLockRequestDTO returns the JSON body for the single-seat lock
// endpoint as a mutable map.
func (b *HoldBuilder) BuildLockRequestDTO() map[string]any {
	return map[string]any{
		"seatId":         b.SeatID,
		"inventoryType":  b.InventoryType,
		"inventoryId":    b.InventoryID,
		"ownerUserId":    b.OwnerUserID,
		"ownerSessionId": b.OwnerSession,
		"price":          b.PriceCents,
	}
}

func (b *HoldBuilder) BuildBulkLockRequestDTO(seatIDs []string, prices []int64) map[string]any {
	return map[string]any{
		"seatIds":        seatIDs,
		"inventoryType":  b.InventoryType,
		"inventoryId":    b.InventoryID,
		"ownerUserId":    b.OwnerUserID,
		"ownerSessionId": b.OwnerSession,
		"prices":         prices,
	}
}

func (b *HoldBuilder) BuildUnlockRequestDTO() map[string]any {
	return map[string]any{
		"seatId":         b.SeatID,
		"inventoryType":  b.InventoryType,
		"inventoryId":    b.InventoryID,
		"ownerUserId":    b.OwnerUserID,
		"ownerSessionId": b.OwnerSession,
	}
}

func (b *HoldBuilder) BuildOwnerRequestDTO() map[string]any {
	return map[string]any{
		"ownerUserId":    b.OwnerUserID,
		"ownerSessionId": b.OwnerSession,
	}
}
