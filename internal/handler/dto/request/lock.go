package request

import (
	"strings"

	"seatlock-coordinator/internal/domain/hold"
)

type LockSeatRequest struct {
	SeatID         string `json:"seatId" binding:"required"`
	InventoryType  string `json:"inventoryType" binding:"required"`
	InventoryID    string `json:"inventoryId" binding:"required"`
	OwnerUserID    string `json:"ownerUserId"`
	OwnerSessionID string `json:"ownerSessionId"`
	Price          int64  `json:"price"`
}

func (r LockSeatRequest) ToKey() (hold.SeatKey, error) {
	return toKey(r.InventoryType, r.InventoryID, r.SeatID)
}

func (r LockSeatRequest) ToOwner() (hold.Owner, error) {
	return toOwner(r.OwnerUserID, r.OwnerSessionID)
}

type LockSeatsRequest struct {
	SeatIDs        []string `json:"seatIds" binding:"required"`
	InventoryType  string   `json:"inventoryType" binding:"required"`
	InventoryID    string   `json:"inventoryId" binding:"required"`
	OwnerUserID    string   `json:"ownerUserId"`
	OwnerSessionID string   `json:"ownerSessionId"`
	Prices         []int64  `json:"prices" binding:"required"`
}

func (r LockSeatsRequest) ToKeys() ([]hold.SeatKey, error) {
	keys := make([]hold.SeatKey, len(r.SeatIDs))
	for i, seatID := range r.SeatIDs {
		k, err := toKey(r.InventoryType, r.InventoryID, seatID)
		if err != nil {
			return nil, err
		}
		keys[i] = k
	}
	return keys, nil
}

func (r LockSeatsRequest) ToOwner() (hold.Owner, error) {
	return toOwner(r.OwnerUserID, r.OwnerSessionID)
}

type UnlockSeatRequest struct {
	SeatID         string `json:"seatId" binding:"required"`
	InventoryType  string `json:"inventoryType" binding:"required"`
	InventoryID    string `json:"inventoryId" binding:"required"`
	OwnerUserID    string `json:"ownerUserId"`
	OwnerSessionID string `json:"ownerSessionId"`
}

func (r UnlockSeatRequest) ToKey() (hold.SeatKey, error) {
	return toKey(r.InventoryType, r.InventoryID, r.SeatID)
}

func (r UnlockSeatRequest) ToOwner() (hold.Owner, error) {
	return toOwner(r.OwnerUserID, r.OwnerSessionID)
}

type ReleaseAllRequest struct {
	OwnerUserID    string `json:"ownerUserId"`
	OwnerSessionID string `json:"ownerSessionId"`
}

func (r ReleaseAllRequest) ToOwner() (hold.Owner, error) {
	return toOwner(r.OwnerUserID, r.OwnerSessionID)
}

func toKey(invType, invID, seatID string) (hold.SeatKey, error) {
	return hold.NewSeatKey(strings.TrimSpace(invType), strings.TrimSpace(invID), strings.TrimSpace(seatID))
}

func toOwner(userID, sessionID string) (hold.Owner, error) {
	return hold.NewOwner(strings.TrimSpace(userID), strings.TrimSpace(sessionID))
}
