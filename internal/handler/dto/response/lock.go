package response

import (
	"seatlock-coordinator/internal/usecase/commands"
	"seatlock-coordinator/internal/usecase/queries"
)

// Field shapes here are consumed verbatim by the storefront seat-map UI;
// renaming a key is a breaking change.

type LockGrantedResponse struct {
	Success   bool  `json:"success"`
	ExpiresIn int64 `json:"expiresIn"`
}

type LockDeniedResponse struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason"`
}

type AckResponse struct {
	Success bool `json:"success"`
}

type ReleaseAllResponse struct {
	Released int64 `json:"released"`
}

type AvailabilityResponse struct {
	LockedSeats    []string `json:"lockedSeats"`
	BookedSeats    []string `json:"bookedSeats"`
	AllUnavailable []string `json:"allUnavailable"`
}

type OwnedLockEntry struct {
	Lock      OwnedLockBody `json:"lock"`
	ExpiresIn int64         `json:"expiresIn"`
}

type OwnedLockBody struct {
	SeatID        string `json:"seatId"`
	InventoryType string `json:"inventoryType"`
	Price         int64  `json:"price"`
	Status        string `json:"status"`
}

type OwnedLocksResponse struct {
	Locks []OwnedLockEntry `json:"locks"`
}

type CheckOneResponse struct {
	Available bool `json:"available"`
}

func FromLockGrant(g *commands.LockGrant) *LockGrantedResponse {
	return &LockGrantedResponse{Success: true, ExpiresIn: g.ExpiresIn}
}

func NewLockDenied(reason string) *LockDeniedResponse {
	return &LockDeniedResponse{Success: false, Reason: reason}
}

func FromAvailabilityView(v *queries.AvailabilityView) *AvailabilityResponse {
	return &AvailabilityResponse{
		LockedSeats:    v.LockedSeats,
		BookedSeats:    v.BookedSeats,
		AllUnavailable: v.AllUnavailable,
	}
}

func FromOwnedLockViews(views []*queries.OwnedLockView) *OwnedLocksResponse {
	locks := make([]OwnedLockEntry, len(views))
	for i, v := range views {
		locks[i] = OwnedLockEntry{
			Lock: OwnedLockBody{
				SeatID:        v.Lock.SeatID,
				InventoryType: v.Lock.InventoryType,
				Price:         v.Lock.Price,
				Status:        v.Lock.Status,
			},
			ExpiresIn: v.ExpiresIn,
		}
	}
	return &OwnedLocksResponse{Locks: locks}
}
