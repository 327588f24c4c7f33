// Package ledger carries conversions out to the external booking ledger.
// Conversion events are written as jobs in the same transaction that books
// the seats (an outbox), then published to the broker by the dispatcher.
package ledger

import (
	"time"

	"seatlock-coordinator/internal/domain/hold"
)

const TopicBookingConverted = "booking.converted"

type ConvertedSeat struct {
	SeatID        string `json:"seatId"`
	InventoryType string `json:"inventoryType"`
	InventoryID   string `json:"inventoryId"`
	PriceCents    int64  `json:"price"`
}

type ConversionEvent struct {
	BookingRef     string          `json:"bookingRef"`
	OwnerUserID    string          `json:"ownerUserId"`
	OwnerSessionID string          `json:"ownerSessionId"`
	Seats          []ConvertedSeat `json:"seats"`
	ConvertedAt    time.Time       `json:"convertedAt"`
}

func NewConversionEvent(bookingRef string, owner hold.Owner, holds []*hold.SeatHold, convertedAt time.Time) ConversionEvent {
	seats := make([]ConvertedSeat, len(holds))
	for i, h := range holds {
		k := h.Key()
		seats[i] = ConvertedSeat{
			SeatID:        k.SeatID,
			InventoryType: k.InventoryType.String(),
			InventoryID:   k.InventoryID,
			PriceCents:    h.PriceCents(),
		}
	}
	return ConversionEvent{
		BookingRef:     bookingRef,
		OwnerUserID:    owner.UserID,
		OwnerSessionID: owner.SessionID,
		Seats:          seats,
		ConvertedAt:    convertedAt,
	}
}
