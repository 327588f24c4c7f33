// Package booking holds the permanent seat-assignment record created by the
// booking bridge. A BookedSeat is written exactly once per SeatKey and never
// mutated here; cancellation is an out-of-scope flow.
package booking

import (
	"time"

	"seatlock-coordinator/internal/domain/hold"
)

type BookedSeat struct {
	key        hold.SeatKey
	bookingRef string
	bookedAt   time.Time
}

func NewBookedSeat(key hold.SeatKey, bookingRef string, bookedAt time.Time) *BookedSeat {
	return &BookedSeat{key: key, bookingRef: bookingRef, bookedAt: bookedAt}
}

func (b *BookedSeat) Key() hold.SeatKey   { return b.key }
func (b *BookedSeat) BookingRef() string  { return b.bookingRef }
func (b *BookedSeat) BookedAt() time.Time { return b.bookedAt }
