package commands

import (
	"context"
	"log/slog"

	"seatlock-coordinator/internal/domain/hold"
	"seatlock-coordinator/internal/pkg/clock"
	"seatlock-coordinator/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookedSeatView struct {
	SeatID        string `json:"seatId"`
	InventoryType string `json:"inventoryType"`
	InventoryID   string `json:"inventoryId"`
	BookingRef    string `json:"bookingRef"`
}

type MarkAsBookedResult struct {
	BookingRef string
	Seats      []BookedSeatView
}

// BookingCommands is the bridge from temporary holds to permanent seat
// assignments. MarkAsBooked is the single irrevocable transition in the
// service; the caller (payment capture flow) invokes it once per successful
// payment. The BookedSeat insert is the idempotence backstop: a second
// conversion of an already booked key fails with ErrSeatBooked.
type BookingCommands interface {
	MarkAsBooked(ctx context.Context, owner hold.Owner) (*MarkAsBookedResult, error)
}

type bookingCommandsImpl struct {
	store shared.LockStore
	clock clock.Clock
}

func NewBookingCommands(store shared.LockStore, clock clock.Clock) BookingCommands {
	return &bookingCommandsImpl{store: store, clock: clock}
}

func (c *bookingCommandsImpl) MarkAsBooked(ctx context.Context, owner hold.Owner) (*MarkAsBookedResult, error) {
	bookingRef := uuid.New().String()

	bookedSeats, err := c.store.ConvertAllForOwner(ctx, owner, bookingRef, c.clock.Now())
	if err != nil {
		return nil, mapConflict(err)
	}

	seats := make([]BookedSeatView, len(bookedSeats))
	for i, b := range bookedSeats {
		k := b.Key()
		seats[i] = BookedSeatView{
			SeatID:        k.SeatID,
			InventoryType: k.InventoryType.String(),
			InventoryID:   k.InventoryID,
			BookingRef:    b.BookingRef(),
		}
	}

	slog.Info("holds converted to booking",
		"booking_ref", bookingRef,
		"seats", len(seats))

	return &MarkAsBookedResult{BookingRef: bookingRef, Seats: seats}, nil
}
