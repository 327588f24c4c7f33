package response

import (
	"seatlock-coordinator/internal/usecase/commands"
)

type BookedSeatBody struct {
	SeatID        string `json:"seatId"`
	InventoryType string `json:"inventoryType"`
	InventoryID   string `json:"inventoryId"`
	BookingRef    string `json:"bookingRef"`
}

type BookingResponse struct {
	Success     bool             `json:"success"`
	BookedSeats []BookedSeatBody `json:"bookedSeats"`
}

func FromMarkAsBookedResult(r *commands.MarkAsBookedResult) *BookingResponse {
	seats := make([]BookedSeatBody, len(r.Seats))
	for i, s := range r.Seats {
		seats[i] = BookedSeatBody{
			SeatID:        s.SeatID,
			InventoryType: s.InventoryType,
			InventoryID:   s.InventoryID,
			BookingRef:    s.BookingRef,
		}
	}
	return &BookingResponse{Success: true, BookedSeats: seats}
}
