package api

import (
	"net/http"

	reqdto "seatlock-coordinator/internal/handler/dto/request"
	resdto "seatlock-coordinator/internal/handler/dto/response"
	"seatlock-coordinator/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookingCommands commands.BookingCommands
}

func NewBookingHandler(bookingCommands commands.BookingCommands) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
	}
}

// @Summary Mark holds as booked
// @Description Convert all of the caller's active holds into permanent bookings
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body reqdto.MarkAsBookedRequest true "Conversion request"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} resdto.LockDeniedResponse
// @Failure 409 {object} resdto.LockDeniedResponse
// @Failure 410 {object} resdto.LockDeniedResponse
// @Router /bookings [post]
func (h *BookingHandler) MarkAsBooked(c *gin.Context) {
	var req reqdto.MarkAsBookedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, resdto.NewLockDenied(ReasonValidation))
		return
	}

	owner, err := req.ToOwner()
	if err != nil {
		c.JSON(http.StatusBadRequest, resdto.NewLockDenied(ReasonValidation))
		return
	}

	result, err := h.bookingCommands.MarkAsBooked(c.Request.Context(), owner)
	if err != nil {
		writeLockFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromMarkAsBookedResult(result))
}
