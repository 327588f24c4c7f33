package api

import (
	"errors"
	"net/http"

	reqdto "seatlock-coordinator/internal/handler/dto/request"
	resdto "seatlock-coordinator/internal/handler/dto/response"
	"seatlock-coordinator/internal/handler/httperr"
	"seatlock-coordinator/internal/pkg/errs"
	"seatlock-coordinator/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

// Wire reason codes. The storefront switches on these strings to decide
// whether a retry makes sense, so they are part of the contract.
const (
	ReasonSeatBooked  = "SEAT_BOOKED"
	ReasonSeatLocked  = "SEAT_LOCKED"
	ReasonNotOwner    = "NOT_OWNER"
	ReasonHoldExpired = "HOLD_EXPIRED"
	ReasonValidation  = "VALIDATION"
)

type LockHandler struct {
	lockCommands commands.LockCommands
}

func NewLockHandler(lockCommands commands.LockCommands) *LockHandler {
	return &LockHandler{
		lockCommands: lockCommands,
	}
}

// @Summary Lock one seat
// @Description Acquire a temporary hold on a single seat
// @Tags locks
// @Accept json
// @Produce json
// @Param request body reqdto.LockSeatRequest true "Lock request"
// @Success 200 {object} resdto.LockGrantedResponse
// @Failure 400 {object} resdto.LockDeniedResponse
// @Failure 409 {object} resdto.LockDeniedResponse
// @Router /locks [post]
func (h *LockHandler) LockSeat(c *gin.Context) {
	var req reqdto.LockSeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, resdto.NewLockDenied(ReasonValidation))
		return
	}

	key, err := req.ToKey()
	if err != nil {
		c.JSON(http.StatusBadRequest, resdto.NewLockDenied(ReasonValidation))
		return
	}
	owner, err := req.ToOwner()
	if err != nil {
		c.JSON(http.StatusBadRequest, resdto.NewLockDenied(ReasonValidation))
		return
	}

	grant, err := h.lockCommands.LockSeat(c.Request.Context(), commands.LockSeatInput{
		Key:        key,
		Owner:      owner,
		PriceCents: req.Price,
	})
	if err != nil {
		writeLockFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromLockGrant(grant))
}

// @Summary Lock multiple seats
// @Description Acquire holds on several seats of one inventory, all or nothing
// @Tags locks
// @Accept json
// @Produce json
// @Param request body reqdto.LockSeatsRequest true "Bulk lock request"
// @Success 200 {object} resdto.AckResponse
// @Failure 400 {object} resdto.LockDeniedResponse
// @Failure 409 {object} resdto.LockDeniedResponse
// @Router /locks/bulk [post]
func (h *LockHandler) LockSeats(c *gin.Context) {
	var req reqdto.LockSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, resdto.NewLockDenied(ReasonValidation))
		return
	}

	keys, err := req.ToKeys()
	if err != nil {
		c.JSON(http.StatusBadRequest, resdto.NewLockDenied(ReasonValidation))
		return
	}
	owner, err := req.ToOwner()
	if err != nil {
		c.JSON(http.StatusBadRequest, resdto.NewLockDenied(ReasonValidation))
		return
	}

	if err := h.lockCommands.LockSeats(c.Request.Context(), commands.LockSeatsInput{
		Keys:       keys,
		Owner:      owner,
		PriceCents: req.Prices,
	}); err != nil {
		writeLockFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.AckResponse{Success: true})
}

// @Summary Unlock seat
// @Description Release the caller's hold on a seat; a no-op when no hold exists
// @Tags locks
// @Accept json
// @Produce json
// @Param request body reqdto.UnlockSeatRequest true "Unlock request"
// @Success 200 {object} resdto.AckResponse
// @Failure 400 {object} resdto.LockDeniedResponse
// @Failure 409 {object} resdto.LockDeniedResponse
// @Router /locks/unlock [post]
func (h *LockHandler) UnlockSeat(c *gin.Context) {
	var req reqdto.UnlockSeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, resdto.NewLockDenied(ReasonValidation))
		return
	}

	key, err := req.ToKey()
	if err != nil {
		c.JSON(http.StatusBadRequest, resdto.NewLockDenied(ReasonValidation))
		return
	}
	owner, err := req.ToOwner()
	if err != nil {
		c.JSON(http.StatusBadRequest, resdto.NewLockDenied(ReasonValidation))
		return
	}

	if err := h.lockCommands.UnlockSeat(c.Request.Context(), key, owner); err != nil {
		writeLockFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.AckResponse{Success: true})
}

// @Summary Release all holds for owner
// @Description Release every hold the caller owns; always succeeds
// @Tags locks
// @Accept json
// @Produce json
// @Param request body reqdto.ReleaseAllRequest true "Release-all request"
// @Success 200 {object} resdto.ReleaseAllResponse
// @Failure 400 {object} resdto.LockDeniedResponse
// @Router /locks/release-all [post]
func (h *LockHandler) ReleaseAll(c *gin.Context) {
	var req reqdto.ReleaseAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, resdto.NewLockDenied(ReasonValidation))
		return
	}

	owner, err := req.ToOwner()
	if err != nil {
		c.JSON(http.StatusBadRequest, resdto.NewLockDenied(ReasonValidation))
		return
	}

	released, err := h.lockCommands.ReleaseAllForOwner(c.Request.Context(), owner)
	if err != nil {
		writeLockFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.ReleaseAllResponse{Released: released})
}

// writeLockFailure maps usecase sentinels to the wire failure shape.
// Conflicts keep the {success, reason} body the UI switches on; store
// failures go through the error envelope instead of masquerading as a
// domain refusal.
func writeLockFailure(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrSeatBooked):
		c.JSON(http.StatusConflict, resdto.NewLockDenied(ReasonSeatBooked))
	case errors.Is(err, errs.ErrSeatLocked):
		c.JSON(http.StatusConflict, resdto.NewLockDenied(ReasonSeatLocked))
	case errors.Is(err, errs.ErrNotOwner):
		c.JSON(http.StatusConflict, resdto.NewLockDenied(ReasonNotOwner))
	case errors.Is(err, errs.ErrHoldExpired):
		c.JSON(http.StatusGone, resdto.NewLockDenied(ReasonHoldExpired))
	case errors.Is(err, errs.ErrValidation):
		c.JSON(http.StatusBadRequest, resdto.NewLockDenied(ReasonValidation))
	default:
		httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Lock store unavailable", nil)
	}
}
