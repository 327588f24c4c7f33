package api

import (
	"net/http"
	"strings"

	"seatlock-coordinator/internal/domain/hold"
	resdto "seatlock-coordinator/internal/handler/dto/response"
	"seatlock-coordinator/internal/handler/httperr"
	"seatlock-coordinator/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	availabilityQueries queries.AvailabilityQueries
}

func NewAvailabilityHandler(availabilityQueries queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityQueries: availabilityQueries,
	}
}

// @Summary List locked and booked seats
// @Description List seats currently held or permanently booked for one inventory
// @Tags availability
// @Produce json
// @Param inventoryType query string true "Inventory type (BUS, FLIGHT, TRAIN, HOTEL)"
// @Param inventoryId query string true "Inventory ID"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} resdto.LockDeniedResponse
// @Router /availability [get]
func (h *AvailabilityHandler) ListAvailability(c *gin.Context) {
	inv, ok := h.bindInventory(c)
	if !ok {
		return
	}

	view, err := h.availabilityQueries.ListAvailability(c.Request.Context(), inv)
	if err != nil {
		httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Lock store unavailable", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromAvailabilityView(view))
}

// @Summary List the caller's holds
// @Description List every active hold owned by the given identity
// @Tags availability
// @Produce json
// @Param ownerUserId query string false "Owner user ID"
// @Param ownerSessionId query string false "Owner session ID"
// @Success 200 {object} resdto.OwnedLocksResponse
// @Failure 400 {object} resdto.LockDeniedResponse
// @Router /locks/mine [get]
func (h *AvailabilityHandler) ListMine(c *gin.Context) {
	owner, err := hold.NewOwner(
		strings.TrimSpace(c.Query("ownerUserId")),
		strings.TrimSpace(c.Query("ownerSessionId")),
	)
	if err != nil {
		c.JSON(http.StatusBadRequest, resdto.NewLockDenied(ReasonValidation))
		return
	}

	views, err := h.availabilityQueries.ListMine(c.Request.Context(), owner)
	if err != nil {
		httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Lock store unavailable", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromOwnedLockViews(views))
}

// @Summary Check one seat
// @Description Report whether a single seat is free to lock right now
// @Tags availability
// @Produce json
// @Param inventoryType query string true "Inventory type (BUS, FLIGHT, TRAIN, HOTEL)"
// @Param inventoryId query string true "Inventory ID"
// @Param seatId query string true "Seat ID"
// @Success 200 {object} resdto.CheckOneResponse
// @Failure 400 {object} resdto.LockDeniedResponse
// @Router /availability/seat [get]
func (h *AvailabilityHandler) CheckOne(c *gin.Context) {
	inv, ok := h.bindInventory(c)
	if !ok {
		return
	}

	seatID := strings.TrimSpace(c.Query("seatId"))
	key, err := hold.NewSeatKey(inv.InventoryType.String(), inv.InventoryID, seatID)
	if err != nil {
		c.JSON(http.StatusBadRequest, resdto.NewLockDenied(ReasonValidation))
		return
	}

	available, err := h.availabilityQueries.CheckOne(c.Request.Context(), key)
	if err != nil {
		httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Lock store unavailable", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.CheckOneResponse{Available: available})
}

func (h *AvailabilityHandler) bindInventory(c *gin.Context) (hold.InventoryRef, bool) {
	inv, err := hold.NewInventoryRef(
		strings.TrimSpace(c.Query("inventoryType")),
		strings.TrimSpace(c.Query("inventoryId")),
	)
	if err != nil {
		c.JSON(http.StatusBadRequest, resdto.NewLockDenied(ReasonValidation))
		return hold.InventoryRef{}, false
	}
	return inv, true
}
