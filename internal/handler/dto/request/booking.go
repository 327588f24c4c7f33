package request

import (
	"strings"

	"seatlock-coordinator/internal/domain/hold"
)

type MarkAsBookedRequest struct {
	OwnerUserID    string `json:"ownerUserId"`
	OwnerSessionID string `json:"ownerSessionId"`
}

func (r MarkAsBookedRequest) ToOwner() (hold.Owner, error) {
	return hold.NewOwner(strings.TrimSpace(r.OwnerUserID), strings.TrimSpace(r.OwnerSessionID))
}
