package hold

import (
	"errors"
	"time"
)

// TTL is fixed by the client contract: every hold expires exactly 600
// seconds after acquisition and is never extended by read traffic.
const TTL = 600 * time.Second

var (
	ErrInvalidInventoryType = errors.New("invalid inventory type")
	ErrEmptyInventoryID     = errors.New("inventory id must not be empty")
	ErrEmptySeatID          = errors.New("seat id must not be empty")
	ErrMissingOwner         = errors.New("owner user id or session id required")
	ErrNegativePrice        = errors.New("price cannot be negative")
)

type InventoryType string

const (
	InventoryBus    InventoryType = "BUS"
	InventoryFlight InventoryType = "FLIGHT"
	InventoryTrain  InventoryType = "TRAIN"
	InventoryHotel  InventoryType = "HOTEL"
)

func NewInventoryType(s string) (InventoryType, error) {
	t := InventoryType(s)
	switch t {
	case InventoryBus, InventoryFlight, InventoryTrain, InventoryHotel:
		return t, nil
	}
	return "", ErrInvalidInventoryType
}

func (t InventoryType) String() string { return string(t) }

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusReleased  Status = "RELEASED"
	StatusExpired   Status = "EXPIRED"
	StatusConverted Status = "CONVERTED"
)

func (s Status) String() string { return string(s) }
