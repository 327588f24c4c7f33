package shared

import (
	"context"
	"time"

	"seatlock-coordinator/internal/domain/booking"
	"seatlock-coordinator/internal/domain/hold"

	"github.com/google/uuid"
)

// CreateOutcome distinguishes a fresh acquisition from a same-owner TTL
// refresh. Conflicts surface as infra.RepositoryError kinds instead.
type CreateOutcome int

const (
	OutcomeCreated CreateOutcome = iota
	OutcomeRefreshed
)

// LockStore is the authoritative table of seat holds. All cross-request
// safety in the service reduces to the per-key atomicity of this interface;
// the reaper and the booking bridge mutate holds only through it, never via
// a side channel.
//
// Every read treats a hold whose expiry has passed as absent, regardless of
// whether the reaper has swept it yet. `now` is passed explicitly so the
// clock stays a usecase concern.
//
// Conflict taxonomy (as infra.RepositoryError kinds):
//   - SEAT_BOOKED:  a BookedSeat exists for the key (terminal)
//   - SEAT_LOCKED:  another owner has an unexpired ACTIVE hold
//   - NOT_OWNER:    release attempted by a non-owner
//   - HOLD_EXPIRED: conversion attempted after TTL lapse
type LockStore interface {
	// TryCreate atomically acquires a hold. A same-owner re-lock on an
	// active hold refreshes the TTL (OutcomeRefreshed) and keeps the
	// original price snapshot.
	TryCreate(ctx context.Context, h *hold.SeatHold) (CreateOutcome, error)

	// TryCreateAll acquires every hold or none. Callers pass holds in
	// canonical key order; acquisition honors that order so overlapping
	// bulk requests cannot deadlock. On the first conflict everything
	// acquired within the call is rolled back.
	TryCreateAll(ctx context.Context, holds []*hold.SeatHold) error

	// CompareAndRemove transitions the key's active hold to `to` if the
	// caller owns it. Absent (including expired) holds are a no-op with
	// removed=false and no error, which makes double-release safe.
	CompareAndRemove(ctx context.Context, key hold.SeatKey, owner hold.Owner, to hold.Status, now time.Time) (removed bool, err error)

	// ReleaseAllForOwner releases every active hold of the owner and
	// returns how many were released.
	ReleaseAllForOwner(ctx context.Context, owner hold.Owner, now time.Time) (int64, error)

	// Get returns the unexpired active hold for the key, or a NOT_FOUND
	// kind when absent.
	Get(ctx context.Context, key hold.SeatKey, now time.Time) (*hold.SeatHold, error)

	ListActive(ctx context.Context, inv hold.InventoryRef, now time.Time) ([]*hold.SeatHold, error)
	ListByOwner(ctx context.Context, owner hold.Owner, now time.Time) ([]*hold.SeatHold, error)

	// RemoveExpired transitions up to limit lapsed ACTIVE holds to EXPIRED
	// and reports how many were swept. Purely an optimization; reads never
	// depend on it.
	RemoveExpired(ctx context.Context, now time.Time, limit int) (int64, error)

	// ConvertAllForOwner atomically converts every ACTIVE hold of the owner
	// into a BookedSeat and enqueues one ledger job for the conversion. The
	// whole call fails with HOLD_EXPIRED if any hold has lapsed (or none
	// remain), and with SEAT_BOOKED if a key was already booked.
	ConvertAllForOwner(ctx context.Context, owner hold.Owner, bookingRef string, now time.Time) ([]*booking.BookedSeat, error)
}

// BookedSeatReader is the read side of the permanent booking records owned
// by this coordinator.
type BookedSeatReader interface {
	ListBookedSeatIDs(ctx context.Context, inv hold.InventoryRef) ([]string, error)
	IsBooked(ctx context.Context, key hold.SeatKey) (bool, error)
}

// LedgerJob is a queued outbound notification for the external booking
// ledger, written in the same transaction as the conversion it reports.
type LedgerJob struct {
	ID        uuid.UUID
	Topic     string
	Payload   []byte
	Status    string
	Attempts  int32
	LastError *string
	RunAt     time.Time
}

const (
	LedgerJobQueued     = "queued"
	LedgerJobDispatched = "dispatched"
	LedgerJobFailed     = "failed"
)

type LedgerJobs interface {
	Pending(ctx context.Context, limit int) ([]*LedgerJob, error)
	MarkDispatched(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
}
