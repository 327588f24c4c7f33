//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"seatlock-coordinator/internal/domain/hold"
	"seatlock-coordinator/internal/pkg/errs"
	"seatlock-coordinator/internal/usecase/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingFixture struct {
	*fixture
	booking commands.BookingCommands
}

func newBookingFixture() *bookingFixture {
	f := newFixture()
	return &bookingFixture{
		fixture: f,
		booking: commands.NewBookingCommands(f.store, f.clock),
	}
}

func TestMarkAsBooked(t *testing.T) {
	ctx := context.Background()
	owner := hold.Owner{UserID: "user-a", SessionID: "sess-a"}
	ownerC := hold.Owner{UserID: "user-c", SessionID: "sess-c"}

	t.Run("converts every held seat under one booking ref", func(t *testing.T) {
		f := newBookingFixture()

		err := f.lock.LockSeats(ctx, commands.LockSeatsInput{
			Keys:       []hold.SeatKey{key(t, "TRAIN", "7", "A1"), key(t, "TRAIN", "7", "A2")},
			Owner:      owner,
			PriceCents: []int64{900, 900},
		})
		require.NoError(t, err)

		result, err := f.booking.MarkAsBooked(ctx, owner)
		require.NoError(t, err)
		require.Len(t, result.Seats, 2)
		assert.NotEmpty(t, result.BookingRef)
		for _, s := range result.Seats {
			assert.Equal(t, result.BookingRef, s.BookingRef)
		}

		// Converted seats leave the active listing together.
		inv, err := hold.NewInventoryRef("TRAIN", "7")
		require.NoError(t, err)
		active, err := f.store.ListActive(ctx, inv, f.clock.Now())
		require.NoError(t, err)
		assert.Empty(t, active)

		// A later lock attempt by anyone is refused permanently.
		_, err = f.lock.LockSeat(ctx, commands.LockSeatInput{Key: key(t, "TRAIN", "7", "A1"), Owner: ownerC, PriceCents: 900})
		assert.ErrorIs(t, err, errs.ErrSeatBooked)
	})

	t.Run("no holds to convert yields HOLD_EXPIRED", func(t *testing.T) {
		f := newBookingFixture()

		_, err := f.booking.MarkAsBooked(ctx, owner)
		assert.ErrorIs(t, err, errs.ErrHoldExpired)
	})

	t.Run("lapsed TTL blocks the conversion", func(t *testing.T) {
		f := newBookingFixture()

		_, err := f.lock.LockSeat(ctx, commands.LockSeatInput{Key: key(t, "BUS", "1", "L1"), Owner: owner, PriceCents: 1530})
		require.NoError(t, err)

		f.clock.Advance(601 * time.Second)
		_, err = f.booking.MarkAsBooked(ctx, owner)
		assert.ErrorIs(t, err, errs.ErrHoldExpired)
	})

	t.Run("second conversion finds nothing left", func(t *testing.T) {
		f := newBookingFixture()

		_, err := f.lock.LockSeat(ctx, commands.LockSeatInput{Key: key(t, "BUS", "1", "L1"), Owner: owner, PriceCents: 1530})
		require.NoError(t, err)

		_, err = f.booking.MarkAsBooked(ctx, owner)
		require.NoError(t, err)

		_, err = f.booking.MarkAsBooked(ctx, owner)
		assert.ErrorIs(t, err, errs.ErrHoldExpired)
	})

	t.Run("each conversion enqueues exactly one ledger job", func(t *testing.T) {
		f := newBookingFixture()

		_, err := f.lock.LockSeat(ctx, commands.LockSeatInput{Key: key(t, "BUS", "1", "L1"), Owner: owner, PriceCents: 1530})
		require.NoError(t, err)

		_, err = f.booking.MarkAsBooked(ctx, owner)
		require.NoError(t, err)

		jobs, err := f.store.Pending(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, jobs, 1)
	})
}
