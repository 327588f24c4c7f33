//go:build unit

package hold_test

import (
	"testing"
	"time"

	"seatlock-coordinator/internal/domain/hold"
	"seatlock-coordinator/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name   string
	mutate func(*builder.HoldBuilder)
	errIs  error
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := builder.NewHoldBuilder()
			if tc.mutate != nil {
				b.With(tc.mutate)
			}
			actual, err := b.BuildDomain()
			if tc.errIs != nil {
				require.ErrorIs(t, err, tc.errIs)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, actual)
		})
	}
}

func TestSeatHold(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		b := builder.NewHoldBuilder()
		actual, err := b.BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, hold.StatusActive, actual.Status())
		assert.Equal(t, int64(1530), actual.PriceCents())
		assert.Equal(t, b.AcquiredAt, actual.AcquiredAt())
		assert.Equal(t, b.AcquiredAt.Add(hold.TTL), actual.ExpiresAt())
	})

	t.Run("key validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "unknown inventory type",
				mutate: func(b *builder.HoldBuilder) { b.InventoryType = "FERRY" },
				errIs:  hold.ErrInvalidInventoryType,
			},
			{
				name:   "empty inventory id",
				mutate: func(b *builder.HoldBuilder) { b.InventoryID = "" },
				errIs:  hold.ErrEmptyInventoryID,
			},
			{
				name:   "empty seat id",
				mutate: func(b *builder.HoldBuilder) { b.SeatID = "" },
				errIs:  hold.ErrEmptySeatID,
			},
			{
				name:   "every inventory type accepted",
				mutate: func(b *builder.HoldBuilder) { b.InventoryType = "HOTEL" },
			},
		})
	})

	t.Run("owner validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name: "both identities missing",
				mutate: func(b *builder.HoldBuilder) {
					b.OwnerUserID = ""
					b.OwnerSession = ""
				},
				errIs: hold.ErrMissingOwner,
			},
			{
				name:   "session id alone suffices",
				mutate: func(b *builder.HoldBuilder) { b.OwnerUserID = "" },
			},
			{
				name:   "user id alone suffices",
				mutate: func(b *builder.HoldBuilder) { b.OwnerSession = "" },
			},
		})
	})

	t.Run("price validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "negative price",
				mutate: func(b *builder.HoldBuilder) { b.PriceCents = -1 },
				errIs:  hold.ErrNegativePrice,
			},
			{
				name:   "zero price allowed",
				mutate: func(b *builder.HoldBuilder) { b.PriceCents = 0 },
			},
		})
	})
}

func TestSeatHoldExpiry(t *testing.T) {
	b := builder.NewHoldBuilder()
	h, err := b.BuildDomain()
	require.NoError(t, err)
	t0 := b.AcquiredAt

	t.Run("alive one second before TTL", func(t *testing.T) {
		at := t0.Add(599 * time.Second)
		assert.False(t, h.Expired(at))
		assert.Equal(t, int64(1), h.ExpiresIn(at))
	})

	t.Run("expired exactly at TTL boundary", func(t *testing.T) {
		at := t0.Add(600 * time.Second)
		assert.True(t, h.Expired(at))
		assert.Equal(t, int64(0), h.ExpiresIn(at))
	})

	t.Run("expires in is never negative", func(t *testing.T) {
		at := t0.Add(601 * time.Second)
		assert.True(t, h.Expired(at))
		assert.Equal(t, int64(0), h.ExpiresIn(at))
	})

	t.Run("refresh restarts TTL and keeps the price snapshot", func(t *testing.T) {
		h2, err := builder.NewHoldBuilder().BuildDomain()
		require.NoError(t, err)

		later := t0.Add(300 * time.Second)
		h2.Refresh(later)

		assert.Equal(t, later, h2.AcquiredAt())
		assert.Equal(t, later.Add(hold.TTL), h2.ExpiresAt())
		assert.Equal(t, int64(1530), h2.PriceCents())
	})
}

func TestOwnerMatches(t *testing.T) {
	held := hold.Owner{UserID: "user-a", SessionID: "sess-a"}

	cases := []struct {
		name   string
		caller hold.Owner
		want   bool
	}{
		{"same user and session", hold.Owner{UserID: "user-a", SessionID: "sess-a"}, true},
		{"user id alone", hold.Owner{UserID: "user-a"}, true},
		{"session id alone", hold.Owner{SessionID: "sess-a"}, true},
		{"same user different session", hold.Owner{UserID: "user-a", SessionID: "sess-z"}, true},
		{"foreign identity", hold.Owner{UserID: "user-b", SessionID: "sess-b"}, false},
		{"empty components never match", hold.Owner{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.caller.Matches(held))
		})
	}

	t.Run("empty held component is not a wildcard", func(t *testing.T) {
		anon := hold.Owner{SessionID: "sess-a"}
		caller := hold.Owner{UserID: "", SessionID: "sess-b"}
		assert.False(t, caller.Matches(anon))
	})
}

func TestSeatKeyOrdering(t *testing.T) {
	mk := func(invType, invID, seatID string) hold.SeatKey {
		k, err := hold.NewSeatKey(invType, invID, seatID)
		require.NoError(t, err)
		return k
	}

	keys := []hold.SeatKey{
		mk("TRAIN", "7", "A2"),
		mk("BUS", "2", "L1"),
		mk("TRAIN", "7", "A1"),
		mk("BUS", "1", "L9"),
	}
	hold.SortKeys(keys)

	assert.Equal(t, "BUS/1/L9", keys[0].String())
	assert.Equal(t, "BUS/2/L1", keys[1].String())
	assert.Equal(t, "TRAIN/7/A1", keys[2].String())
	assert.Equal(t, "TRAIN/7/A2", keys[3].String())
}
