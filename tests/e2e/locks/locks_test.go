//go:build e2e

package locks_test

import (
	"net/http"
	nethttptest "net/http/httptest"
	"sync"
	"testing"
	"time"

	"seatlock-coordinator/internal/infra/lockstore"
	"seatlock-coordinator/tests/common/builder"
	"seatlock-coordinator/tests/common/httptest"
	"seatlock-coordinator/tests/e2e"

	"github.com/stretchr/testify/suite"
)

const (
	lockURL       = "/api/locks"
	bulkURL       = "/api/locks/bulk"
	unlockURL     = "/api/locks/unlock"
	releaseAllURL = "/api/locks/release-all"
	mineURL       = "/api/locks/mine"
	availURL      = "/api/availability"
	bookingsURL   = "/api/bookings"
)

type lockSuite struct {
	e2e.SharedSuite
}

func TestLockSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(lockSuite))
}

func (s *lockSuite) TestLockLifecycle() {
	s.Run("lock then conflict then unlock then relock", func() {
		ownerA := builder.NewHoldBuilder()
		ownerB := builder.NewHoldBuilder().With(func(b *builder.HoldBuilder) {
			b.OwnerUserID = "user-b"
			b.OwnerSession = "sess-b"
		})

		// Owner A locks L1.
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, lockURL, ownerA.BuildLockRequestDTO())
		s.Equal(http.StatusOK, w.Code)
		body := httptest.DecodeBody(s.T(), w)
		s.Equal(true, body["success"])
		s.Equal(float64(600), body["expiresIn"])

		// Owner B is refused.
		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, lockURL, ownerB.BuildLockRequestDTO())
		s.Equal(http.StatusConflict, w.Code)
		s.Equal("SEAT_LOCKED", httptest.DecodeBody(s.T(), w)["reason"])

		// Owner A releases; owner B succeeds.
		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, unlockURL, ownerA.BuildUnlockRequestDTO())
		s.Equal(http.StatusOK, w.Code)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, lockURL, ownerB.BuildLockRequestDTO())
		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("same owner re-lock refreshes instead of conflicting", func() {
		ownerA := builder.NewHoldBuilder()

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, lockURL, ownerA.BuildLockRequestDTO())
		s.Equal(http.StatusOK, w.Code)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, lockURL, ownerA.BuildLockRequestDTO())
		s.Equal(http.StatusOK, w.Code)
		s.Equal(true, httptest.DecodeBody(s.T(), w)["success"])
	})

	s.Run("double unlock both succeed", func() {
		ownerA := builder.NewHoldBuilder()

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, lockURL, ownerA.BuildLockRequestDTO())
		s.Equal(http.StatusOK, w.Code)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, unlockURL, ownerA.BuildUnlockRequestDTO())
		s.Equal(http.StatusOK, w.Code)
		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, unlockURL, ownerA.BuildUnlockRequestDTO())
		s.Equal(http.StatusOK, w.Code)
	})
}

func (s *lockSuite) TestBulkLock() {
	s.Run("overlapping bulk requests cannot both win", func() {
		ownerA := builder.NewHoldBuilder().With(func(b *builder.HoldBuilder) {
			b.InventoryType = "TRAIN"
			b.InventoryID = "7"
		})
		ownerB := builder.NewHoldBuilder().With(func(b *builder.HoldBuilder) {
			b.InventoryType = "TRAIN"
			b.InventoryID = "7"
			b.OwnerUserID = "user-b"
			b.OwnerSession = "sess-b"
		})

		var wg sync.WaitGroup
		codes := make([]int, 2)
		wg.Add(2)
		go func() {
			defer wg.Done()
			w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bulkURL,
				ownerA.BuildBulkLockRequestDTO([]string{"S1", "S2"}, []int64{900, 900}))
			codes[0] = w.Code
		}()
		go func() {
			defer wg.Done()
			w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bulkURL,
				ownerB.BuildBulkLockRequestDTO([]string{"S2", "S3"}, []int64{900, 900}))
			codes[1] = w.Code
		}()
		wg.Wait()

		// 両方成功することはない（S2 は 1 人だけ）
		s.False(codes[0] == http.StatusOK && codes[1] == http.StatusOK)

		// The loser of S2 must hold no seat at all.
		if codes[0] != http.StatusOK {
			w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet,
				mineURL+"?ownerUserId=user-a", nil)
			s.Equal(http.StatusOK, w.Code)
			s.Empty(httptest.DecodeBody(s.T(), w)["locks"])
		}
		if codes[1] != http.StatusOK {
			w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet,
				mineURL+"?ownerUserId=user-b", nil)
			s.Equal(http.StatusOK, w.Code)
			s.Empty(httptest.DecodeBody(s.T(), w)["locks"])
		}
	})

	s.Run("release all clears every hold", func() {
		ownerA := builder.NewHoldBuilder()

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bulkURL,
			ownerA.BuildBulkLockRequestDTO([]string{"L1", "L2", "L3"}, []int64{900, 900, 900}))
		s.Equal(http.StatusOK, w.Code)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, releaseAllURL, ownerA.BuildOwnerRequestDTO())
		s.Equal(http.StatusOK, w.Code)
		s.Equal(float64(3), httptest.DecodeBody(s.T(), w)["released"])

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, mineURL+"?ownerUserId=user-a", nil)
		s.Equal(http.StatusOK, w.Code)
		s.Empty(httptest.DecodeBody(s.T(), w)["locks"])
	})
}

func (s *lockSuite) TestBookingFlow() {
	s.Run("conversion makes seats permanently unavailable", func() {
		ownerA := builder.NewHoldBuilder().With(func(b *builder.HoldBuilder) {
			b.InventoryType = "TRAIN"
			b.InventoryID = "7"
		})
		ownerC := builder.NewHoldBuilder().With(func(b *builder.HoldBuilder) {
			b.InventoryType = "TRAIN"
			b.InventoryID = "7"
			b.SeatID = "A1"
			b.OwnerUserID = "user-c"
			b.OwnerSession = "sess-c"
		})

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bulkURL,
			ownerA.BuildBulkLockRequestDTO([]string{"A1", "A2"}, []int64{900, 900}))
		s.Equal(http.StatusOK, w.Code)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL, ownerA.BuildOwnerRequestDTO())
		s.Equal(http.StatusOK, w.Code)
		body := httptest.DecodeBody(s.T(), w)
		s.Equal(true, body["success"])
		s.Len(body["bookedSeats"], 2)

		// Booked beats any later lock attempt.
		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, lockURL, ownerC.BuildLockRequestDTO())
		s.Equal(http.StatusConflict, w.Code)
		s.Equal("SEAT_BOOKED", httptest.DecodeBody(s.T(), w)["reason"])

		// Both seats surface as booked in availability.
		w = httptest.PerformRequest(s.T(), s.Router, http.MethodGet,
			availURL+"?inventoryType=TRAIN&inventoryId=7", nil)
		s.Equal(http.StatusOK, w.Code)
		avail := httptest.DecodeBody(s.T(), w)
		s.Len(avail["bookedSeats"], 2)
		s.Empty(avail["lockedSeats"])

		// One ledger job was queued for the conversion.
		var jobs int
		err := s.DB.QueryRow(s.T().Context(), "SELECT count(*) FROM ledger_jobs WHERE status = 'queued'").Scan(&jobs)
		s.Require().NoError(err)
		s.Equal(1, jobs)
	})

	s.Run("lock racing an in-flight conversion loses to the booking", func() {
		ctx := s.T().Context()
		ownerA := builder.NewHoldBuilder()
		ownerB := builder.NewHoldBuilder().With(func(b *builder.HoldBuilder) {
			b.OwnerUserID = "user-b"
			b.OwnerSession = "sess-b"
		})

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, lockURL, ownerA.BuildLockRequestDTO())
		s.Equal(http.StatusOK, w.Code)

		// Owner A の変換をコミット直前で止めておく
		tx, err := s.DB.Begin(ctx)
		s.Require().NoError(err)
		_, err = tx.Exec(ctx,
			`UPDATE seat_holds SET status = 'CONVERTED'
			 WHERE owner_user_id = 'user-a' AND status = 'ACTIVE'`)
		s.Require().NoError(err)
		_, err = tx.Exec(ctx,
			`INSERT INTO booked_seats (inventory_type, inventory_id, seat_id, booking_ref, booked_at)
			 VALUES ('BUS', '1', 'L1', 'ref-race', now())`)
		s.Require().NoError(err)

		// Owner B's insert queues behind A's still-visible active-key index
		// entry; it only proceeds once the conversion commits.
		done := make(chan *nethttptest.ResponseRecorder, 1)
		go func() {
			done <- httptest.PerformRequest(s.T(), s.Router, http.MethodPost, lockURL, ownerB.BuildLockRequestDTO())
		}()

		time.Sleep(300 * time.Millisecond)
		s.Require().NoError(tx.Commit(ctx))

		raceW := <-done
		s.Equal(http.StatusConflict, raceW.Code)
		s.Equal("SEAT_BOOKED", httptest.DecodeBody(s.T(), raceW)["reason"])

		// The seat stays booked-only: no ACTIVE hold survived the race.
		var active int
		err = s.DB.QueryRow(ctx,
			`SELECT count(*) FROM seat_holds
			 WHERE inventory_type = 'BUS' AND inventory_id = '1' AND seat_id = 'L1'
			   AND status = 'ACTIVE'`).Scan(&active)
		s.Require().NoError(err)
		s.Equal(0, active)
	})

	s.Run("conversion with no holds is refused", func() {
		ownerA := builder.NewHoldBuilder()

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL, ownerA.BuildOwnerRequestDTO())
		s.Equal(http.StatusGone, w.Code)
		s.Equal("HOLD_EXPIRED", httptest.DecodeBody(s.T(), w)["reason"])
	})
}

func (s *lockSuite) TestExpiry() {
	// ホールドを直接 DB 上で失効させてから各経路を確認する
	ageHold := func(seatID string) {
		_, err := s.DB.Exec(s.T().Context(),
			`UPDATE seat_holds SET expires_at = now() - interval '1 second'
			 WHERE seat_id = $1 AND status = 'ACTIVE'`, seatID)
		s.Require().NoError(err)
	}

	s.Run("lapsed hold vanishes from reads and frees the seat", func() {
		ownerA := builder.NewHoldBuilder()
		ownerB := builder.NewHoldBuilder().With(func(b *builder.HoldBuilder) {
			b.OwnerUserID = "user-b"
			b.OwnerSession = "sess-b"
		})

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, lockURL, ownerA.BuildLockRequestDTO())
		s.Equal(http.StatusOK, w.Code)
		ageHold("L1")

		// Reads treat the lapsed hold as gone before any sweep runs.
		w = httptest.PerformRequest(s.T(), s.Router, http.MethodGet,
			availURL+"?inventoryType=BUS&inventoryId=1", nil)
		s.Equal(http.StatusOK, w.Code)
		s.Empty(httptest.DecodeBody(s.T(), w)["lockedSeats"])

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, mineURL+"?ownerUserId=user-a", nil)
		s.Equal(http.StatusOK, w.Code)
		s.Empty(httptest.DecodeBody(s.T(), w)["locks"])

		// A new owner acquires the seat; the lapsed row is retired in the
		// same transaction rather than blocking on the active-key index.
		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, lockURL, ownerB.BuildLockRequestDTO())
		s.Equal(http.StatusOK, w.Code)
		s.Equal(true, httptest.DecodeBody(s.T(), w)["success"])

		var expired int
		err := s.DB.QueryRow(s.T().Context(),
			`SELECT count(*) FROM seat_holds
			 WHERE seat_id = 'L1' AND owner_user_id = 'user-a' AND status = 'EXPIRED'`).Scan(&expired)
		s.Require().NoError(err)
		s.Equal(1, expired)
	})

	s.Run("sweep retires lapsed holds and leaves live ones", func() {
		ctx := s.T().Context()
		ownerA := builder.NewHoldBuilder()

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bulkURL,
			ownerA.BuildBulkLockRequestDTO([]string{"L1", "L2"}, []int64{900, 900}))
		s.Equal(http.StatusOK, w.Code)
		ageHold("L1")

		store := lockstore.NewPostgresLockStore(s.DB)
		swept, err := store.RemoveExpired(ctx, time.Now().UTC(), 100)
		s.Require().NoError(err)
		s.Equal(int64(1), swept)

		var statuses []string
		rows, err := s.DB.Query(ctx,
			`SELECT status FROM seat_holds WHERE owner_user_id = 'user-a' ORDER BY seat_id`)
		s.Require().NoError(err)
		defer rows.Close()
		for rows.Next() {
			var st string
			s.Require().NoError(rows.Scan(&st))
			statuses = append(statuses, st)
		}
		s.Require().NoError(rows.Err())
		s.Equal([]string{"EXPIRED", "ACTIVE"}, statuses)
	})
}

func (s *lockSuite) TestValidation() {
	s.Run("unknown inventory type", func() {
		body := builder.NewHoldBuilder().BuildLockRequestDTO()
		body["inventoryType"] = "FERRY"

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, lockURL, body)
		s.Equal(http.StatusBadRequest, w.Code)
		s.Equal("VALIDATION", httptest.DecodeBody(s.T(), w)["reason"])
	})

	s.Run("missing owner identity", func() {
		body := builder.NewHoldBuilder().BuildLockRequestDTO()
		body["ownerUserId"] = ""
		body["ownerSessionId"] = ""

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, lockURL, body)
		s.Equal(http.StatusBadRequest, w.Code)
	})
}
