package reservations

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carona-service/pkg/jwt"
)

// memStore is an in-memory Store used to exercise the workflow without
// Postgres. guarded switches the seat decrement between the conditional
// form the service relies on and the original unconditional update, so the
// historical oversell race can be reproduced. beforeDecrement, when set,
// runs between the capacity snapshot and the decrement.
type memStore struct {
	mu              sync.Mutex
	rides           map[string]*RideSeats
	resv            map[string]map[string]bool
	guarded         bool
	writes          int
	beforeDecrement func()
}

func newMemStore() *memStore {
	return &memStore{
		rides:   make(map[string]*RideSeats),
		resv:    make(map[string]map[string]bool),
		guarded: true,
	}
}

func (m *memStore) addRide(id, owner string, seats int) {
	m.rides[id] = &RideSeats{RideID: id, OwnerID: owner, Seats: seats, OriginalSeats: seats}
	m.resv[id] = make(map[string]bool)
}

func (m *memStore) RideSeats(_ context.Context, rideID string) (*RideSeats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rides[rideID]
	if !ok {
		return nil, ErrRideNotFound
	}
	snap := *r
	return &snap, nil
}

func (m *memStore) Insert(_ context.Context, rideID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.resv[rideID][userID] {
		return ErrAlreadyReserved
	}
	m.writes++
	m.resv[rideID][userID] = true
	return nil
}

func (m *memStore) Delete(_ context.Context, rideID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.resv[rideID][userID] {
		return false, nil
	}
	m.writes++
	delete(m.resv[rideID], userID)
	return true, nil
}

func (m *memStore) DecrementSeats(_ context.Context, rideID string) (bool, error) {
	if m.beforeDecrement != nil {
		m.beforeDecrement()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.rides[rideID]
	if m.guarded && r.Seats <= 0 {
		return false, nil
	}
	m.writes++
	r.Seats--
	return true, nil
}

func (m *memStore) IncrementSeats(_ context.Context, rideID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.rides[rideID]
	m.writes++
	if r.Seats < r.OriginalSeats {
		r.Seats++
	}
	return nil
}

func (m *memStore) UserRideIDs(_ context.Context, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for rideID, byUser := range m.resv {
		if byUser[userID] {
			ids = append(ids, rideID)
		}
	}
	return ids, nil
}

func (m *memStore) seats(rideID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rides[rideID].Seats
}

func (m *memStore) reservationCount(rideID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.resv[rideID])
}

func claimsFor(userID string) *jwt.Claims {
	return &jwt.Claims{UserID: userID, Name: userID}
}

func TestReserve(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		store := newMemStore()
		store.addRide("r1", "driver", 4)
		svc := NewService(store, nil, nil, nil)

		snap, err := svc.Reserve(ctx, claimsFor("alice"), "r1")
		require.NoError(t, err)
		assert.Equal(t, 3, snap.Seats)
		assert.Equal(t, 3, store.seats("r1"))
		assert.Equal(t, 1, store.reservationCount("r1"))
	})

	t.Run("DuplicateLeavesSeatsUnchanged", func(t *testing.T) {
		store := newMemStore()
		store.addRide("r1", "driver", 4)
		svc := NewService(store, nil, nil, nil)

		_, err := svc.Reserve(ctx, claimsFor("alice"), "r1")
		require.NoError(t, err)

		_, err = svc.Reserve(ctx, claimsFor("alice"), "r1")
		assert.ErrorIs(t, err, ErrAlreadyReserved)
		assert.Equal(t, 3, store.seats("r1"))
		assert.Equal(t, 1, store.reservationCount("r1"))
	})

	t.Run("FullRideRejectedBeforeAnyWrite", func(t *testing.T) {
		store := newMemStore()
		store.addRide("r1", "driver", 1)
		svc := NewService(store, nil, nil, nil)

		_, err := svc.Reserve(ctx, claimsFor("alice"), "r1")
		require.NoError(t, err)
		writesBefore := store.writes

		_, err = svc.Reserve(ctx, claimsFor("bob"), "r1")
		assert.ErrorIs(t, err, ErrRideFull)
		assert.Equal(t, writesBefore, store.writes, "a full ride must not reach the store")
	})

	t.Run("OwnRideRejected", func(t *testing.T) {
		store := newMemStore()
		store.addRide("r1", "driver", 4)
		svc := NewService(store, nil, nil, nil)

		_, err := svc.Reserve(ctx, claimsFor("driver"), "r1")
		assert.ErrorIs(t, err, ErrOwnRide)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		store := newMemStore()
		store.addRide("r1", "driver", 4)
		svc := NewService(store, nil, nil, nil)

		_, err := svc.Reserve(ctx, nil, "r1")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("UnknownRide", func(t *testing.T) {
		svc := NewService(newMemStore(), nil, nil, nil)
		_, err := svc.Reserve(ctx, claimsFor("alice"), "missing")
		assert.ErrorIs(t, err, ErrRideNotFound)
	})

	t.Run("LosingLastSeatRaceCompensates", func(t *testing.T) {
		store := newMemStore()
		store.addRide("r1", "driver", 1)
		svc := NewService(store, nil, nil, nil)

		// Bob takes the last seat between Alice's snapshot and her
		// decrement.
		store.beforeDecrement = func() {
			store.beforeDecrement = nil
			_, err := svc.Reserve(ctx, claimsFor("bob"), "r1")
			require.NoError(t, err)
		}

		_, err := svc.Reserve(ctx, claimsFor("alice"), "r1")
		assert.ErrorIs(t, err, ErrRideFull)
		assert.Equal(t, 0, store.seats("r1"), "seats must not go negative")
		assert.Equal(t, 1, store.reservationCount("r1"), "alice's row must be compensated away")
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("RemovesExactlyOneRowAndGivesSeatBack", func(t *testing.T) {
		store := newMemStore()
		store.addRide("r1", "driver", 3)
		svc := NewService(store, nil, nil, nil)

		for _, u := range []string{"alice", "bob", "carol"} {
			_, err := svc.Reserve(ctx, claimsFor(u), "r1")
			require.NoError(t, err)
		}
		require.Equal(t, 0, store.seats("r1"))

		snap, err := svc.Cancel(ctx, claimsFor("bob"), "r1")
		require.NoError(t, err)
		assert.Equal(t, 1, snap.Seats)
		assert.Equal(t, 1, store.seats("r1"))
		assert.Equal(t, 2, store.reservationCount("r1"), "other reservations stay")
	})

	t.Run("NoReservation", func(t *testing.T) {
		store := newMemStore()
		store.addRide("r1", "driver", 3)
		svc := NewService(store, nil, nil, nil)

		_, err := svc.Cancel(ctx, claimsFor("alice"), "r1")
		assert.ErrorIs(t, err, ErrNotReserved)
		assert.Equal(t, 3, store.seats("r1"))
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		svc := NewService(newMemStore(), nil, nil, nil)
		_, err := svc.Cancel(ctx, nil, "r1")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

// Sequential reserve/cancel cycles must keep 0 <= seats <= original_seats
// and keep the counter consistent with the reservation table.
func TestSeatBoundsAcrossCycles(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.addRide("r1", "driver", 2)
	svc := NewService(store, nil, nil, nil)

	users := []string{"u1", "u2", "u3"}
	for cycle := 0; cycle < 5; cycle++ {
		reserved := make([]string, 0, len(users))
		for _, u := range users {
			if _, err := svc.Reserve(ctx, claimsFor(u), "r1"); err == nil {
				reserved = append(reserved, u)
			}
		}
		require.Len(t, reserved, 2, "capacity is two seats")

		seats := store.seats("r1")
		require.GreaterOrEqual(t, seats, 0)
		require.LessOrEqual(t, seats, 2)
		require.Equal(t, 2-store.reservationCount("r1"), seats)

		for _, u := range reserved {
			_, err := svc.Cancel(ctx, claimsFor(u), "r1")
			require.NoError(t, err)
		}
		require.Equal(t, 2, store.seats("r1"))
		require.Equal(t, 0, store.reservationCount("r1"))
	}
}

// Concurrent reservations against the last seat: the conditional decrement
// admits exactly one winner.
func TestConcurrentLastSeat(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.addRide("r1", "driver", 1)
	svc := NewService(store, nil, nil, nil)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Reserve(ctx, claimsFor(string(rune('a'+i))), "r1")
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			require.ErrorIs(t, err, ErrRideFull)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 0, store.seats("r1"))
	assert.Equal(t, 1, store.reservationCount("r1"))
}

// The original client performed an unconditional seat update after the
// insert, so two writers that both passed the capacity check drove the
// counter negative. Reproduce that interleaving against the unguarded
// store to document what the conditional decrement prevents.
func TestUnguardedDecrementOversells(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.addRide("r1", "driver", 1)
	store.guarded = false

	// Both users pass the client-side capacity check before either writes.
	for i := 0; i < 2; i++ {
		snap, err := store.RideSeats(ctx, "r1")
		require.NoError(t, err)
		require.Greater(t, snap.Seats, 0, "both writers observe the last seat")
	}
	for _, u := range []string{"alice", "bob"} {
		require.NoError(t, store.Insert(ctx, "r1", u))
	}
	for range []string{"alice", "bob"} {
		taken, err := store.DecrementSeats(ctx, "r1")
		require.NoError(t, err)
		require.True(t, taken, "the unconditional update always reports success")
	}

	assert.Equal(t, -1, store.seats("r1"), "oversell: the seat counter went negative")
	assert.Equal(t, 2, store.reservationCount("r1"))

	// The guarded form stops the second writer.
	store.addRide("r2", "driver", 1)
	store.guarded = true
	require.NoError(t, store.Insert(ctx, "r2", "alice"))
	require.NoError(t, store.Insert(ctx, "r2", "bob"))
	taken, err := store.DecrementSeats(ctx, "r2")
	require.NoError(t, err)
	require.True(t, taken)
	taken, err = store.DecrementSeats(ctx, "r2")
	require.NoError(t, err)
	assert.False(t, taken, "the conditional update refuses to oversell")
	assert.Equal(t, 0, store.seats("r2"))
}

func TestListRideIDs(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.addRide("r1", "driver", 2)
	store.addRide("r2", "driver", 2)
	svc := NewService(store, nil, nil, nil)

	_, err := svc.Reserve(ctx, claimsFor("alice"), "r1")
	require.NoError(t, err)
	_, err = svc.Reserve(ctx, claimsFor("alice"), "r2")
	require.NoError(t, err)

	ids, err := svc.ListRideIDs(ctx, claimsFor("alice"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"r1", "r2"}, ids)

	_, err = svc.ListRideIDs(ctx, nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
