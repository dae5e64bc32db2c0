package reservations

import (
	"context"
	"errors"
)

var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrRideNotFound    = errors.New("ride not found")
	ErrOwnRide         = errors.New("cannot reserve your own ride")
	ErrRideFull        = errors.New("ride is full")
	ErrAlreadyReserved = errors.New("already reserved")
	ErrNotReserved     = errors.New("no reservation for this ride")
)

// RideSeats is the capacity snapshot read before any write.
type RideSeats struct {
	RideID        string `json:"ride_id"`
	OwnerID       string `json:"-"`
	Seats         int    `json:"seats"`
	OriginalSeats int    `json:"original_seats"`
}

// Store is the narrow persistence surface of the reservation workflow.
// Keeping it small gives the workflow a real test seam; the production
// implementation is pgStore.
type Store interface {
	// RideSeats returns the capacity snapshot, or ErrRideNotFound.
	RideSeats(ctx context.Context, rideID string) (*RideSeats, error)
	// Insert adds the (ride, user) reservation row. A uniqueness
	// violation maps to ErrAlreadyReserved.
	Insert(ctx context.Context, rideID, userID string) error
	// Delete removes the reservation row, reporting whether one existed.
	Delete(ctx context.Context, rideID, userID string) (bool, error)
	// DecrementSeats conditionally takes one seat (seats > 0 guard) and
	// reports whether a seat was taken.
	DecrementSeats(ctx context.Context, rideID string) (bool, error)
	// IncrementSeats gives one seat back via the store's atomic
	// procedure, capped at original capacity.
	IncrementSeats(ctx context.Context, rideID string) error
	// UserRideIDs lists ride ids the user holds reservations on.
	UserRideIDs(ctx context.Context, userID string) ([]string, error)
}
