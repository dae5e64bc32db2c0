package reservations

import (
	"context"
	"log"
	"time"

	"carona-service/internal/events"
	"carona-service/internal/live"
	"carona-service/pkg/jwt"
	"carona-service/pkg/kafka"
	"carona-service/pkg/metrics"
	rredis "carona-service/pkg/redis"
)

// Service runs the reserve/cancel workflow. Kafka, Redis and the live hub
// are optional collaborators; the workflow itself only needs the Store.
type Service struct {
	store Store
	kafka *kafka.Client
	redis *rredis.Client
	hub   *live.Hub
}

// NewService creates a reservation service.
func NewService(store Store, k *kafka.Client, r *rredis.Client, hub *live.Hub) *Service {
	return &Service{store: store, kafka: k, redis: r, hub: hub}
}

// Reserve claims one seat on a ride for the session user.
//
// The capacity check runs before any write, so a full ride is rejected
// without touching the store. The reservation insert carries the real
// guarantee (the composite-key uniqueness), and the seat decrement is
// conditional on remaining capacity; losing that race deletes the
// just-inserted row and reports the ride full. A decrement that errors
// outright leaves the reservation standing — that drift is logged and left
// for the audit consumer rather than rolled back.
func (s *Service) Reserve(ctx context.Context, claims *jwt.Claims, rideID string) (*RideSeats, error) {
	if claims == nil {
		return nil, ErrUnauthenticated
	}

	snap, err := s.store.RideSeats(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if snap.OwnerID == claims.UserID {
		return nil, ErrOwnRide
	}
	if snap.Seats <= 0 {
		metrics.ReservationsTotal.WithLabelValues("full").Inc()
		return nil, ErrRideFull
	}

	if err := s.store.Insert(ctx, rideID, claims.UserID); err != nil {
		if err == ErrAlreadyReserved {
			metrics.ReservationsTotal.WithLabelValues("duplicate").Inc()
		} else {
			metrics.ReservationsTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	taken, err := s.store.DecrementSeats(ctx, rideID)
	if err != nil {
		// Reservation row exists but the seat counter was not moved.
		log.Printf("[reservations] seat decrement failed after insert: ride=%s user=%s: %v",
			rideID, claims.UserID, err)
		metrics.ReservationsTotal.WithLabelValues("inconsistent").Inc()
		return nil, err
	}
	if !taken {
		// Another user took the last seat between the snapshot and the
		// decrement; undo the reservation.
		if _, delErr := s.store.Delete(ctx, rideID, claims.UserID); delErr != nil {
			log.Printf("[reservations] compensation delete failed: ride=%s user=%s: %v",
				rideID, claims.UserID, delErr)
		}
		metrics.ReservationsTotal.WithLabelValues("full").Inc()
		return nil, ErrRideFull
	}

	result := &RideSeats{
		RideID:        rideID,
		OwnerID:       snap.OwnerID,
		Seats:         snap.Seats - 1,
		OriginalSeats: snap.OriginalSeats,
	}
	metrics.ReservationsTotal.WithLabelValues("reserved").Inc()
	s.reconcile(ctx, claims.UserID, result, true)

	if s.kafka != nil {
		go func() {
			ev := events.RideReservedEvent{
				RideID:     rideID,
				UserID:     claims.UserID,
				SeatsLeft:  result.Seats,
				ReservedAt: time.Now().Format(time.RFC3339),
			}
			if err := s.kafka.Publish(context.Background(), kafka.TopicRideReserved, rideID, ev); err != nil {
				log.Printf("[reservations] failed to publish ride.reserved: %v", err)
			}
		}()
	}
	return result, nil
}

// Cancel reverses a reservation. The seat give-back only runs after the
// delete succeeds, and uses the store's atomic increment procedure.
func (s *Service) Cancel(ctx context.Context, claims *jwt.Claims, rideID string) (*RideSeats, error) {
	if claims == nil {
		return nil, ErrUnauthenticated
	}

	snap, err := s.store.RideSeats(ctx, rideID)
	if err != nil {
		return nil, err
	}

	existed, err := s.store.Delete(ctx, rideID, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !existed {
		return nil, ErrNotReserved
	}

	if err := s.store.IncrementSeats(ctx, rideID); err != nil {
		log.Printf("[reservations] seat increment failed after delete: ride=%s user=%s: %v",
			rideID, claims.UserID, err)
		return nil, err
	}

	seats := snap.Seats + 1
	if seats > snap.OriginalSeats {
		seats = snap.OriginalSeats
	}
	result := &RideSeats{
		RideID:        rideID,
		OwnerID:       snap.OwnerID,
		Seats:         seats,
		OriginalSeats: snap.OriginalSeats,
	}
	metrics.ReservationsTotal.WithLabelValues("cancelled").Inc()
	s.reconcile(ctx, claims.UserID, result, false)

	if s.kafka != nil {
		go func() {
			ev := events.ReservationCancelledEvent{
				RideID:      rideID,
				UserID:      claims.UserID,
				SeatsLeft:   result.Seats,
				CancelledAt: time.Now().Format(time.RFC3339),
			}
			if err := s.kafka.Publish(context.Background(), kafka.TopicReservationCancelled, rideID, ev); err != nil {
				log.Printf("[reservations] failed to publish reservation.cancelled: %v", err)
			}
		}()
	}
	return result, nil
}

// ListRideIDs returns the ride ids the session user has reserved, serving
// from the cached set when warm and repopulating it from the store on a
// miss.
func (s *Service) ListRideIDs(ctx context.Context, claims *jwt.Claims) ([]string, error) {
	if claims == nil {
		return nil, ErrUnauthenticated
	}

	if s.redis != nil {
		if ids, err := s.redis.Reservations(ctx, claims.UserID); err == nil && len(ids) > 0 {
			return ids, nil
		}
	}

	ids, err := s.store.UserRideIDs(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if s.redis != nil && len(ids) > 0 {
		if err := s.redis.FillReservations(ctx, claims.UserID, ids); err != nil {
			log.Printf("[reservations] reservation cache fill failed: %v", err)
		}
	}
	return ids, nil
}

// reconcile pushes the mutation into the read-side caches and notifies
// live subscribers with the new seat count.
func (s *Service) reconcile(ctx context.Context, userID string, snap *RideSeats, reserved bool) {
	if s.redis != nil {
		var err error
		if reserved {
			err = s.redis.AddReservation(ctx, userID, snap.RideID)
		} else {
			err = s.redis.RemoveReservation(ctx, userID, snap.RideID)
		}
		if err != nil {
			log.Printf("[reservations] reservation cache update failed: %v", err)
		}
		if err := s.redis.InvalidateRideFeed(ctx); err != nil {
			log.Printf("[reservations] feed invalidate failed: %v", err)
		}
	}
	if s.hub != nil {
		s.hub.BroadcastSeats(snap.RideID, snap.Seats)
	}
}
