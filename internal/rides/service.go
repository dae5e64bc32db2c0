package rides

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"carona-service/internal/events"
	"carona-service/pkg/kafka"
	rredis "carona-service/pkg/redis"
	"carona-service/pkg/validation"
)

var (
	ErrNotFound = errors.New("ride not found")
	ErrNotOwner = errors.New("ride belongs to another user")
)

// Service contains ride business logic.
type Service struct {
	db    *pgxpool.Pool
	kafka *kafka.Client
	redis *rredis.Client
}

// NewService creates a ride service. Kafka and Redis are optional
// collaborators; a nil client skips events or caching.
func NewService(db *pgxpool.Pool, k *kafka.Client, r *rredis.Client) *Service {
	return &Service{db: db, kafka: k, redis: r}
}

// listQuery joins the caller's reservations in the same statement so the
// derived flags can never mix rides from one fetch with reservations from
// another.
const listQuery = `
	SELECT r.id, r.user_id, u.name,
	       r.origin, r.destination,
	       r.ride_date::text, r.ride_time::text,
	       r.seats, r.original_seats, r.price,
	       r.car_model, r.car_plate, r.created_at,
	       (rr.user_id IS NOT NULL) AS reserved_by_me
	  FROM rides r
	  JOIN users u ON u.id = r.user_id
	  LEFT JOIN ride_reservations rr ON rr.ride_id = r.id AND rr.user_id = $1
	 ORDER BY r.ride_date, r.ride_time`

// List returns all rides ascending by date, each annotated with the
// caller's derived state. An empty callerID yields the anonymous listing,
// which is served from the feed cache when warm.
func (s *Service) List(ctx context.Context, callerID string) ([]Ride, error) {
	if callerID == "" && s.redis != nil {
		if data, err := s.redis.RideFeed(ctx); err == nil && data != nil {
			var cached []Ride
			if json.Unmarshal(data, &cached) == nil {
				return cached, nil
			}
		}
	}

	rows, err := s.db.Query(ctx, listQuery, callerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Ride
	for rows.Next() {
		var r Ride
		var reservedByMe bool
		if err := rows.Scan(&r.ID, &r.UserID, &r.DriverName,
			&r.Origin, &r.Destination, &r.RideDate, &r.RideTime,
			&r.Seats, &r.OriginalSeats, &r.Price,
			&r.CarModel, &r.CarPlate, &r.CreatedAt, &reservedByMe); err != nil {
			return nil, err
		}
		r.PricePerSeat = PerPassengerPrice(r.Price, r.OriginalSeats)
		r.State = DeriveState(r.Seats, reservedByMe)
		r.Mine = callerID != "" && r.UserID == callerID
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if callerID == "" && s.redis != nil {
		if data, err := json.Marshal(list); err == nil {
			if err := s.redis.CacheRideFeed(ctx, data); err != nil {
				log.Printf("[rides] feed cache write failed: %v", err)
			}
		}
	}
	return list, nil
}

// GetByID fetches a ride with its driver and passenger list.
func (s *Service) GetByID(ctx context.Context, id, callerID string) (*RideDetail, error) {
	var d RideDetail
	var reservedByMe bool
	err := s.db.QueryRow(ctx, `
		SELECT r.id, r.user_id, u.name,
		       r.origin, r.destination,
		       r.ride_date::text, r.ride_time::text,
		       r.seats, r.original_seats, r.price,
		       r.car_model, r.car_plate, r.created_at,
		       EXISTS(SELECT 1 FROM ride_reservations rr
		               WHERE rr.ride_id = r.id AND rr.user_id = $2)
		  FROM rides r
		  JOIN users u ON u.id = r.user_id
		 WHERE r.id = $1`, id, callerID).
		Scan(&d.ID, &d.UserID, &d.DriverName,
			&d.Origin, &d.Destination, &d.RideDate, &d.RideTime,
			&d.Seats, &d.OriginalSeats, &d.Price,
			&d.CarModel, &d.CarPlate, &d.CreatedAt, &reservedByMe)
	if err != nil {
		return nil, ErrNotFound
	}
	d.PricePerSeat = PerPassengerPrice(d.Price, d.OriginalSeats)
	d.State = DeriveState(d.Seats, reservedByMe)
	d.Mine = callerID != "" && d.UserID == callerID

	rows, err := s.db.Query(ctx, `
		SELECT u.id, u.name, u.image
		  FROM ride_reservations rr
		  JOIN users u ON u.id = rr.user_id
		 WHERE rr.ride_id = $1
		 ORDER BY rr.created_at`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p Passenger
		if err := rows.Scan(&p.ID, &p.Name, &p.Image); err != nil {
			return nil, err
		}
		d.Passengers = append(d.Passengers, p)
	}
	return &d, rows.Err()
}

// Create inserts a new ride owned by the caller. Capacity starts full:
// original_seats is fixed at the requested seat count.
func (s *Service) Create(ctx context.Context, ownerID string, req CreateRequest) (*Ride, error) {
	if !validation.ValidateRoute(req.Origin) || !validation.ValidateRoute(req.Destination) {
		return nil, errors.New("invalid origin or destination")
	}
	if !validation.ValidateRideDate(req.RideDate) {
		return nil, errors.New("invalid ride_date, expected YYYY-MM-DD")
	}
	if !validation.ValidateRideTime(req.RideTime) {
		return nil, errors.New("invalid ride_time, expected HH:MM")
	}
	if !validation.ValidateSeats(req.Seats) {
		return nil, errors.New("seats must be between 1 and 8")
	}
	if !validation.ValidatePrice(req.Price) {
		return nil, errors.New("invalid price")
	}
	if !validation.ValidatePlate(req.CarPlate) {
		return nil, errors.New("invalid car plate")
	}

	id := uuid.New().String()
	plate := strings.ToUpper(strings.TrimSpace(req.CarPlate))
	_, err := s.db.Exec(ctx,
		`INSERT INTO rides (id,user_id,origin,destination,ride_date,ride_time,
		                    seats,original_seats,price,car_model,car_plate)
		 VALUES ($1,$2,$3,$4,$5::date,$6::time,$7,$7,$8,$9,$10)`,
		id, ownerID, req.Origin, req.Destination, req.RideDate, req.RideTime,
		req.Seats, req.Price, req.CarModel, plate)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if err := s.redis.InvalidateRideFeed(ctx); err != nil {
			log.Printf("[rides] feed invalidate failed: %v", err)
		}
	}
	if s.kafka != nil {
		go func() {
			ev := events.RideCreatedEvent{
				RideID:      id,
				DriverID:    ownerID,
				Origin:      req.Origin,
				Destination: req.Destination,
				RideDate:    req.RideDate,
				Seats:       req.Seats,
				Price:       req.Price,
			}
			if err := s.kafka.Publish(context.Background(), kafka.TopicRideCreated, id, ev); err != nil {
				log.Printf("[rides] failed to publish ride.created: %v", err)
			}
		}()
	}

	ride := &Ride{
		ID: id, UserID: ownerID,
		Origin: req.Origin, Destination: req.Destination,
		RideDate: req.RideDate, RideTime: req.RideTime,
		Seats: req.Seats, OriginalSeats: req.Seats,
		Price: req.Price, PricePerSeat: PerPassengerPrice(req.Price, req.Seats),
		State: StateReservable, Mine: true, CreatedAt: time.Now(),
	}
	if req.CarModel != "" {
		ride.CarModel = &req.CarModel
	}
	if plate != "" {
		ride.CarPlate = &plate
	}
	return ride, nil
}

// Delete removes a ride; only the owning driver may do it. Reservations
// cascade at the store.
func (s *Service) Delete(ctx context.Context, id, callerID string) error {
	var ownerID string
	if err := s.db.QueryRow(ctx, `SELECT user_id FROM rides WHERE id=$1`, id).Scan(&ownerID); err != nil {
		return ErrNotFound
	}
	if ownerID != callerID {
		return ErrNotOwner
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM rides WHERE id=$1`, id); err != nil {
		return err
	}
	if s.redis != nil {
		if err := s.redis.InvalidateRideFeed(ctx); err != nil {
			log.Printf("[rides] feed invalidate failed: %v", err)
		}
	}
	return nil
}
