package reservations

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the Postgres error code surfaced on a duplicate
// (ride_id, user_id) insert.
const uniqueViolation = "23505"

type pgStore struct {
	db *pgxpool.Pool
}

// NewPgStore returns the Postgres-backed Store.
func NewPgStore(db *pgxpool.Pool) Store {
	return &pgStore{db: db}
}

func (s *pgStore) RideSeats(ctx context.Context, rideID string) (*RideSeats, error) {
	var snap RideSeats
	err := s.db.QueryRow(ctx,
		`SELECT id, user_id, seats, original_seats FROM rides WHERE id=$1`, rideID).
		Scan(&snap.RideID, &snap.OwnerID, &snap.Seats, &snap.OriginalSeats)
	if err != nil {
		return nil, ErrRideNotFound
	}
	return &snap, nil
}

func (s *pgStore) Insert(ctx context.Context, rideID, userID string) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO ride_reservations (ride_id, user_id) VALUES ($1, $2)`,
		rideID, userID)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrAlreadyReserved
	}
	return err
}

func (s *pgStore) Delete(ctx context.Context, rideID, userID string) (bool, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM ride_reservations WHERE ride_id=$1 AND user_id=$2`,
		rideID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *pgStore) DecrementSeats(ctx context.Context, rideID string) (bool, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE rides SET seats = seats - 1 WHERE id=$1 AND seats > 0`, rideID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *pgStore) IncrementSeats(ctx context.Context, rideID string) error {
	_, err := s.db.Exec(ctx, `SELECT increment_ride_seats($1)`, rideID)
	return err
}

func (s *pgStore) UserRideIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.Query(ctx,
		`SELECT ride_id FROM ride_reservations WHERE user_id=$1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
