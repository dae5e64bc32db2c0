// Package audit watches reservation traffic and flags rides whose seat
// counter drifted from the reservation table. The reserve workflow has one
// acknowledged gap (a decrement that errors after a successful insert is
// not rolled back); this consumer is the detector for it.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"carona-service/internal/events"
	"carona-service/pkg/kafka"
	"carona-service/pkg/metrics"
)

// Auditor consumes ride.reserved and reservation.cancelled events and
// re-checks the affected ride against its invariants.
type Auditor struct {
	kafka *kafka.Client
	db    *pgxpool.Pool
}

// NewAuditor creates an auditor.
func NewAuditor(k *kafka.Client, db *pgxpool.Pool) *Auditor {
	return &Auditor{kafka: k, db: db}
}

// Start begins consuming in background goroutines.
func (a *Auditor) Start(ctx context.Context) {
	a.kafka.Subscribe(ctx, kafka.TopicRideReserved, "seat-audit", func(data []byte) error {
		var ev events.RideReservedEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return err
		}
		return a.check(ctx, ev.RideID)
	})
	a.kafka.Subscribe(ctx, kafka.TopicReservationCancelled, "seat-audit", func(data []byte) error {
		var ev events.ReservationCancelledEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return err
		}
		return a.check(ctx, ev.RideID)
	})
}

func (a *Auditor) check(ctx context.Context, rideID string) error {
	var seats, originalSeats, reservations int
	err := a.db.QueryRow(ctx, `
		SELECT r.seats, r.original_seats,
		       (SELECT COUNT(*) FROM ride_reservations rr WHERE rr.ride_id = r.id)
		  FROM rides r WHERE r.id = $1`, rideID).
		Scan(&seats, &originalSeats, &reservations)
	if err != nil {
		// The ride may have been deleted between event and audit.
		return nil
	}

	problems := CheckSeatInvariants(seats, originalSeats, reservations)
	if len(problems) > 0 {
		metrics.SeatOversellDetected.Inc()
		for _, p := range problems {
			log.Printf("[audit] ride %s: %s", rideID, p)
		}
	}
	return nil
}

// CheckSeatInvariants reports every violated seat invariant for a ride:
// 0 <= seats <= original_seats, and seats accounting for every
// reservation row.
func CheckSeatInvariants(seats, originalSeats, reservations int) []string {
	var problems []string
	if seats < 0 {
		problems = append(problems, fmt.Sprintf("seat counter is negative (%d)", seats))
	}
	if seats > originalSeats {
		problems = append(problems, fmt.Sprintf("seat counter %d exceeds capacity %d", seats, originalSeats))
	}
	if want := originalSeats - reservations; seats != want && seats >= 0 && seats <= originalSeats {
		problems = append(problems, fmt.Sprintf("seat counter %d does not match %d reservations against capacity %d (want %d)",
			seats, reservations, originalSeats, want))
	}
	return problems
}
