// Package metrics holds the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReservationsTotal counts reserve attempts by outcome:
	// reserved, cancelled, duplicate, full, error, inconsistent.
	ReservationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reservations_total",
		Help: "Ride reservation attempts by outcome.",
	}, []string{"result"})

	// SeatOversellDetected counts rides the audit consumer found with a
	// seat counter outside its invariant bounds.
	SeatOversellDetected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "seat_oversell_detected_total",
		Help: "Rides detected with an inconsistent seat counter.",
	})
)
