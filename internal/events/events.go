package events

// RideCreatedEvent is published to ride.created.
type RideCreatedEvent struct {
	RideID      string  `json:"ride_id"`
	DriverID    string  `json:"driver_id"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	RideDate    string  `json:"ride_date"`
	Seats       int     `json:"seats"`
	Price       float64 `json:"price"`
}

// RideReservedEvent is published to ride.reserved after a successful
// reservation, carrying the seat count observed by the writer.
type RideReservedEvent struct {
	RideID     string `json:"ride_id"`
	UserID     string `json:"user_id"`
	SeatsLeft  int    `json:"seats_left"`
	ReservedAt string `json:"reserved_at"`
}

// ReservationCancelledEvent is published to reservation.cancelled.
type ReservationCancelledEvent struct {
	RideID      string `json:"ride_id"`
	UserID      string `json:"user_id"`
	SeatsLeft   int    `json:"seats_left"`
	CancelledAt string `json:"cancelled_at"`
}
