package rides

import "time"

// State is the per-ride reservation state derived for the caller.
type State string

const (
	StateReserved   State = "reserved"
	StateReservable State = "reservable"
	StateFull       State = "full"
)

// Ride is a carona offering. Date and time are kept in the store's wire
// formats (2006-01-02 and HH:MM:SS) like the original schema.
type Ride struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	DriverName    string    `json:"driver_name,omitempty"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	RideDate      string    `json:"ride_date"`
	RideTime      string    `json:"ride_time"`
	Seats         int       `json:"seats"`
	OriginalSeats int       `json:"original_seats"`
	Price         float64   `json:"price"`
	PricePerSeat  float64   `json:"price_per_seat"`
	CarModel      *string   `json:"car_model,omitempty"`
	CarPlate      *string   `json:"car_plate,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	State         State     `json:"state"`
	Mine          bool      `json:"mine"`
}

// Passenger is a user holding a reservation on a ride.
type Passenger struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Image *string `json:"image,omitempty"`
}

// RideDetail is a ride with its reserved passengers.
type RideDetail struct {
	Ride
	Passengers []Passenger `json:"passengers"`
}

// CreateRequest is the body for POST /rides.
type CreateRequest struct {
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	RideDate    string  `json:"ride_date"`
	RideTime    string  `json:"ride_time"`
	Seats       int     `json:"seats"`
	Price       float64 `json:"price"`
	CarModel    string  `json:"car_model"`
	CarPlate    string  `json:"car_plate"`
}

// DeriveState applies the listing rule: a ride the caller already reserved
// is "reserved"; otherwise it is "full" at zero seats and "reservable"
// with capacity left.
func DeriveState(seats int, reservedByMe bool) State {
	if reservedByMe {
		return StateReserved
	}
	if seats == 0 {
		return StateFull
	}
	return StateReservable
}

// PerPassengerPrice splits the total price across the original capacity.
// A zero capacity leaves the price unchanged.
func PerPassengerPrice(price float64, originalSeats int) float64 {
	if originalSeats > 0 {
		return price / float64(originalSeats)
	}
	return price
}
