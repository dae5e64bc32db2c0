package validation

import (
	"regexp"
	"strings"
	"time"
)

var (
	// Mercosul and the older Brazilian plate format.
	plateRegex = regexp.MustCompile(`^[A-Z]{3}-?\d[A-Z0-9]\d{2}$`)
)

func ValidateName(name string) bool {
	name = strings.TrimSpace(name)
	return len(name) >= 2 && len(name) <= 200
}

// ValidateRoute checks an origin or destination address.
func ValidateRoute(addr string) bool {
	addr = strings.TrimSpace(addr)
	return len(addr) >= 3 && len(addr) <= 300
}

func ValidateSeats(seats int) bool {
	return seats >= 1 && seats <= 8
}

func ValidatePrice(price float64) bool {
	return price >= 0 && price <= 100000
}

// ValidateRideDate expects the store's calendar-date format (2006-01-02).
func ValidateRideDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

// ValidateRideTime accepts HH:MM or HH:MM:SS.
func ValidateRideTime(t string) bool {
	if _, err := time.Parse("15:04", t); err == nil {
		return true
	}
	_, err := time.Parse("15:04:05", t)
	return err == nil
}

// ValidatePlate is lenient about case and the hyphen; an empty plate is
// allowed since the field is optional.
func ValidatePlate(plate string) bool {
	plate = strings.ToUpper(strings.TrimSpace(plate))
	return plate == "" || plateRegex.MatchString(plate)
}

func ValidateTitle(title string) bool {
	title = strings.TrimSpace(title)
	return len(title) >= 3 && len(title) <= 200
}

func ValidateCount(n int) bool {
	return n >= 0 && n <= 50
}
