package validation

import "testing"

func TestValidateRoute(t *testing.T) {
	valid := []string{"Campus Pimenta", "Rua das Flores, 120", "UFC"}
	for _, v := range valid {
		if !ValidateRoute(v) {
			t.Errorf("ValidateRoute(%q) = false, want true", v)
		}
	}
	if ValidateRoute("  ") || ValidateRoute("ab") {
		t.Error("blank or too-short routes must be rejected")
	}
}

func TestValidateSeats(t *testing.T) {
	for _, n := range []int{1, 4, 8} {
		if !ValidateSeats(n) {
			t.Errorf("ValidateSeats(%d) = false, want true", n)
		}
	}
	for _, n := range []int{0, -1, 9} {
		if ValidateSeats(n) {
			t.Errorf("ValidateSeats(%d) = true, want false", n)
		}
	}
}

func TestValidateRideDate(t *testing.T) {
	if !ValidateRideDate("2025-07-21") {
		t.Error("ISO calendar date must be accepted")
	}
	for _, d := range []string{"21/07/2025", "2025-13-01", ""} {
		if ValidateRideDate(d) {
			t.Errorf("ValidateRideDate(%q) = true, want false", d)
		}
	}
}

func TestValidateRideTime(t *testing.T) {
	for _, v := range []string{"07:30", "23:59:59"} {
		if !ValidateRideTime(v) {
			t.Errorf("ValidateRideTime(%q) = false, want true", v)
		}
	}
	for _, v := range []string{"25:00", "7h30", ""} {
		if ValidateRideTime(v) {
			t.Errorf("ValidateRideTime(%q) = true, want false", v)
		}
	}
}

func TestValidatePlate(t *testing.T) {
	for _, v := range []string{"ABC1D23", "abc-1234", "ABC-1234", ""} {
		if !ValidatePlate(v) {
			t.Errorf("ValidatePlate(%q) = false, want true", v)
		}
	}
	for _, v := range []string{"1234", "ABCD-123", "AB1C23"} {
		if ValidatePlate(v) {
			t.Errorf("ValidatePlate(%q) = true, want false", v)
		}
	}
}

func TestValidatePrice(t *testing.T) {
	if !ValidatePrice(0) || !ValidatePrice(120.50) {
		t.Error("non-negative prices must be accepted")
	}
	if ValidatePrice(-1) {
		t.Error("negative price must be rejected")
	}
}
