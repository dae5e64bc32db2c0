package rides

import "testing"

func TestDeriveState(t *testing.T) {
	cases := []struct {
		name         string
		seats        int
		reservedByMe bool
		want         State
	}{
		{"ReservedWins", 3, true, StateReserved},
		{"ReservedEvenWhenFull", 0, true, StateReserved},
		{"FullAtZeroSeats", 0, false, StateFull},
		{"ReservableWithCapacity", 1, false, StateReservable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeriveState(tc.seats, tc.reservedByMe); got != tc.want {
				t.Errorf("DeriveState(%d, %v) = %q, want %q", tc.seats, tc.reservedByMe, got, tc.want)
			}
		})
	}
}

func TestPerPassengerPrice(t *testing.T) {
	if got := PerPassengerPrice(100, 4); got != 25.0 {
		t.Errorf("PerPassengerPrice(100, 4) = %v, want 25", got)
	}
	if got := PerPassengerPrice(100, 0); got != 100.0 {
		t.Errorf("PerPassengerPrice(100, 0) = %v, want the unchanged price", got)
	}
	if got := PerPassengerPrice(0, 3); got != 0.0 {
		t.Errorf("PerPassengerPrice(0, 3) = %v, want 0", got)
	}
}
