package audit

import "testing"

func TestCheckSeatInvariants(t *testing.T) {
	cases := []struct {
		name          string
		seats         int
		originalSeats int
		reservations  int
		wantProblems  int
	}{
		{"Healthy", 2, 4, 2, 0},
		{"HealthyFull", 0, 3, 3, 0},
		{"NegativeSeats", -1, 1, 2, 1},
		{"SeatsAboveCapacity", 5, 4, 0, 1},
		{"CounterDriftedFromReservations", 3, 4, 0, 1},
		{"DecrementLostAfterInsert", 4, 4, 1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			problems := CheckSeatInvariants(tc.seats, tc.originalSeats, tc.reservations)
			if len(problems) != tc.wantProblems {
				t.Errorf("CheckSeatInvariants(%d, %d, %d) = %v, want %d problems",
					tc.seats, tc.originalSeats, tc.reservations, problems, tc.wantProblems)
			}
		})
	}
}
