package domain_test

import (
	"testing"
	"time"

	"github.com/roomledger/roomledger/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func blockingReservation(id string, checkIn, checkOut time.Time) domain.Reservation {
	return domain.NewReservation(id, "CN-"+id, "r-1", "g-1", "g@example.com", checkIn, checkOut, 2, 0, "")
}

func TestHasConflict_Overlap(t *testing.T) {
	existing := []domain.Reservation{
		blockingReservation("a", day(2024, 3, 10), day(2024, 3, 15)),
	}

	cases := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     bool
	}{
		{"contained", day(2024, 3, 12), day(2024, 3, 14), true},
		{"straddles start", day(2024, 3, 8), day(2024, 3, 11), true},
		{"straddles end", day(2024, 3, 14), day(2024, 3, 18), true},
		{"covers whole", day(2024, 3, 9), day(2024, 3, 16), true},
		{"identical", day(2024, 3, 10), day(2024, 3, 15), true},
		{"before", day(2024, 3, 1), day(2024, 3, 5), false},
		{"after", day(2024, 3, 20), day(2024, 3, 25), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.HasConflict(tc.checkIn, tc.checkOut, existing, "")
			if got != tc.want {
				t.Errorf("HasConflict(%s, %s) = %v, want %v",
					tc.checkIn.Format("2006-01-02"), tc.checkOut.Format("2006-01-02"), got, tc.want)
			}
		})
	}
}

func TestHasConflict_BackToBackAllowed(t *testing.T) {
	// The boundary day is exclusive on both sides: a checkout and a later
	// check-in on the same day never collide.
	existing := []domain.Reservation{
		blockingReservation("a", day(2024, 3, 5), day(2024, 3, 10)),
	}

	if domain.HasConflict(day(2024, 3, 10), day(2024, 3, 14), existing, "") {
		t.Error("check-in on the existing checkout day should not conflict")
	}
	if domain.HasConflict(day(2024, 3, 1), day(2024, 3, 5), existing, "") {
		t.Error("checkout on the existing check-in day should not conflict")
	}
}

func TestHasConflict_ExcludeID(t *testing.T) {
	existing := []domain.Reservation{
		blockingReservation("a", day(2024, 3, 10), day(2024, 3, 15)),
	}

	// An in-place recheck ignores its own prior record.
	if domain.HasConflict(day(2024, 3, 11), day(2024, 3, 14), existing, "a") {
		t.Error("reservation should not conflict with itself when excluded")
	}
	if !domain.HasConflict(day(2024, 3, 11), day(2024, 3, 14), existing, "other") {
		t.Error("excluding an unrelated id should not mask the conflict")
	}
}

func TestHasConflict_NonBlockingIgnored(t *testing.T) {
	cancelled := blockingReservation("a", day(2024, 3, 10), day(2024, 3, 15))
	cancelled.Status = domain.ReservationCancelled
	checkedOut := blockingReservation("b", day(2024, 3, 10), day(2024, 3, 15))
	checkedOut.Status = domain.ReservationCheckedOut

	existing := []domain.Reservation{cancelled, checkedOut}

	if domain.HasConflict(day(2024, 3, 11), day(2024, 3, 14), existing, "") {
		t.Error("cancelled and checked-out reservations must never block")
	}
}
