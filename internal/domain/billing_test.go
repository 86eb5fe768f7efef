package domain_test

import (
	"testing"
	"time"

	"github.com/roomledger/roomledger/internal/domain"
)

func TestNights(t *testing.T) {
	cases := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     int64
	}{
		{"three full nights", day(2024, 3, 10), day(2024, 3, 13), 3},
		{"one night", day(2024, 3, 10), day(2024, 3, 11), 1},
		{"partial night rounds up", day(2024, 3, 10), day(2024, 3, 11).Add(6 * time.Hour), 2},
		{"under one day rounds up", day(2024, 3, 10), day(2024, 3, 10).Add(5 * time.Hour), 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := domain.Nights(tc.checkIn, tc.checkOut); got != tc.want {
				t.Errorf("Nights = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestStayAmountCents(t *testing.T) {
	// 2024-03-10 to 2024-03-13 at 100.00/night is 3 nights, 300.00 total.
	got := domain.StayAmountCents(day(2024, 3, 10), day(2024, 3, 13), 10000)
	if got != 30000 {
		t.Errorf("StayAmountCents = %d, want 30000", got)
	}
}
