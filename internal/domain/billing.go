package domain

import "time"

const nightLength = 24 * time.Hour

// Nights returns the number of billable nights for a stay, rounding any
// partial night up.
func Nights(checkIn, checkOut time.Time) int64 {
	d := checkOut.Sub(checkIn)
	n := int64(d / nightLength)
	if d%nightLength != 0 {
		n++
	}
	return n
}

// StayAmountCents computes the total cost of a stay: nights times the
// nightly rate, no other rounding. Evaluated once at creation; the stored
// amount is never recomputed afterwards.
func StayAmountCents(checkIn, checkOut time.Time, priceCents int64) int64 {
	return Nights(checkIn, checkOut) * priceCents
}
