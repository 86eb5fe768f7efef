package domain

import "time"

// HasConflict reports whether the candidate [checkIn, checkOut) interval
// overlaps any blocking reservation. Two half-open intervals overlap iff
// existing.CheckIn < candidate.CheckOut AND existing.CheckOut > candidate.CheckIn,
// so back-to-back stays (one checkout equal to the next check-in) never
// conflict, on either side of the boundary.
//
// excludeID lets an in-place update recheck ignore its own prior record;
// pass "" when creating. Reservations that no longer block (checked out or
// cancelled) are skipped even if the caller includes them.
func HasConflict(checkIn, checkOut time.Time, blocking []Reservation, excludeID string) bool {
	for _, r := range blocking {
		if excludeID != "" && r.ID == excludeID {
			continue
		}
		if !r.Blocks() {
			continue
		}
		if r.CheckIn.Before(checkOut) && r.CheckOut.After(checkIn) {
			return true
		}
	}
	return false
}
