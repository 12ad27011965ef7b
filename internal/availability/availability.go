// Package availability decides whether a proposed booking interval
// conflicts with existing bookings. It is pure computation: no store
// access, no side effects, safe to call from concurrent requests.
package availability

import (
	"fmt"

	"campus-services-backend/internal/model"
	"campus-services-backend/internal/parse"
)

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// intersect. Operands are zero-padded "HH:MM" strings, so lexicographic
// comparison matches chronological order. The symmetric s1 < e2 && s2 < e1
// form handles abutting intervals (one ends exactly when the other starts)
// and full containment without special cases.
func Overlaps(s1, e1, s2, e2 string) bool {
	return s1 < e2 && s2 < e1
}

// IsAvailable reports whether the requested interval on roomID/date is free
// of conflicts among existing bookings. Bookings for other rooms or dates
// and bookings in a retired status (rejected, cancelled) are ignored.
// A malformed or empty interval yields a validation error.
func IsAvailable(existing []model.Booking, roomID, date, start, end string) (bool, error) {
	if err := parse.ValidateInterval(start, end); err != nil {
		return false, fmt.Errorf("%w: %v", model.ErrValidation, err)
	}
	if err := parse.ValidateDate(date); err != nil {
		return false, fmt.Errorf("%w: %v", model.ErrValidation, err)
	}

	for _, b := range existing {
		if b.RoomID != roomID || b.Date != date || b.Retired() {
			continue
		}
		if Overlaps(start, end, b.StartTime, b.EndTime) {
			return false, nil
		}
	}
	return true, nil
}
