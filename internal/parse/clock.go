package parse

import (
	"fmt"
	"regexp"
	"time"
)

var clockRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ValidClock reports whether s is a zero-padded 24-hour "HH:MM" string.
// Zero padding matters: booking intervals are compared lexicographically,
// which is only correct when every value has the same width.
func ValidClock(s string) bool {
	return clockRe.MatchString(s)
}

// ValidateInterval checks that start and end form a well-formed half-open
// interval [start, end) within a single day.
func ValidateInterval(start, end string) error {
	if !ValidClock(start) {
		return fmt.Errorf("start time %q is not a valid HH:MM value", start)
	}
	if !ValidClock(end) {
		return fmt.Errorf("end time %q is not a valid HH:MM value", end)
	}
	if start >= end {
		return fmt.Errorf("start time %q must be before end time %q", start, end)
	}
	return nil
}

// ValidateDate checks that s is a calendar date in "YYYY-MM-DD" form.
func ValidateDate(s string) error {
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("date %q is not a valid YYYY-MM-DD value", s)
	}
	return nil
}

// DayEnd returns the moment the given date's interval end has passed, in loc.
// Used by the sweeper to detect bookings whose slot is already over.
func DayEnd(date, endTime string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+endTime, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse %q %q: %w", date, endTime, err)
	}
	return t, nil
}
