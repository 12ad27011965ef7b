package model

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingApproved  BookingStatus = "approved"
	BookingRejected  BookingStatus = "rejected"
	BookingCancelled BookingStatus = "cancelled"
)

// ActiveBookingStatuses are the states that block a room's time slot.
// Rejected and cancelled bookings are retired and never count against
// availability.
var ActiveBookingStatuses = []BookingStatus{BookingPending, BookingApproved}

// Booking represents a room reservation for a single date and a half-open
// time interval [StartTime, EndTime). Times are zero-padded "HH:MM" strings
// in 24-hour local time and compare lexicographically; Date is "YYYY-MM-DD".
// Bookings are never physically deleted, only retired via status.
type Booking struct {
	ID        string        `gorm:"primaryKey;size:36"`
	RoomID    string        `gorm:"index:idx_bookings_room_date;size:36;not null"`
	UserID    string        `gorm:"index;size:36;not null"`
	Date      string        `gorm:"index:idx_bookings_room_date;size:10;not null"`
	StartTime string        `gorm:"size:5;not null"`
	EndTime   string        `gorm:"size:5;not null"`
	Purpose   string        `gorm:"size:512;not null"`
	Attendees int           `gorm:"not null"`
	Status    BookingStatus `gorm:"size:16;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Associations
	Room Room `gorm:"constraint:OnDelete:CASCADE"`
}

// Retired reports whether the booking no longer occupies its slot.
func (b Booking) Retired() bool {
	return b.Status == BookingRejected || b.Status == BookingCancelled
}
