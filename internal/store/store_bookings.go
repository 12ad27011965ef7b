package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campus-services-backend/internal/availability"
	"campus-services-backend/internal/model"
)

// BookingFilter narrows ListBookings queries.
type BookingFilter struct {
	RoomID        string
	UserID        string
	Date          string
	Statuses      []model.BookingStatus
	CreatedBefore *time.Time
}

// CreateBooking inserts a new booking after re-running the availability
// check inside the insert transaction. The room row is locked for the
// duration of the transaction, serializing creation per room so two
// concurrent requests for overlapping intervals cannot both pass the check.
func (s *gormStore) CreateBooking(ctx context.Context, b *model.Booking) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// SQLite has no FOR UPDATE; its writers are serialized anyway.
		roomQuery := tx
		if tx.Dialector.Name() != "sqlite" {
			roomQuery = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var room model.Room
		if err := roomQuery.First(&room, "id = ?", b.RoomID).Error; err != nil {
			return translateNotFound(err, "room %s", b.RoomID)
		}

		var existing []model.Booking
		if err := tx.Where("room_id = ? AND date = ? AND status IN ?",
			b.RoomID, b.Date, model.ActiveBookingStatuses).
			Find(&existing).Error; err != nil {
			return fmt.Errorf("list bookings for room %s: %w", b.RoomID, err)
		}

		free, err := availability.IsAvailable(existing, b.RoomID, b.Date, b.StartTime, b.EndTime)
		if err != nil {
			return err
		}
		if !free {
			return fmt.Errorf("room %s on %s [%s, %s): %w",
				b.RoomID, b.Date, b.StartTime, b.EndTime, model.ErrConflict)
		}

		if err := tx.Create(b).Error; err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}
		return nil
	})
}

func (s *gormStore) GetBooking(ctx context.Context, id string) (model.Booking, error) {
	var b model.Booking
	if err := s.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return model.Booking{}, translateNotFound(err, "booking %s", id)
	}
	return b, nil
}

func (s *gormStore) ListBookings(ctx context.Context, filter BookingFilter) ([]model.Booking, error) {
	q := s.db.WithContext(ctx).Model(&model.Booking{})
	if filter.RoomID != "" {
		q = q.Where("room_id = ?", filter.RoomID)
	}
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Date != "" {
		q = q.Where("date = ?", filter.Date)
	}
	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}
	if filter.CreatedBefore != nil {
		q = q.Where("created_at < ?", *filter.CreatedBefore)
	}

	var bookings []model.Booking
	if err := q.Order("date, start_time").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// UpdateBookingStatus moves a booking from one status to another with a
// conditional UPDATE. When the row is no longer in the expected status the
// update affects nothing and the caller gets ErrInvalidTransition, which is
// how a concurrent transition loses.
func (s *gormStore) UpdateBookingStatus(ctx context.Context, id string, from, to model.BookingStatus) error {
	res := s.db.WithContext(ctx).Model(&model.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return fmt.Errorf("update booking %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.WithContext(ctx).Model(&model.Booking{}).
			Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("update booking %s: %w", id, err)
		}
		if count == 0 {
			return fmt.Errorf("booking %s: %w", id, model.ErrNotFound)
		}
		return fmt.Errorf("booking %s is no longer %s: %w", id, from, model.ErrInvalidTransition)
	}
	return nil
}
