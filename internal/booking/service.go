// Package booking manages the booking lifecycle: creation with a
// transactional availability check, and status transitions along the
// permitted edges.
package booking

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"campus-services-backend/internal/auth"
	"campus-services-backend/internal/availability"
	"campus-services-backend/internal/model"
	"campus-services-backend/internal/parse"
	"campus-services-backend/internal/store"
)

// Notifier delivers a notification to a user about a booking event.
type Notifier interface {
	Create(ctx context.Context, n *model.Notification) error
}

// allowedTransitions are the only permitted lifecycle edges. Rejected and
// cancelled are terminal; approved can only be cancelled.
var allowedTransitions = map[model.BookingStatus]map[model.BookingStatus]bool{
	model.BookingPending: {
		model.BookingApproved:  true,
		model.BookingRejected:  true,
		model.BookingCancelled: true,
	},
	model.BookingApproved: {
		model.BookingCancelled: true,
	},
}

// Service orchestrates booking creation and transitions.
type Service struct {
	store    store.Store
	notifier Notifier
	now      func() time.Time
}

// NewService wires the booking service. notifier may be nil.
func NewService(s store.Store, notifier Notifier) *Service {
	return &Service{store: s, notifier: notifier, now: time.Now}
}

// CreateInput carries a booking request from the requester.
type CreateInput struct {
	RoomID    string
	UserID    string
	Date      string
	StartTime string
	EndTime   string
	Purpose   string
	Attendees int
}

// Create validates the request and inserts a pending booking. The
// availability check runs again inside the insert transaction with the
// room serialized, so passing validation here is not a reservation.
func (s *Service) Create(ctx context.Context, input CreateInput) (model.Booking, error) {
	if strings.TrimSpace(input.RoomID) == "" || strings.TrimSpace(input.UserID) == "" {
		return model.Booking{}, fmt.Errorf("%w: room and requester are required", model.ErrValidation)
	}
	if strings.TrimSpace(input.Purpose) == "" {
		return model.Booking{}, fmt.Errorf("%w: purpose is required", model.ErrValidation)
	}
	if err := parse.ValidateDate(input.Date); err != nil {
		return model.Booking{}, fmt.Errorf("%w: %v", model.ErrValidation, err)
	}
	if err := parse.ValidateInterval(input.StartTime, input.EndTime); err != nil {
		return model.Booking{}, fmt.Errorf("%w: %v", model.ErrValidation, err)
	}
	if input.Attendees < 1 {
		return model.Booking{}, fmt.Errorf("%w: attendee count must be positive", model.ErrValidation)
	}

	room, err := s.store.GetRoom(ctx, input.RoomID)
	if err != nil {
		return model.Booking{}, err
	}
	if input.Attendees > room.Capacity {
		return model.Booking{}, fmt.Errorf("%w: %d attendees exceed capacity %d of room %s",
			model.ErrValidation, input.Attendees, room.Capacity, room.Name)
	}

	b := model.Booking{
		ID:        uuid.New().String(),
		RoomID:    input.RoomID,
		UserID:    input.UserID,
		Date:      input.Date,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Purpose:   strings.TrimSpace(input.Purpose),
		Attendees: input.Attendees,
		Status:    model.BookingPending,
	}
	if err := s.store.CreateBooking(ctx, &b); err != nil {
		return model.Booking{}, err
	}

	s.notify(ctx, b.UserID, "Booking request submitted",
		fmt.Sprintf("Your booking for %s on %s from %s to %s is awaiting approval.",
			room.Name, b.Date, b.StartTime, b.EndTime),
		model.NotifyInfo, b.ID)

	return b, nil
}

// Get returns a booking by id.
func (s *Service) Get(ctx context.Context, id string) (model.Booking, error) {
	return s.store.GetBooking(ctx, id)
}

// ListForUser returns the requester's own bookings.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]model.Booking, error) {
	return s.store.ListBookings(ctx, store.BookingFilter{UserID: userID})
}

// List returns bookings matching the filter.
func (s *Service) List(ctx context.Context, filter store.BookingFilter) ([]model.Booking, error) {
	return s.store.ListBookings(ctx, filter)
}

// CheckAvailability reports whether the requested slot is free right now.
// A positive answer is advisory only; Create re-checks transactionally.
func (s *Service) CheckAvailability(ctx context.Context, roomID, date, start, end string) (bool, error) {
	existing, err := s.store.ListBookings(ctx, store.BookingFilter{
		RoomID:   roomID,
		Date:     date,
		Statuses: model.ActiveBookingStatuses,
	})
	if err != nil {
		return false, err
	}
	return availability.IsAvailable(existing, roomID, date, start, end)
}

// Transition moves a booking along one of the permitted lifecycle edges on
// behalf of actor. Approval and rejection need the manage-bookings
// capability; cancellation is open to the requester and to managers.
func (s *Service) Transition(ctx context.Context, id string, to model.BookingStatus, actor model.User) (model.Booking, error) {
	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return model.Booking{}, err
	}

	switch to {
	case model.BookingApproved, model.BookingRejected:
		if !auth.Can(actor.Role, auth.CapManageBookings) {
			return model.Booking{}, fmt.Errorf("%s a booking: %w", to, model.ErrForbidden)
		}
	case model.BookingCancelled:
		if b.UserID != actor.ID && !auth.Can(actor.Role, auth.CapManageBookings) {
			return model.Booking{}, fmt.Errorf("cancel a booking: %w", model.ErrForbidden)
		}
	default:
		return model.Booking{}, fmt.Errorf("%w: unknown status %q", model.ErrValidation, to)
	}

	if !allowedTransitions[b.Status][to] {
		return model.Booking{}, fmt.Errorf("booking %s: %s -> %s: %w",
			b.ID, b.Status, to, model.ErrInvalidTransition)
	}

	if err := s.store.UpdateBookingStatus(ctx, b.ID, b.Status, to); err != nil {
		return model.Booking{}, err
	}
	b.Status = to

	title, message, kind := transitionNotice(b, to)
	s.notify(ctx, b.UserID, title, message, kind, b.ID)

	return b, nil
}

// ExpireStalePending rejects pending bookings that have either outlived
// ttl without a decision or whose slot has already passed. Returns the
// number of bookings expired.
func (s *Service) ExpireStalePending(ctx context.Context, ttl time.Duration, loc *time.Location) (int, error) {
	pending, err := s.store.ListBookings(ctx, store.BookingFilter{
		Statuses: []model.BookingStatus{model.BookingPending},
	})
	if err != nil {
		return 0, err
	}

	now := s.now()
	cutoff := now.Add(-ttl)
	expired := 0
	for _, b := range pending {
		stale := b.CreatedAt.Before(cutoff)
		if !stale {
			slotEnd, err := parse.DayEnd(b.Date, b.EndTime, loc)
			if err != nil {
				log.Printf("Skipping booking %s with unparseable slot: %v", b.ID, err)
				continue
			}
			stale = slotEnd.Before(now)
		}
		if !stale {
			continue
		}

		// A concurrent decision wins; skip quietly.
		if err := s.store.UpdateBookingStatus(ctx, b.ID, model.BookingPending, model.BookingRejected); err != nil {
			log.Printf("Could not expire booking %s: %v", b.ID, err)
			continue
		}
		expired++
		s.notify(ctx, b.UserID, "Booking request expired",
			fmt.Sprintf("Your booking request for %s from %s to %s was not approved in time and has been rejected.",
				b.Date, b.StartTime, b.EndTime),
			model.NotifyWarning, b.ID)
	}
	return expired, nil
}

func transitionNotice(b model.Booking, to model.BookingStatus) (title, message string, kind model.NotificationKind) {
	slot := fmt.Sprintf("%s from %s to %s", b.Date, b.StartTime, b.EndTime)
	switch to {
	case model.BookingApproved:
		return "Booking approved", fmt.Sprintf("Your booking for %s has been approved.", slot), model.NotifySuccess
	case model.BookingRejected:
		return "Booking rejected", fmt.Sprintf("Your booking for %s has been rejected.", slot), model.NotifyError
	default:
		return "Booking cancelled", fmt.Sprintf("Your booking for %s has been cancelled.", slot), model.NotifyInfo
	}
}

func (s *Service) notify(ctx context.Context, userID, title, message string, kind model.NotificationKind, bookingID string) {
	if s.notifier == nil {
		return
	}
	n := model.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Kind:    kind,
		Link:    "/bookings/" + bookingID,
	}
	if err := s.notifier.Create(ctx, &n); err != nil {
		log.Printf("Failed to notify user %s about booking %s: %v", userID, bookingID, err)
	}
}
