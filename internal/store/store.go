package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campus-services-backend/internal/model"
)

// Store defines the interface for all database operations. Every record is
// keyed by identity; status updates are conditional on the expected current
// status so concurrent transitions lose cleanly instead of overwriting.
type Store interface {
	DB() *gorm.DB

	CreateUser(ctx context.Context, u *model.User) error
	GetUser(ctx context.Context, id string) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)

	GetRoom(ctx context.Context, id string) (model.Room, error)
	ListRooms(ctx context.Context) ([]model.Room, error)

	CreateBooking(ctx context.Context, b *model.Booking) error
	GetBooking(ctx context.Context, id string) (model.Booking, error)
	ListBookings(ctx context.Context, filter BookingFilter) ([]model.Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, from, to model.BookingStatus) error

	CreateIssue(ctx context.Context, issue *model.MaintenanceIssue) error
	GetIssue(ctx context.Context, id string) (model.MaintenanceIssue, error)
	ListIssues(ctx context.Context, filter IssueFilter) ([]model.MaintenanceIssue, error)
	UpdateIssueStatus(ctx context.Context, id string, from, to model.IssueStatus, assigneeID *string, resolvedAt *time.Time) error

	CreateNotification(ctx context.Context, n *model.Notification) error
	GetNotification(ctx context.Context, id string) (model.Notification, error)
	ListNotifications(ctx context.Context, userID string) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context, userID string) error
	DeleteNotification(ctx context.Context, id string) error
	UnreadNotificationCount(ctx context.Context, userID string) (int64, error)

	CreateAnnouncement(ctx context.Context, a *model.Announcement) error
	ListAnnouncements(ctx context.Context, role model.Role, now time.Time) ([]model.Announcement, error)

	UpsertPushSubscription(ctx context.Context, sub *model.PushSubscription) error
	GetPushSubscription(ctx context.Context, endpoint string) (model.PushSubscription, error)
	ListPushSubscriptions(ctx context.Context, userID string) ([]model.PushSubscription, error)
	DeletePushSubscription(ctx context.Context, endpoint string) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying handle for read-only handler queries.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// CreateUser inserts a new user, failing when the email is already taken.
// The existence check and insert run in one transaction so two concurrent
// registrations with the same email cannot both succeed.
func (s *gormStore) CreateUser(ctx context.Context, u *model.User) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if count > 0 {
			return model.ErrEmailTaken
		}
		if err := tx.Create(u).Error; err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		return nil
	})
}

func (s *gormStore) GetUser(ctx context.Context, id string) (model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return model.User{}, translateNotFound(err, "user %s", id)
	}
	return u, nil
}

func (s *gormStore) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return model.User{}, translateNotFound(err, "user with email %s", email)
	}
	return u, nil
}

func (s *gormStore) GetRoom(ctx context.Context, id string) (model.Room, error) {
	var r model.Room
	if err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return model.Room{}, translateNotFound(err, "room %s", id)
	}
	return r, nil
}

func (s *gormStore) ListRooms(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	if err := s.db.WithContext(ctx).Order("building, floor, name").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

func (s *gormStore) UpsertPushSubscription(ctx context.Context, sub *model.PushSubscription) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth", "user_id"}),
	}).Create(sub).Error
}

func (s *gormStore) GetPushSubscription(ctx context.Context, endpoint string) (model.PushSubscription, error) {
	var sub model.PushSubscription
	if err := s.db.WithContext(ctx).First(&sub, "endpoint = ?", endpoint).Error; err != nil {
		return model.PushSubscription{}, translateNotFound(err, "subscription %s", endpoint)
	}
	return sub, nil
}

func (s *gormStore) ListPushSubscriptions(ctx context.Context, userID string) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("list subscriptions for user %s: %w", userID, err)
	}
	return subs, nil
}

func (s *gormStore) DeletePushSubscription(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error
}

// translateNotFound maps gorm's sentinel onto the domain's.
func translateNotFound(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf(format+": %w", append(args, model.ErrNotFound)...)
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
