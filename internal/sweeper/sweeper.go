// Package sweeper periodically retires pending bookings that have gone
// stale: requests nobody decided on within the configured TTL and
// requests whose time slot has already passed.
package sweeper

import (
	"context"
	"log"
	"time"

	"campus-services-backend/config"
	"campus-services-backend/internal/booking"
)

// Service runs the periodic sweep.
type Service struct {
	cfg      *config.Config
	bookings *booking.Service
	loc      *time.Location
}

// NewService creates the sweeper.
func NewService(cfg *config.Config, bookings *booking.Service) *Service {
	loc, err := time.LoadLocation(cfg.Sweeper.Timezone)
	if err != nil {
		log.Printf("Warning: invalid sweeper timezone %q: %v. Falling back to UTC.", cfg.Sweeper.Timezone, err)
		loc = time.UTC
	}
	return &Service{cfg: cfg, bookings: bookings, loc: loc}
}

// Run starts the sweep loop.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Sweeper.Enabled {
		log.Println("Booking sweeper is disabled. Not starting.")
		return
	}
	log.Println("Starting booking sweeper...")

	s.SweepOnce(ctx)

	timer := time.NewTimer(s.cfg.Sweeper.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Booking sweeper shutting down.")
			return
		case <-timer.C:
			s.SweepOnce(ctx)
			timer.Reset(s.cfg.Sweeper.Interval)
		}
	}
}

// SweepOnce performs a single sweep cycle.
func (s *Service) SweepOnce(ctx context.Context) {
	expired, err := s.bookings.ExpireStalePending(ctx, s.cfg.Sweeper.PendingTTL, s.loc)
	if err != nil {
		log.Printf("Sweep cycle failed: %v", err)
		return
	}
	if expired > 0 {
		log.Printf("Sweep cycle expired %d stale pending bookings", expired)
	}
}
