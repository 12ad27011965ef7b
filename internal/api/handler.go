package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"campus-services-backend/internal/auth"
	"campus-services-backend/internal/booking"
	"campus-services-backend/internal/maintenance"
	"campus-services-backend/internal/model"
	"campus-services-backend/internal/notification"
	"campus-services-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store         store.Store
	auth          *auth.Service
	bookings      *booking.Service
	maintenance   *maintenance.Service
	notifications *notification.Service
	webpush       *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(
	s store.Store,
	authSvc *auth.Service,
	bookingSvc *booking.Service,
	maintenanceSvc *maintenance.Service,
	notificationSvc *notification.Service,
	webpushOptions *webpush.Options,
) *Handler {
	return &Handler{
		store:         s,
		auth:          authSvc,
		bookings:      bookingSvc,
		maintenance:   maintenanceSvc,
		notifications: notificationSvc,
		webpush:       webpushOptions,
	}
}

// fail maps domain errors onto HTTP statuses and writes the error body.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, model.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrConflict),
		errors.Is(err, model.ErrInvalidTransition),
		errors.Is(err, model.ErrEmailTaken):
		status = http.StatusConflict
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
