package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campus-services-backend/internal/auth"
	"campus-services-backend/internal/booking"
	"campus-services-backend/internal/model"
	"campus-services-backend/internal/mw"
	"campus-services-backend/internal/store"
)

// bookingResponse is the API representation of a booking.
type bookingResponse struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	UserID    string    `json:"user_id"`
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Purpose   string    `json:"purpose"`
	Attendees int       `json:"attendees"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toBookingResponse(b model.Booking) bookingResponse {
	return bookingResponse{
		ID:        b.ID,
		RoomID:    b.RoomID,
		UserID:    b.UserID,
		Date:      b.Date,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Purpose:   b.Purpose,
		Attendees: b.Attendees,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
	}
}

func toBookingResponses(bookings []model.Booking) []bookingResponse {
	responses := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		responses = append(responses, toBookingResponse(b))
	}
	return responses
}

type createBookingRequest struct {
	RoomID    string `json:"room_id" binding:"required"`
	Date      string `json:"date" binding:"required,isodate"`
	StartTime string `json:"start_time" binding:"required,hhmm"`
	EndTime   string `json:"end_time" binding:"required,hhmm"`
	Purpose   string `json:"purpose" binding:"required"`
	Attendees int    `json:"attendees" binding:"required,gt=0"`
}

// CreateBooking handles POST /api/bookings.
func (h *Handler) CreateBooking(c *gin.Context) {
	user, ok := mw.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.bookings.Create(c.Request.Context(), booking.CreateInput{
		RoomID:    req.RoomID,
		UserID:    user.ID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Purpose:   req.Purpose,
		Attendees: req.Attendees,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(b))
}

// GetMyBookings handles GET /api/bookings.
func (h *Handler) GetMyBookings(c *gin.Context) {
	user, ok := mw.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	bookings, err := h.bookings.ListForUser(c.Request.Context(), user.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponses(bookings))
}

// GetAllBookings handles GET /api/bookings/all?room=&date=&status=.
// Routed behind the view-all-bookings capability.
func (h *Handler) GetAllBookings(c *gin.Context) {
	filter := store.BookingFilter{
		RoomID: c.Query("room"),
		Date:   c.Query("date"),
	}
	if status := c.Query("status"); status != "" {
		filter.Statuses = []model.BookingStatus{model.BookingStatus(status)}
	}

	bookings, err := h.bookings.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponses(bookings))
}

// GetBooking handles GET /api/bookings/{booking_id}. The requester sees
// their own bookings; anyone with view-all-bookings sees every booking.
func (h *Handler) GetBooking(c *gin.Context) {
	user, ok := mw.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	b, err := h.bookings.Get(c.Request.Context(), c.Param("booking_id"))
	if err != nil {
		fail(c, err)
		return
	}
	if b.UserID != user.ID && !auth.Can(user.Role, auth.CapViewAllBookings) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

// ApproveBooking handles POST /api/bookings/{booking_id}/approve.
func (h *Handler) ApproveBooking(c *gin.Context) {
	h.transitionBooking(c, model.BookingApproved)
}

// RejectBooking handles POST /api/bookings/{booking_id}/reject.
func (h *Handler) RejectBooking(c *gin.Context) {
	h.transitionBooking(c, model.BookingRejected)
}

// CancelBooking handles POST /api/bookings/{booking_id}/cancel.
func (h *Handler) CancelBooking(c *gin.Context) {
	h.transitionBooking(c, model.BookingCancelled)
}

func (h *Handler) transitionBooking(c *gin.Context, to model.BookingStatus) {
	user, ok := mw.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	b, err := h.bookings.Transition(c.Request.Context(), c.Param("booking_id"), to, user)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}
