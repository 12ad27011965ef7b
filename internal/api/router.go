package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"campus-services-backend/config"
	"campus-services-backend/internal/auth"
	"campus-services-backend/internal/mw"
	"campus-services-backend/internal/parse"
)

// registerValidations installs the booking time-format validations into
// gin's binding validator.
func registerValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return parse.ValidClock(fl.Field().String())
	})
	v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		return parse.ValidateDate(fl.Field().String()) == nil
	})
}

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, authSvc *auth.Service, cfg *config.ServerConfig) *gin.Engine {
	registerValidations()

	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	// Rooms are identical for every caller; announcements vary by role, so
	// the role is folded into the cache key.
	roomCache := mw.Cache(cacheStore, cacheTTL, mw.URIKey)
	announcementCache := mw.Cache(cacheStore, cacheTTL, func(c *gin.Context) string {
		user, ok := mw.CurrentUser(c)
		if !ok {
			return ""
		}
		return string(user.Role) + "|" + c.Request.RequestURI
	})

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)

		authed := api.Group("")
		authed.Use(mw.Auth(authSvc))
		{
			authed.GET("/rooms", roomCache, GetRooms(h.store.DB()))
			authed.GET("/rooms/:room_id", h.GetRoom)
			authed.GET("/rooms/:room_id/availability", h.GetRoomAvailability)

			authed.POST("/bookings", h.CreateBooking)
			authed.GET("/bookings", h.GetMyBookings)
			authed.GET("/bookings/all", mw.RequireCapability(auth.CapViewAllBookings), h.GetAllBookings)
			authed.GET("/bookings/:booking_id", h.GetBooking)
			authed.POST("/bookings/:booking_id/approve", h.ApproveBooking)
			authed.POST("/bookings/:booking_id/reject", h.RejectBooking)
			authed.POST("/bookings/:booking_id/cancel", h.CancelBooking)

			authed.POST("/maintenance", h.ReportIssue)
			authed.GET("/maintenance", h.GetIssues)
			authed.GET("/maintenance/:issue_id", h.GetIssue)
			authed.PATCH("/maintenance/:issue_id/status", h.UpdateIssueStatus)

			authed.GET("/notifications", h.GetNotifications)
			authed.GET("/notifications/unread_count", h.GetUnreadCount)
			authed.POST("/notifications/read_all", h.MarkAllNotificationsRead)
			authed.POST("/notifications/:notification_id/read", h.MarkNotificationRead)
			authed.DELETE("/notifications/:notification_id", h.DeleteNotification)

			authed.GET("/announcements", announcementCache, h.GetAnnouncements)
			authed.POST("/announcements", mw.RequireCapability(auth.CapPublishAnnouncements), h.CreateAnnouncement)

			authed.GET("/subscriptions", h.GetSubscriptions)
			authed.PUT("/subscriptions", h.PutSubscription)
			authed.DELETE("/subscriptions", h.DeleteSubscription)
		}
	}

	return r
}
