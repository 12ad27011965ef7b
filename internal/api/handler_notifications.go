package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campus-services-backend/internal/model"
	"campus-services-backend/internal/mw"
)

// notificationResponse is the API representation of a notification.
type notificationResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Kind      string    `json:"kind"`
	Read      bool      `json:"read"`
	Link      string    `json:"link,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toNotificationResponse(n model.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Kind:      string(n.Kind),
		Read:      n.Read,
		Link:      n.Link,
		CreatedAt: n.CreatedAt,
	}
}

// GetNotifications handles GET /api/notifications.
func (h *Handler) GetNotifications(c *gin.Context) {
	user, ok := mw.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	notifications, err := h.notifications.ListForUser(c.Request.Context(), user.ID)
	if err != nil {
		fail(c, err)
		return
	}
	responses := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, toNotificationResponse(n))
	}
	c.JSON(http.StatusOK, responses)
}

// GetUnreadCount handles GET /api/notifications/unread_count.
func (h *Handler) GetUnreadCount(c *gin.Context) {
	user, ok := mw.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	count, err := h.notifications.UnreadCount(c.Request.Context(), user.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// MarkNotificationRead handles POST /api/notifications/{notification_id}/read.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	user, ok := mw.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	if !h.ownsNotification(c, user.ID) {
		return
	}
	if err := h.notifications.MarkRead(c.Request.Context(), c.Param("notification_id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllNotificationsRead handles POST /api/notifications/read_all.
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	user, ok := mw.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	if err := h.notifications.MarkAllRead(c.Request.Context(), user.ID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteNotification handles DELETE /api/notifications/{notification_id}.
func (h *Handler) DeleteNotification(c *gin.Context) {
	user, ok := mw.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	if !h.ownsNotification(c, user.ID) {
		return
	}
	if err := h.notifications.Delete(c.Request.Context(), c.Param("notification_id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ownsNotification verifies the addressed notification belongs to userID,
// writing the error response itself when it does not.
func (h *Handler) ownsNotification(c *gin.Context, userID string) bool {
	n, err := h.store.GetNotification(c.Request.Context(), c.Param("notification_id"))
	if err != nil {
		fail(c, err)
		return false
	}
	if n.UserID != userID {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		return false
	}
	return true
}
