package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"campus-services-backend/internal/model"
	"campus-services-backend/internal/mw"
)

// announcementResponse is the API representation of an announcement.
type announcementResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	AuthorID    string     `json:"author_id"`
	Audience    []string   `json:"audience"`
	Important   bool       `json:"important"`
	PublishedAt time.Time  `json:"published_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

func toAnnouncementResponse(a model.Announcement) announcementResponse {
	return announcementResponse{
		ID:          a.ID,
		Title:       a.Title,
		Content:     a.Content,
		AuthorID:    a.AuthorID,
		Audience:    strings.Split(a.Audience, ","),
		Important:   a.Important,
		PublishedAt: a.PublishedAt,
		ExpiresAt:   a.ExpiresAt,
	}
}

// GetAnnouncements handles GET /api/announcements, returning active
// announcements addressed to the caller's role.
func (h *Handler) GetAnnouncements(c *gin.Context) {
	user, ok := mw.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	announcements, err := h.store.ListAnnouncements(c.Request.Context(), user.Role, time.Now().UTC())
	if err != nil {
		fail(c, err)
		return
	}
	responses := make([]announcementResponse, 0, len(announcements))
	for _, a := range announcements {
		responses = append(responses, toAnnouncementResponse(a))
	}
	c.JSON(http.StatusOK, responses)
}

type createAnnouncementRequest struct {
	Title     string     `json:"title" binding:"required"`
	Content   string     `json:"content" binding:"required"`
	Audience  []string   `json:"audience" binding:"required,min=1"`
	Important bool       `json:"important"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// CreateAnnouncement handles POST /api/announcements. Routed behind the
// publish-announcements capability.
func (h *Handler) CreateAnnouncement(c *gin.Context) {
	user, ok := mw.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req createAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	roles := make([]model.Role, 0, len(req.Audience))
	for _, raw := range req.Audience {
		role := model.Role(strings.TrimSpace(raw))
		if !model.ValidRole(role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown audience role: " + raw})
			return
		}
		roles = append(roles, role)
	}

	a := model.Announcement{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(req.Title),
		Content:     req.Content,
		AuthorID:    user.ID,
		Audience:    model.AudienceOf(roles...),
		Important:   req.Important,
		PublishedAt: time.Now().UTC(),
		ExpiresAt:   req.ExpiresAt,
	}
	if err := h.store.CreateAnnouncement(c.Request.Context(), &a); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAnnouncementResponse(a))
}
