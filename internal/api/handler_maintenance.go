package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campus-services-backend/internal/auth"
	"campus-services-backend/internal/maintenance"
	"campus-services-backend/internal/model"
	"campus-services-backend/internal/mw"
	"campus-services-backend/internal/store"
)

// issueResponse is the API representation of a maintenance issue.
type issueResponse struct {
	ID          string     `json:"id"`
	ReporterID  string     `json:"reporter_id"`
	RoomID      string     `json:"room_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	AssigneeID  *string    `json:"assignee_id,omitempty"`
	ReportedAt  time.Time  `json:"reported_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}

func toIssueResponse(issue model.MaintenanceIssue) issueResponse {
	return issueResponse{
		ID:          issue.ID,
		ReporterID:  issue.ReporterID,
		RoomID:      issue.RoomID,
		Title:       issue.Title,
		Description: issue.Description,
		Category:    string(issue.Category),
		Priority:    string(issue.Priority),
		Status:      string(issue.Status),
		AssigneeID:  issue.AssigneeID,
		ReportedAt:  issue.ReportedAt,
		ResolvedAt:  issue.ResolvedAt,
	}
}

type reportIssueRequest struct {
	RoomID      string `json:"room_id" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"required"`
	Priority    string `json:"priority" binding:"required"`
}

// ReportIssue handles POST /api/maintenance.
func (h *Handler) ReportIssue(c *gin.Context) {
	user, ok := mw.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req reportIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issue, err := h.maintenance.Report(c.Request.Context(), maintenance.ReportInput{
		ReporterID:  user.ID,
		RoomID:      req.RoomID,
		Title:       req.Title,
		Description: req.Description,
		Category:    model.IssueCategory(req.Category),
		Priority:    model.IssuePriority(req.Priority),
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toIssueResponse(issue))
}

// GetIssues handles GET /api/maintenance. Reporters see their own issues;
// anyone with manage-maintenance sees every issue.
func (h *Handler) GetIssues(c *gin.Context) {
	user, ok := mw.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	filter := store.IssueFilter{RoomID: c.Query("room")}
	if status := c.Query("status"); status != "" {
		filter.Statuses = []model.IssueStatus{model.IssueStatus(status)}
	}
	if !auth.Can(user.Role, auth.CapManageMaintenance) {
		filter.ReporterID = user.ID
	}

	issues, err := h.maintenance.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	responses := make([]issueResponse, 0, len(issues))
	for _, issue := range issues {
		responses = append(responses, toIssueResponse(issue))
	}
	c.JSON(http.StatusOK, responses)
}

// GetIssue handles GET /api/maintenance/{issue_id}.
func (h *Handler) GetIssue(c *gin.Context) {
	user, ok := mw.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	issue, err := h.maintenance.Get(c.Request.Context(), c.Param("issue_id"))
	if err != nil {
		fail(c, err)
		return
	}
	if issue.ReporterID != user.ID && !auth.Can(user.Role, auth.CapManageMaintenance) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		return
	}
	c.JSON(http.StatusOK, toIssueResponse(issue))
}

type updateIssueRequest struct {
	Status     string `json:"status" binding:"required"`
	AssigneeID string `json:"assignee_id"`
}

// UpdateIssueStatus handles PATCH /api/maintenance/{issue_id}/status.
func (h *Handler) UpdateIssueStatus(c *gin.Context) {
	user, ok := mw.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req updateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issue, err := h.maintenance.Transition(c.Request.Context(),
		c.Param("issue_id"), model.IssueStatus(req.Status), req.AssigneeID, user)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toIssueResponse(issue))
}
