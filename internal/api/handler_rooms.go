package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campus-services-backend/internal/model"
)

// RoomResponse represents the API response for a single room.
type RoomResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Capacity   int      `json:"capacity"`
	Building   string   `json:"building"`
	Floor      int      `json:"floor"`
	Category   string   `json:"category"`
	Facilities []string `json:"facilities"`
	ImageURL   string   `json:"image,omitempty"`
}

func toRoomResponse(r model.Room) RoomResponse {
	return RoomResponse{
		ID:         r.ID,
		Name:       r.Name,
		Capacity:   r.Capacity,
		Building:   r.Building,
		Floor:      r.Floor,
		Category:   string(r.Category),
		Facilities: r.FacilityList(),
		ImageURL:   r.ImageURL,
	}
}

// GetRooms handles the GET /api/rooms request.
func GetRooms(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rooms []model.Room
		q := db.Order("building, floor, name")
		if category := c.Query("category"); category != "" {
			q = q.Where("category = ?", category)
		}
		if building := c.Query("building"); building != "" {
			q = q.Where("building = ?", building)
		}
		if err := q.Find(&rooms).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rooms"})
			return
		}

		responses := make([]RoomResponse, 0, len(rooms))
		for _, r := range rooms {
			responses = append(responses, toRoomResponse(r))
		}
		c.JSON(http.StatusOK, responses)
	}
}

// GetRoom handles the GET /api/rooms/{room_id} request.
func (h *Handler) GetRoom(c *gin.Context) {
	room, err := h.store.GetRoom(c.Request.Context(), c.Param("room_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toRoomResponse(room))
}

// GetRoomAvailability handles the
// GET /api/rooms/{room_id}/availability?date=&start=&end= request.
func (h *Handler) GetRoomAvailability(c *gin.Context) {
	roomID := c.Param("room_id")
	date := c.Query("date")
	start := c.Query("start")
	end := c.Query("end")

	if _, err := h.store.GetRoom(c.Request.Context(), roomID); err != nil {
		fail(c, err)
		return
	}

	available, err := h.bookings.CheckAvailability(c.Request.Context(), roomID, date, start, end)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"room_id":   roomID,
		"date":      date,
		"start":     start,
		"end":       end,
		"available": available,
	})
}
