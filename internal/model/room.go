package model

import (
	"strings"
	"time"
)

// RoomCategory classifies what a room is used for.
type RoomCategory string

const (
	RoomClassroom RoomCategory = "classroom"
	RoomMeeting   RoomCategory = "meeting"
	RoomLab       RoomCategory = "lab"
	RoomStudy     RoomCategory = "study"
)

// Room represents a bookable campus room. Reference data, not mutated by
// any request flow.
type Room struct {
	ID         string       `gorm:"primaryKey;size:36"`
	Name       string       `gorm:"size:256;not null"`
	Capacity   int          `gorm:"not null"`
	Building   string       `gorm:"size:128;not null"`
	Floor      int          `gorm:"not null"`
	Category   RoomCategory `gorm:"size:32;not null"`
	Facilities string       `gorm:"size:1024"` // comma-separated
	ImageURL   string       `gorm:"size:512"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FacilityList splits the stored facilities string into its parts.
func (r Room) FacilityList() []string {
	if r.Facilities == "" {
		return nil
	}
	parts := strings.Split(r.Facilities, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
