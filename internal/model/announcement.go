package model

import (
	"strings"
	"time"
)

// Announcement is a campus-wide message targeted at one or more roles.
type Announcement struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Title       string    `gorm:"size:256;not null"`
	Content     string    `gorm:"size:4096;not null"`
	AuthorID    string    `gorm:"size:36;not null"`
	Audience    string    `gorm:"size:128;not null"` // comma-separated roles
	Important   bool      `gorm:"not null"`
	PublishedAt time.Time `gorm:"index;not null"`
	ExpiresAt   *time.Time
}

// TargetsRole reports whether the announcement is addressed to the role.
func (a Announcement) TargetsRole(r Role) bool {
	for _, part := range strings.Split(a.Audience, ",") {
		if Role(strings.TrimSpace(part)) == r {
			return true
		}
	}
	return false
}

// AudienceOf joins roles into the stored audience representation.
func AudienceOf(roles ...Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}
