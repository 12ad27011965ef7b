package model

import "time"

// Role determines which capabilities a user holds.
type Role string

const (
	RoleStudent  Role = "student"
	RoleLecturer Role = "lecturer"
	RoleAdmin    Role = "admin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleStudent, RoleLecturer, RoleAdmin:
		return true
	}
	return false
}

// User represents a registered campus user.
type User struct {
	ID           string `gorm:"primaryKey;size:36"`
	Name         string `gorm:"size:256;not null"`
	Email        string `gorm:"uniqueIndex;size:256;not null"`
	PasswordHash string `gorm:"size:128;not null"`
	Role         Role   `gorm:"size:16;not null"`
	AvatarURL    string `gorm:"size:512"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
