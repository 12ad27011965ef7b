package auth

import "campus-services-backend/internal/model"

// Capability names an action a role may perform. Feature gating consults
// Can exclusively; role checks are never scattered through handlers.
type Capability string

const (
	CapManageBookings       Capability = "manage-bookings"
	CapViewAllBookings      Capability = "view-all-bookings"
	CapManageMaintenance    Capability = "manage-maintenance"
	CapPublishAnnouncements Capability = "publish-announcements"
)

var roleCapabilities = map[model.Role]map[Capability]bool{
	model.RoleStudent: {},
	model.RoleLecturer: {
		CapViewAllBookings: true,
	},
	model.RoleAdmin: {
		CapManageBookings:       true,
		CapViewAllBookings:      true,
		CapManageMaintenance:    true,
		CapPublishAnnouncements: true,
	},
}

// Can reports whether the role holds the capability.
func Can(role model.Role, cap Capability) bool {
	return roleCapabilities[role][cap]
}
