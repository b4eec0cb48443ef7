package constants

type StaffRole string

const (
	RoleOwner     StaffRole = "owner"
	RoleAdmin     StaffRole = "admin"
	RoleTreasurer StaffRole = "treasurer"
	RoleSecretary StaffRole = "secretary"
	RoleVolunteer StaffRole = "volunteer"
	RoleViewer    StaffRole = "viewer"
)

var StaffRoles = []StaffRole{
	RoleOwner,
	RoleAdmin,
	RoleTreasurer,
	RoleSecretary,
	RoleVolunteer,
	RoleViewer,
}

// AnnouncementAuthorRoles may create and publish announcements.
var AnnouncementAuthorRoles = []StaffRole{
	RoleOwner,
	RoleAdmin,
	RoleSecretary,
}

func IsValidStaffRole(role string) bool {
	for _, r := range StaffRoles {
		if string(r) == role {
			return true
		}
	}
	return false
}
