package enums

// ProfileRole mirrors user_profiles.role. Only admin unlocks the admin routes.
type ProfileRole string

const (
	ProfileRoleAdmin ProfileRole = "admin"
	ProfileRoleUser  ProfileRole = "user"
)

func (r ProfileRole) String() string {
	return string(r)
}

func (r ProfileRole) IsAdmin() bool {
	return r == ProfileRoleAdmin
}
