package entity

type LoginResult struct {
	AccessToken string
	RequiresOTP bool
	UserID      string
}

type AuthResult struct {
	User        User
	AccessToken string
}

// Profile is the bootstrap view of the signed-in user.
type Profile struct {
	User         User
	ActiveRoleID string
}

type RoleSwitch struct {
	Role        Role
	AccessToken string
}
