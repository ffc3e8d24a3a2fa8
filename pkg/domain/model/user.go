package model

// UserInfo identifies the authenticated source-control user.
type UserInfo struct {
	Login string
	Name  string
	Email string
}

// DisplayName returns the profile name, falling back to the login.
func (u *UserInfo) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Login
}
