package session

import "strings"

// Durable storage keys.
const (
	KeyUsername    = "username"
	KeyAuthUserID  = "auth_user_id"
	KeyRole        = "role"
	KeyIsLoggedIn  = "isLoggedIn"
	KeyAccessToken = "access_token"
)

// User is the identity a successful login hands over. A nil AuthUserID
// is stored as absent, which leaves the session guest-like.
type User struct {
	Username   string
	AuthUserID *int64
	Role       Role
	Token      string
}

type State struct {
	Username   string
	AuthUserID *int64
	Role       Role
	IsLoggedIn bool
}

// Identified reports whether the session carries a complete identity.
// A logged-in session missing any of username, user id or role is
// guest-like and must not be offered write actions.
func (s State) Identified() bool {
	return s.IsLoggedIn &&
		strings.TrimSpace(s.Username) != "" &&
		s.AuthUserID != nil &&
		s.Role != RoleUnset
}

// CanManage reports whether content actions (edit, delete) may be shown.
func (s State) CanManage() bool {
	return s.Identified() && s.Role.Privileged()
}
