package session

import "strings"

// Role is the closed set of roles the backend hands out at login.
type Role int

const (
	RoleUnset Role = iota
	RoleNone
	RoleAdmin
	RoleSuperAdmin
)

func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return RoleUnset, true
	case "none":
		return RoleNone, true
	case "admin":
		return RoleAdmin, true
	case "super admin":
		return RoleSuperAdmin, true
	default:
		return RoleUnset, false
	}
}

func (r Role) String() string {
	switch r {
	case RoleNone:
		return "none"
	case RoleAdmin:
		return "admin"
	case RoleSuperAdmin:
		return "super admin"
	default:
		return ""
	}
}

// Privileged reports whether the role carries any administrative rights.
// RoleNone and RoleUnset are both unprivileged.
func (r Role) Privileged() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// MarshalText and UnmarshalText give the wire string used in durable
// storage. An unknown string decodes to RoleUnset.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, _ := ParseRole(string(b))
	*r = parsed
	return nil
}
