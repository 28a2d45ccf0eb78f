package guard

import (
	"time"

	"heritageportal/webfront/internal/routes"
	"heritageportal/webfront/internal/session"
)

const (
	BackNoticeDelay    = 3 * time.Second
	LandingNoticeDelay = 1500 * time.Millisecond

	HomeNotice = "Redirecting to Home Page"
)

// Requirement is the minimum role a protected view accepts.
type Requirement int

const (
	RequireLogin Requirement = iota
	RequirePrivileged
	RequireAdmin
	RequireSuperAdmin
)

func (r Requirement) String() string {
	switch r {
	case RequireLogin:
		return "login"
	case RequirePrivileged:
		return "privileged"
	case RequireAdmin:
		return "admin"
	case RequireSuperAdmin:
		return "super admin"
	default:
		return "unknown"
	}
}

// MetBy reports whether role satisfies r. RequireAdmin is exact: the admin
// dashboard is not shown to super admins.
func (r Requirement) MetBy(role session.Role) bool {
	switch r {
	case RequireLogin:
		return true
	case RequirePrivileged:
		return role.Privileged()
	case RequireAdmin:
		return role == session.RoleAdmin
	case RequireSuperAdmin:
		return role == session.RoleSuperAdmin
	default:
		return false
	}
}

type Decision struct {
	Allowed  bool
	Redirect string
}

func Allow() Decision { return Decision{Allowed: true} }

func RedirectTo(path string) Decision { return Decision{Redirect: path} }

// Protect gates on the login flag alone.
func Protect(st session.State) Decision {
	if !st.IsLoggedIn {
		return RedirectTo(routes.Home)
	}
	return Allow()
}

func Dispatch(st session.State, req Requirement) Decision {
	if !st.IsLoggedIn {
		return RedirectTo(routes.Home)
	}
	if !req.MetBy(st.Role) {
		return RedirectTo(routes.Forbidden)
	}
	return Allow()
}

// Evaluate runs the route guard and then the view's role check. It is
// called once per request before the view renders anything.
func Evaluate(st session.State, req Requirement) Decision {
	if d := Protect(st); !d.Allowed {
		return d
	}
	return Dispatch(st, req)
}

// ForbiddenView is the gate of the forbidden page itself: anonymous
// visitors are sent home, everyone else sees the page.
func ForbiddenView(st session.State) Decision {
	return Protect(st)
}

// Destination is a navigation target with an optional notice shown for
// Delay before the browser moves on.
type Destination struct {
	Path   string
	Notice string
	Delay  time.Duration
}

func (d Destination) Immediate() bool { return d.Delay == 0 }

// Back is the "back" button of admin screens.
func Back(role session.Role) Destination {
	switch role {
	case session.RoleSuperAdmin:
		return Destination{Path: routes.SuperDashboard}
	case session.RoleAdmin:
		return Destination{Path: routes.AdminDashboard}
	default:
		return Destination{Path: routes.Home, Notice: HomeNotice, Delay: BackNoticeDelay}
	}
}

// Landing picks where a fresh login goes. After a password reset the
// unprivileged branch shows a short notice first.
func Landing(role session.Role, afterReset bool) Destination {
	switch role {
	case session.RoleSuperAdmin:
		return Destination{Path: routes.SuperDashboard}
	case session.RoleAdmin:
		return Destination{Path: routes.AdminDashboard}
	}
	if afterReset {
		return Destination{Path: routes.Home, Notice: HomeNotice, Delay: LandingNoticeDelay}
	}
	return Destination{Path: routes.Home}
}
