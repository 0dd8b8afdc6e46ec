package auth

// Well-known navigation targets used by the route guard and the login flow.
const (
	LoginPath          = "/login"
	AdminLandingPath   = "/admin"
	VisitorLandingPath = "/visitor/home"
)

// Decision is the outcome of a route guard evaluation.
// Redirect is empty when Allow is true.
type Decision struct {
	Allow    bool
	Redirect string
}

// Outcome labels a decision for logs and metrics.
func (d Decision) Outcome() string {
	switch {
	case d.Allow:
		return "allow"
	case d.Redirect == LoginPath:
		return "redirect_login"
	default:
		return "redirect_landing"
	}
}

// Decide gates a navigation given the current access flags and whether the
// route requires the admin role.
func Decide(access Access, requireAdmin bool) Decision {
	if !access.Authenticated {
		return Decision{Redirect: LoginPath}
	}
	if requireAdmin && !access.Admin {
		return Decision{Redirect: VisitorLandingPath}
	}
	return Decision{Allow: true}
}

// LandingPath returns the default view after login for the given access.
func LandingPath(access Access) string {
	if access.Admin {
		return AdminLandingPath
	}
	return VisitorLandingPath
}
