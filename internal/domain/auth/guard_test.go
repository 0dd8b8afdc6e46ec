package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name         string
		access       Access
		requireAdmin bool
		want         Decision
	}{
		{
			name:   "anonymous on authenticated route",
			access: Access{},
			want:   Decision{Redirect: LoginPath},
		},
		{
			name:         "anonymous on admin route",
			access:       Access{},
			requireAdmin: true,
			want:         Decision{Redirect: LoginPath},
		},
		{
			name:   "anonymous with stray admin flag still goes to login",
			access: Access{Admin: true},
			want:   Decision{Redirect: LoginPath},
		},
		{
			name:   "visitor on authenticated route",
			access: Access{Authenticated: true},
			want:   Decision{Allow: true},
		},
		{
			name:   "admin on authenticated route",
			access: Access{Authenticated: true, Admin: true},
			want:   Decision{Allow: true},
		},
		{
			name:         "admin on admin route",
			access:       Access{Authenticated: true, Admin: true},
			requireAdmin: true,
			want:         Decision{Allow: true},
		},
		{
			name:         "visitor on admin route",
			access:       Access{Authenticated: true},
			requireAdmin: true,
			want:         Decision{Redirect: VisitorLandingPath},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.access, tt.requireAdmin))
		})
	}
}

func TestDecisionOutcome(t *testing.T) {
	assert.Equal(t, "allow", Decision{Allow: true}.Outcome())
	assert.Equal(t, "redirect_login", Decision{Redirect: LoginPath}.Outcome())
	assert.Equal(t, "redirect_landing", Decision{Redirect: VisitorLandingPath}.Outcome())
}

func TestLandingPath(t *testing.T) {
	assert.Equal(t, AdminLandingPath, LandingPath(Access{Authenticated: true, Admin: true}))
	assert.Equal(t, VisitorLandingPath, LandingPath(Access{Authenticated: true}))
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleAdmin, ParseRole(" Admin "))
	assert.Equal(t, RoleVisitor, ParseRole("visitor"))
	assert.Equal(t, RoleVisitor, ParseRole(""))
	assert.Equal(t, RoleVisitor, ParseRole("superuser"))
}

func TestIdentityDisplayName(t *testing.T) {
	assert.Equal(t, "Ada", Identity{Name: "Ada", Email: "ada@example.com"}.DisplayName())
	assert.Equal(t, "ada@example.com", Identity{Email: "ada@example.com"}.DisplayName())
	assert.Equal(t, "visitor", Identity{Role: RoleVisitor}.DisplayName())
}
