package viewmodel

import "testing"

func TestUserDisplayName(t *testing.T) {
	tests := []struct {
		name string
		user *User
		want string
	}{
		{name: "nil", user: nil, want: ""},
		{name: "name wins", user: &User{Name: "Ada", Email: "ada@example.com"}, want: "Ada"},
		{name: "email fallback", user: &User{Email: "ada@example.com", Role: "admin"}, want: "ada@example.com"},
		{name: "role fallback", user: &User{Role: "visitor"}, want: "visitor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}
