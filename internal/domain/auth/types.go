package auth

// Package auth contains domain-level types for the client session and route access.
// It is pure and free of framework/adapter concerns.

import "strings"

// Role represents an application's authorization role.
// Keep string form so it round-trips through token claims unchanged.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleVisitor Role = "visitor"
)

// ParseRole normalizes a claim value into a Role.
// Anything other than "admin" is treated as a visitor.
func ParseRole(raw string) Role {
	if strings.EqualFold(strings.TrimSpace(raw), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleVisitor
}

// Identity is the in-memory projection of an authenticated principal,
// derived from Credential Token claims. ID, Name and Email may be empty.
type Identity struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// DisplayName returns the best label for the identity.
func (i Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	if i.Email != "" {
		return i.Email
	}
	return string(i.Role)
}

// Access is the pair of derived flags consulted at navigation time.
type Access struct {
	Authenticated bool
	Admin         bool
}
