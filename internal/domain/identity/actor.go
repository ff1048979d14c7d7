package identity

import (
	"strings"

	"github.com/billmaster/backend/internal/domain/shared"
)

// Role is the coarse role an authenticated user holds
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// IsValid checks if the role is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// Actor identifies who performs an operation. It is supplied by the identity
// provider on every call and copied into audit entries.
type Actor struct {
	Email string
	Name  string
	Role  Role
}

// NewActor validates and builds an Actor
func NewActor(email, name string, role Role) (Actor, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return Actor{}, shared.NewDomainError("UNAUTHORIZED", "Actor email is required")
	}
	if !role.IsValid() {
		return Actor{}, shared.NewDomainError("UNAUTHORIZED", "Unknown role: "+string(role))
	}
	return Actor{Email: email, Name: strings.TrimSpace(name), Role: role}, nil
}

// IsAdmin reports whether the actor holds the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// DisplayName returns the name if set, otherwise the email
func (a Actor) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Email
}
