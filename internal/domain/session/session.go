// Package session carries the authenticated actor's identity and role set.
//
// A Session is constructed once per request (or per websocket connection)
// from validated JWT claims and passed explicitly to whatever needs it,
// most importantly the booking notification listener.
package session

import "github.com/google/uuid"

// Role is an application role
type Role string

const (
	RoleCustomer Role = "customer"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

// Session identifies the current actor.
type Session struct {
	UserID     uuid.UUID
	ProviderID uuid.NullUUID // set only for users with a provider profile
	Roles      []Role
}

// HasRole reports whether the actor holds the given role.
func (s Session) HasRole(role Role) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsProvider reports whether the actor holds the provider role.
func (s Session) IsProvider() bool {
	return s.HasRole(RoleProvider)
}

// IsAdmin reports whether the actor holds the admin role.
func (s Session) IsAdmin() bool {
	return s.HasRole(RoleAdmin)
}

// ParseRoles converts raw role strings, dropping unknown values.
func ParseRoles(raw []string) []Role {
	roles := make([]Role, 0, len(raw))
	for _, r := range raw {
		switch Role(r) {
		case RoleCustomer, RoleProvider, RoleAdmin:
			roles = append(roles, Role(r))
		}
	}
	return roles
}
