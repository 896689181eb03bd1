package entity

import "strings"

// Role is the access level of a library account.
type Role string

const (
	// RoleUser is a library member who can reserve and review books.
	RoleUser Role = "user"
	// RoleAdmin is a librarian with catalog, member and report access.
	RoleAdmin Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ParseRole normalizes case and surrounding space; ok is false for unknown roles.
func ParseRole(s string) (role Role, ok bool) {
	role = Role(strings.ToLower(strings.TrimSpace(s)))

	return role, role.IsValid()
}

// Roles are the claims carried in an access token.
type Roles []Role

// ToStrings converts Roles to []string for JWT claims.
func (rs Roles) ToStrings() []string {
	result := make([]string, len(rs))
	for i, r := range rs {
		result[i] = r.String()
	}

	return result
}
