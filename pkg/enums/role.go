package enums

import (
	"fmt"
	"strings"
)

// Role is the staff role reported by the identity service.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
	RoleCashier Role = "cashier"
)

var validRoles = []Role{
	RoleAdmin,
	RoleManager,
	RoleStaff,
	RoleCashier,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// NormalizeRole lowercases and trims an upstream role label without validating it.
func NormalizeRole(value string) Role {
	return Role(strings.ToLower(strings.TrimSpace(value)))
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	role := NormalizeRole(value)
	if role.IsValid() {
		return role, nil
	}
	return "", fmt.Errorf("invalid role %q", value)
}
