package domain

import (
	"fmt"
	"strings"
)

// Role is the closed set of roles a user may hold.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleSales   Role = "sales"
)

// DefaultRole is assigned when signup omits a role.
const DefaultRole = RoleSales

// ParseRole converts a raw string into a Role. An empty string yields
// DefaultRole; anything outside the enumeration is a validation error.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultRole, nil
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleManager:
		return RoleManager, nil
	case RoleSales:
		return RoleSales, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleSales:
		return true
	}
	return false
}

// CodePrefix returns the two-letter prefix used for human-readable user codes.
func (r Role) CodePrefix() string {
	switch r {
	case RoleAdmin:
		return "AA"
	case RoleManager:
		return "MM"
	case RoleSales:
		return "SS"
	}
	return ""
}

// FormatCode builds a user code such as SS007 from a role and its sequence number.
func FormatCode(r Role, seq int64) string {
	return fmt.Sprintf("%s%03d", r.CodePrefix(), seq)
}
