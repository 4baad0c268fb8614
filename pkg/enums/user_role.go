package enums

import "fmt"

// UserRole is the platform account role reported by the backend.
type UserRole string

const (
	UserRoleMember     UserRole = "MEMBER"
	UserRoleInstructor UserRole = "INSTRUCTOR"
	UserRoleAdmin      UserRole = "ADMIN"
)

var validUserRoles = []UserRole{
	UserRoleMember,
	UserRoleInstructor,
	UserRoleAdmin,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}

// MembershipLevel derives the membership classification shown for an account role.
func (r UserRole) MembershipLevel() MembershipLevel {
	switch r {
	case UserRoleAdmin:
		return MembershipLevelPremium
	case UserRoleInstructor:
		return MembershipLevelInstructor
	default:
		return MembershipLevelGeneral
	}
}
