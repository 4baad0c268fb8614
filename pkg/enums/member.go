package enums

import "fmt"

// MemberStatus is the lifecycle status of a platform member.
type MemberStatus string

const (
	MemberStatusActive    MemberStatus = "active"
	MemberStatusInactive  MemberStatus = "inactive"
	MemberStatusSuspended MemberStatus = "suspended"
)

var validMemberStatuses = []MemberStatus{
	MemberStatusActive,
	MemberStatusInactive,
	MemberStatusSuspended,
}

// String implements fmt.Stringer.
func (m MemberStatus) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MemberStatus.
func (m MemberStatus) IsValid() bool {
	for _, candidate := range validMemberStatuses {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMemberStatus converts raw input into a MemberStatus.
func ParseMemberStatus(value string) (MemberStatus, error) {
	for _, candidate := range validMemberStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid member status %q", value)
}

// MemberStatuses returns every member status in declaration order.
func MemberStatuses() []MemberStatus {
	return append([]MemberStatus(nil), validMemberStatuses...)
}

// MembershipLevel is the membership classification derived from the account role.
type MembershipLevel string

const (
	MembershipLevelGeneral    MembershipLevel = "general"
	MembershipLevelInstructor MembershipLevel = "instructor"
	MembershipLevelPremium    MembershipLevel = "premium"
)

var validMembershipLevels = []MembershipLevel{
	MembershipLevelGeneral,
	MembershipLevelInstructor,
	MembershipLevelPremium,
}

// String implements fmt.Stringer.
func (m MembershipLevel) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MembershipLevel.
func (m MembershipLevel) IsValid() bool {
	for _, candidate := range validMembershipLevels {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMembershipLevel converts raw input into a MembershipLevel.
func ParseMembershipLevel(value string) (MembershipLevel, error) {
	for _, candidate := range validMembershipLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid membership level %q", value)
}

// MembershipLevels returns every membership level in declaration order.
func MembershipLevels() []MembershipLevel {
	return append([]MembershipLevel(nil), validMembershipLevels...)
}
