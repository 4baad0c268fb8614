package enums

import "fmt"

// StudioStatus is the operating state of a studio.
type StudioStatus string

const (
	StudioStatusActive      StudioStatus = "active"
	StudioStatusInactive    StudioStatus = "inactive"
	StudioStatusMaintenance StudioStatus = "maintenance"
)

var validStudioStatuses = []StudioStatus{
	StudioStatusActive,
	StudioStatusInactive,
	StudioStatusMaintenance,
}

// String implements fmt.Stringer.
func (s StudioStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StudioStatus.
func (s StudioStatus) IsValid() bool {
	for _, candidate := range validStudioStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStudioStatus converts raw input into a StudioStatus.
func ParseStudioStatus(value string) (StudioStatus, error) {
	for _, candidate := range validStudioStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid studio status %q", value)
}

// StudioStatuses returns every studio status in declaration order.
func StudioStatuses() []StudioStatus {
	return append([]StudioStatus(nil), validStudioStatuses...)
}
