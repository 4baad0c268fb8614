package enums

import "fmt"

// ContactType discriminates inbound inquiries.
type ContactType string

const (
	ContactTypePartnership ContactType = "partnership"
	ContactTypeTeacher     ContactType = "teacher"
	ContactTypeWorkshop    ContactType = "workshop"
)

var validContactTypes = []ContactType{
	ContactTypePartnership,
	ContactTypeTeacher,
	ContactTypeWorkshop,
}

// String implements fmt.Stringer.
func (c ContactType) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ContactType.
func (c ContactType) IsValid() bool {
	for _, candidate := range validContactTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseContactType converts raw input into a ContactType.
func ParseContactType(value string) (ContactType, error) {
	for _, candidate := range validContactTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid contact type %q", value)
}

// ContactTypes returns every contact type in declaration order.
func ContactTypes() []ContactType {
	return append([]ContactType(nil), validContactTypes...)
}

// ContactStatus tracks how far an inquiry has been handled.
type ContactStatus string

const (
	ContactStatusReceived  ContactStatus = "received"
	ContactStatusReviewing ContactStatus = "reviewing"
	ContactStatusCompleted ContactStatus = "completed"
)

var validContactStatuses = []ContactStatus{
	ContactStatusReceived,
	ContactStatusReviewing,
	ContactStatusCompleted,
}

// String implements fmt.Stringer.
func (c ContactStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ContactStatus.
func (c ContactStatus) IsValid() bool {
	for _, candidate := range validContactStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseContactStatus converts raw input into a ContactStatus.
func ParseContactStatus(value string) (ContactStatus, error) {
	for _, candidate := range validContactStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid contact status %q", value)
}

// ContactStatuses returns every contact status in declaration order.
func ContactStatuses() []ContactStatus {
	return append([]ContactStatus(nil), validContactStatuses...)
}
