package enums

import "fmt"

// ScheduleStatus is the booking lifecycle of a class or event.
type ScheduleStatus string

const (
	ScheduleStatusOpen      ScheduleStatus = "OPEN"
	ScheduleStatusFull      ScheduleStatus = "FULL"
	ScheduleStatusWaitlist  ScheduleStatus = "WAITLIST"
	ScheduleStatusCancelled ScheduleStatus = "CANCELLED"
)

var validScheduleStatuses = []ScheduleStatus{
	ScheduleStatusOpen,
	ScheduleStatusFull,
	ScheduleStatusWaitlist,
	ScheduleStatusCancelled,
}

// String implements fmt.Stringer.
func (s ScheduleStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ScheduleStatus.
func (s ScheduleStatus) IsValid() bool {
	for _, candidate := range validScheduleStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseScheduleStatus converts raw input into a ScheduleStatus.
func ParseScheduleStatus(value string) (ScheduleStatus, error) {
	for _, candidate := range validScheduleStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid schedule status %q", value)
}

// ScheduleStatuses returns every schedule status in declaration order.
func ScheduleStatuses() []ScheduleStatus {
	return append([]ScheduleStatus(nil), validScheduleStatuses...)
}

// ClassType decides whether a schedule is listed under Schedules or Trip & Event.
type ClassType string

const (
	ClassTypeRegular  ClassType = "REGULAR"
	ClassTypeSpecial  ClassType = "SPECIAL"
	ClassTypeTTC      ClassType = "TTC"
	ClassTypeWorkshop ClassType = "WORKSHOP"
)

var validClassTypes = []ClassType{
	ClassTypeRegular,
	ClassTypeSpecial,
	ClassTypeTTC,
	ClassTypeWorkshop,
}

// String implements fmt.Stringer.
func (c ClassType) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ClassType.
func (c ClassType) IsValid() bool {
	for _, candidate := range validClassTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseClassType converts raw input into a ClassType.
func ParseClassType(value string) (ClassType, error) {
	for _, candidate := range validClassTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid class type %q", value)
}

// ClassTypes returns every class type in declaration order.
func ClassTypes() []ClassType {
	return append([]ClassType(nil), validClassTypes...)
}

// IsEvent reports whether the class type belongs to the Trip & Event listing.
func (c ClassType) IsEvent() bool {
	return c.IsValid() && c != ClassTypeRegular
}
