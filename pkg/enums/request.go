package enums

import "fmt"

// RequestKind identifies which submission inbox a request belongs to.
type RequestKind string

const (
	RequestKindTeacher  RequestKind = "teacher"
	RequestKindWorkshop RequestKind = "workshop"
	RequestKindSchedule RequestKind = "schedule"
)

var validRequestKinds = []RequestKind{
	RequestKindTeacher,
	RequestKindWorkshop,
	RequestKindSchedule,
}

// String implements fmt.Stringer.
func (k RequestKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known RequestKind.
func (k RequestKind) IsValid() bool {
	for _, candidate := range validRequestKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseRequestKind converts raw input into a RequestKind.
func ParseRequestKind(value string) (RequestKind, error) {
	for _, candidate := range validRequestKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid request kind %q", value)
}

// RequestKinds returns every request kind in declaration order.
func RequestKinds() []RequestKind {
	return append([]RequestKind(nil), validRequestKinds...)
}

// RequestStatus is the approval state of a submitted request.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

var validRequestStatuses = []RequestStatus{
	RequestStatusPending,
	RequestStatusApproved,
	RequestStatusRejected,
}

// String implements fmt.Stringer.
func (s RequestStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known RequestStatus.
func (s RequestStatus) IsValid() bool {
	for _, candidate := range validRequestStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseRequestStatus converts raw input into a RequestStatus.
func ParseRequestStatus(value string) (RequestStatus, error) {
	for _, candidate := range validRequestStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid request status %q", value)
}

// RequestStatuses returns every request status in declaration order.
func RequestStatuses() []RequestStatus {
	return append([]RequestStatus(nil), validRequestStatuses...)
}

// IsTerminal reports whether no further decision can be made on the request.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected
}
