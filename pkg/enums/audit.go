package enums

import "fmt"

// AuditAction names the admin operation recorded in the audit trail.
type AuditAction string

const (
	AuditActionCreate           AuditAction = "create"
	AuditActionUpdate           AuditAction = "update"
	AuditActionDelete           AuditAction = "delete"
	AuditActionStatusChange     AuditAction = "status_change"
	AuditActionVisibilityChange AuditAction = "visibility_change"
	AuditActionApprove          AuditAction = "approve"
	AuditActionReject           AuditAction = "reject"
)

var validAuditActions = []AuditAction{
	AuditActionCreate,
	AuditActionUpdate,
	AuditActionDelete,
	AuditActionStatusChange,
	AuditActionVisibilityChange,
	AuditActionApprove,
	AuditActionReject,
}

// String implements fmt.Stringer.
func (a AuditAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AuditAction.
func (a AuditAction) IsValid() bool {
	for _, candidate := range validAuditActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAuditAction converts raw input into a AuditAction.
func ParseAuditAction(value string) (AuditAction, error) {
	for _, candidate := range validAuditActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid audit action %q", value)
}

type AuditOutcome string

const (
	AuditOutcomeSuccess AuditOutcome = "success"
	AuditOutcomeFailure AuditOutcome = "failure"
)

var validAuditOutcomes = []AuditOutcome{
	AuditOutcomeSuccess,
	AuditOutcomeFailure,
}

// String implements fmt.Stringer.
func (a AuditOutcome) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AuditOutcome.
func (a AuditOutcome) IsValid() bool {
	for _, candidate := range validAuditOutcomes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAuditOutcome converts raw input into a AuditOutcome.
func ParseAuditOutcome(value string) (AuditOutcome, error) {
	for _, candidate := range validAuditOutcomes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid audit outcome %q", value)
}
