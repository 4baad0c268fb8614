package audit

import (
	"time"

	"github.com/evolutionflow/admin-bff/pkg/enums"
)

// Resource names used in audit entries.
const (
	ResourceMember     = "member"
	ResourceInstructor = "instructor"
	ResourceWorkshop   = "workshop"
	ResourceSchedule   = "schedule"
	ResourceContact    = "contact"
	ResourceStudio     = "studio"
	ResourceRequest    = "request"
)

// Entry is one recorded admin action.
type Entry struct {
	ID         string             `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ActorID    string             `gorm:"not null;default:''" json:"actorId"`
	ActorEmail string             `gorm:"not null;default:''" json:"actorEmail"`
	Resource   string             `gorm:"not null" json:"resource"`
	ResourceID string             `gorm:"not null" json:"resourceId"`
	Action     enums.AuditAction  `gorm:"type:varchar(40);not null" json:"action"`
	FromValue  string             `gorm:"not null;default:''" json:"fromValue,omitempty"`
	ToValue    string             `gorm:"not null;default:''" json:"toValue,omitempty"`
	Outcome    enums.AuditOutcome `gorm:"type:varchar(20);not null" json:"outcome"`
	Error      string             `gorm:"not null;default:''" json:"error,omitempty"`
	CreatedAt  time.Time          `gorm:"not null" json:"createdAt"`
}

func (Entry) TableName() string { return "audit_entries" }

// Event describes an action about to be recorded. A non-nil Err marks it failed.
type Event struct {
	Resource   string
	ResourceID string
	Action     enums.AuditAction
	From       string
	To         string
	Err        error
}
