package members

import (
	"time"

	"github.com/evolutionflow/admin-bff/internal/lifecycle"
	"github.com/evolutionflow/admin-bff/pkg/backend"
	"github.com/evolutionflow/admin-bff/pkg/enums"
)

// Member is the admin view of a platform user.
type Member struct {
	ID                  string                `json:"id"`
	Name                string                `json:"name"`
	Email               string                `json:"email"`
	Phone               string                `json:"phone,omitempty"`
	BirthDate           string                `json:"birthDate,omitempty"`
	Gender              string                `json:"gender,omitempty"`
	Interests           []string              `json:"interests,omitempty"`
	MarketingConsent    *bool                 `json:"marketingConsent,omitempty"`
	RegistrationDate    *time.Time            `json:"registrationDate"`
	LastLogin           *time.Time            `json:"lastLogin,omitempty"`
	MembershipLevel     enums.MembershipLevel `json:"membershipLevel"`
	Status              enums.MemberStatus    `json:"status"`
	ProfileCompleteness *int                  `json:"profileCompleteness,omitempty"`
	AllowedTransitions  []enums.MemberStatus  `json:"allowedTransitions"`
}

// upstreamUser is the /users resource as the backend returns it.
type upstreamUser struct {
	ID                  backend.ID `json:"id"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	Phone               string     `json:"phone"`
	BirthDate           string     `json:"birthDate"`
	Gender              string     `json:"gender"`
	Interests           []string   `json:"interests"`
	MarketingConsent    *bool      `json:"marketingConsent"`
	CreatedAt           string     `json:"createdAt"`
	LastLogin           string     `json:"lastLogin"`
	Role                string     `json:"role"`
	IsActive            bool       `json:"isActive"`
	Status              string     `json:"status"`
	ProfileCompleteness *int       `json:"profileCompleteness"`
}

func (u upstreamUser) toMember() Member {
	status := enums.MemberStatusInactive
	if u.IsActive {
		status = enums.MemberStatusActive
	}
	// suspension is only visible through an explicit status field
	if parsed, err := enums.ParseMemberStatus(u.Status); err == nil {
		status = parsed
	}
	return Member{
		ID:                  u.ID.String(),
		Name:                u.Name,
		Email:               u.Email,
		Phone:               u.Phone,
		BirthDate:           u.BirthDate,
		Gender:              u.Gender,
		Interests:           u.Interests,
		MarketingConsent:    u.MarketingConsent,
		RegistrationDate:    backend.ParseTime(u.CreatedAt),
		LastLogin:           backend.ParseTime(u.LastLogin),
		MembershipLevel:     enums.UserRole(u.Role).MembershipLevel(),
		Status:              status,
		ProfileCompleteness: u.ProfileCompleteness,
		AllowedTransitions:  lifecycle.Member.Allowed(status),
	}
}

// UpdateInput is a partial edit; nil fields are not sent.
type UpdateInput struct {
	Name             *string   `json:"name,omitempty" validate:"omitnil,notblank"`
	Phone            *string   `json:"phone,omitempty"`
	BirthDate        *string   `json:"birthDate,omitempty"`
	Gender           *string   `json:"gender,omitempty"`
	Interests        *[]string `json:"interests,omitempty"`
	MarketingConsent *bool     `json:"marketingConsent,omitempty"`
}

func (u UpdateInput) empty() bool {
	return u.Name == nil && u.Phone == nil && u.BirthDate == nil && u.Gender == nil && u.Interests == nil && u.MarketingConsent == nil
}

// ActivityLog is one entry of a member's activity history.
type ActivityLog struct {
	ID          backend.ID     `json:"id"`
	Type        string         `json:"type"`
	Description string         `json:"description"`
	Timestamp   string         `json:"timestamp"`
	Details     map[string]any `json:"details,omitempty"`
}

// ActivityPage is a server-paginated slice of activity logs.
type ActivityPage = backend.ListEnvelope[ActivityLog]

// Stats are the membership counters shown on the members page and dashboard.
type Stats struct {
	TotalMembers      int `json:"totalMembers"`
	ActiveMembers     int `json:"activeMembers"`
	InactiveMembers   int `json:"inactiveMembers"`
	SuspendedMembers  int `json:"suspendedMembers"`
	GeneralMembers    int `json:"generalMembers"`
	InstructorMembers int `json:"instructorMembers"`
	PremiumMembers    int `json:"premiumMembers"`
}
