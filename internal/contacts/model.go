package contacts

import (
	"time"

	"github.com/evolutionflow/admin-bff/internal/lifecycle"
	"github.com/evolutionflow/admin-bff/pkg/backend"
	"github.com/evolutionflow/admin-bff/pkg/enums"
)

// Contact is an inquiry submitted through the public contact forms.
type Contact struct {
	ID                 string                `json:"id"`
	ContactType        enums.ContactType     `json:"contactType"`
	Company            string                `json:"company"`
	Department         string                `json:"department,omitempty"`
	Position           string                `json:"position,omitempty"`
	Name               string                `json:"name"`
	Phone              string                `json:"phone"`
	Email              string                `json:"email"`
	Message            string                `json:"message"`
	Status             enums.ContactStatus   `json:"status"`
	CreatedAt          *time.Time            `json:"createdAt,omitempty"`
	AllowedTransitions []enums.ContactStatus `json:"allowedTransitions"`
}

type upstreamContact struct {
	ID          backend.ID          `json:"id"`
	ContactType enums.ContactType   `json:"contactType"`
	Company     string              `json:"company"`
	Department  string              `json:"department"`
	Position    string              `json:"position"`
	Name        string              `json:"name"`
	Phone       string              `json:"phone"`
	Email       string              `json:"email"`
	Message     string              `json:"message"`
	Status      enums.ContactStatus `json:"status"`
	CreatedAt   string              `json:"createdAt"`
}

func (u upstreamContact) toContact() Contact {
	status := u.Status
	if status == "" {
		status = enums.ContactStatusReceived
	}
	return Contact{
		ID:                 u.ID.String(),
		ContactType:        u.ContactType,
		Company:            u.Company,
		Department:         u.Department,
		Position:           u.Position,
		Name:               u.Name,
		Phone:              u.Phone,
		Email:              u.Email,
		Message:            u.Message,
		Status:             status,
		CreatedAt:          backend.ParseTime(u.CreatedAt),
		AllowedTransitions: lifecycle.Contact.Allowed(status),
	}
}

// View selects which inquiries a listing shows.
type View string

const (
	ViewInquiries    View = "inquiries"
	ViewPartnerships View = "partnerships"
)
