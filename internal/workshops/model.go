package workshops

import (
	"github.com/evolutionflow/admin-bff/internal/lifecycle"
	"github.com/evolutionflow/admin-bff/pkg/backend"
	"github.com/evolutionflow/admin-bff/pkg/enums"
	"github.com/shopspring/decimal"
)

const unknownInstructor = "N/A"

// Workshop is the admin view of a workshop offering.
type Workshop struct {
	ID                 string                 `json:"id"`
	Title              string                 `json:"title"`
	InstructorName     string                 `json:"instructorName"`
	Level              enums.WorkshopLevel    `json:"level"`
	StartDate          string                 `json:"startDate"`
	EndDate            string                 `json:"endDate"`
	TimeInfo           string                 `json:"timeInfo"`
	LocationInfo       string                 `json:"locationInfo"`
	Capacity           int                    `json:"capacity"`
	CurrentApplicants  int                    `json:"currentApplicants"`
	Price              decimal.Decimal        `json:"price"`
	Status             enums.WorkshopStatus   `json:"status"`
	ImageURL           string                 `json:"imageUrl,omitempty"`
	Category           enums.WorkshopCategory `json:"category"`
	Description        string                 `json:"description"`
	Notes              []string               `json:"notes"`
	RefundPolicy       string                 `json:"refundPolicy"`
	IsActive           bool                   `json:"isActive"`
	AllowedTransitions []enums.WorkshopStatus `json:"allowedTransitions"`
}

// Remaining seats; never negative even when the backend over-enrolls.
func (w Workshop) Remaining() int {
	if left := w.Capacity - w.CurrentApplicants; left > 0 {
		return left
	}
	return 0
}

type upstreamInstructor struct {
	Name string `json:"name"`
}

// upstreamWorkshop is the /workshops resource as the backend returns it.
type upstreamWorkshop struct {
	ID                backend.ID             `json:"id"`
	Title             string                 `json:"title"`
	InstructorName    string                 `json:"instructorName"`
	Instructor        *upstreamInstructor    `json:"instructor"`
	Level             enums.WorkshopLevel    `json:"level"`
	StartDate         string                 `json:"startDate"`
	EndDate           string                 `json:"endDate"`
	TimeInfo          string                 `json:"timeInfo"`
	LocationInfo      string                 `json:"locationInfo"`
	Capacity          int                    `json:"capacity"`
	Enrolled          *int                   `json:"enrolled"`
	CurrentApplicants *int                   `json:"currentApplicants"`
	Price             decimal.Decimal        `json:"price"`
	Status            enums.WorkshopStatus   `json:"status"`
	ImageURL          string                 `json:"imageUrl"`
	Category          enums.WorkshopCategory `json:"category"`
	Description       string                 `json:"description"`
	Notes             []string               `json:"notes"`
	RefundPolicy      string                 `json:"refundPolicy"`
	IsActive          bool                   `json:"isActive"`
}

func (u upstreamWorkshop) toWorkshop() Workshop {
	instructor := u.InstructorName
	if u.Instructor != nil && u.Instructor.Name != "" {
		instructor = u.Instructor.Name
	}
	if instructor == "" {
		instructor = unknownInstructor
	}
	applicants := 0
	switch {
	case u.Enrolled != nil:
		applicants = *u.Enrolled
	case u.CurrentApplicants != nil:
		applicants = *u.CurrentApplicants
	}
	notes := u.Notes
	if notes == nil {
		notes = []string{}
	}
	return Workshop{
		ID:                 u.ID.String(),
		Title:              u.Title,
		InstructorName:     instructor,
		Level:              u.Level,
		StartDate:          u.StartDate,
		EndDate:            u.EndDate,
		TimeInfo:           u.TimeInfo,
		LocationInfo:       u.LocationInfo,
		Capacity:           u.Capacity,
		CurrentApplicants:  applicants,
		Price:              u.Price,
		Status:             u.Status,
		ImageURL:           u.ImageURL,
		Category:           u.Category,
		Description:        u.Description,
		Notes:              notes,
		RefundPolicy:       u.RefundPolicy,
		IsActive:           u.IsActive,
		AllowedTransitions: lifecycle.Workshop.Allowed(u.Status),
	}
}

// Input is the create form; on update nil fields are not sent.
type Input struct {
	Title          *string                 `json:"title,omitempty" validate:"omitnil,notblank"`
	InstructorName *string                 `json:"instructorName,omitempty" validate:"omitnil,notblank"`
	Level          *enums.WorkshopLevel    `json:"level,omitempty" validate:"omitnil,enum"`
	StartDate      *string                 `json:"startDate,omitempty" validate:"omitnil,notblank"`
	EndDate        *string                 `json:"endDate,omitempty"`
	TimeInfo       *string                 `json:"timeInfo,omitempty"`
	LocationInfo   *string                 `json:"locationInfo,omitempty"`
	Capacity       *int                    `json:"capacity,omitempty" validate:"omitnil,min=0"`
	Price          *decimal.Decimal        `json:"price,omitempty" validate:"omitnil,min=0"`
	ImageURL       *string                 `json:"imageUrl,omitempty"`
	Category       *enums.WorkshopCategory `json:"category,omitempty" validate:"omitnil,enum"`
	Description    *string                 `json:"description,omitempty"`
	Notes          *[]string               `json:"notes,omitempty"`
	RefundPolicy   *string                 `json:"refundPolicy,omitempty"`
	IsActive       *bool                   `json:"isActive,omitempty"`
}
