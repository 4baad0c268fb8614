package instructors

import (
	"strings"

	"github.com/evolutionflow/admin-bff/pkg/backend"
	"github.com/evolutionflow/admin-bff/pkg/enums"
)

// Instructor is a teacher profile keyed by its code.
type Instructor struct {
	Code                       string                  `json:"code"`
	UserID                     backend.ID              `json:"userId,omitempty"`
	Level                      enums.InstructorLevel   `json:"level"`
	Grade                      enums.InstructorGrade   `json:"grade"`
	Country                    enums.InstructorCountry `json:"country"`
	Name                       string                  `json:"name"`
	Tagline                    string                  `json:"tagline"`
	Career                     []string                `json:"career"`
	SNS                        enums.SNSPlatform       `json:"sns"`
	ImageURL                   string                  `json:"imageUrl,omitempty"`
	DetailImageURL             string                  `json:"detailImageUrl,omitempty"`
	PcSnsAndCareerColorIsWhite bool                    `json:"pcSnsAndCareerColorIsWhite"`
	IsActive                   bool                    `json:"isActive"`
	SortOrder                  int                     `json:"sortOrder"`
}

// CreateInput is the registration form of a new instructor.
type CreateInput struct {
	Code                       string                  `json:"code" validate:"notblank"`
	UserID                     string                  `json:"userId,omitempty"`
	Level                      enums.InstructorLevel   `json:"level" validate:"enum"`
	Grade                      enums.InstructorGrade   `json:"grade" validate:"enum"`
	Country                    enums.InstructorCountry `json:"country" validate:"enum"`
	Name                       string                  `json:"name" validate:"notblank"`
	Tagline                    string                  `json:"tagline"`
	Career                     []string                `json:"career"`
	SNS                        enums.SNSPlatform       `json:"sns" validate:"enum"`
	ImageURL                   string                  `json:"imageUrl,omitempty"`
	DetailImageURL             string                  `json:"detailImageUrl,omitempty"`
	PcSnsAndCareerColorIsWhite bool                    `json:"pcSnsAndCareerColorIsWhite"`
	IsActive                   bool                    `json:"isActive"`
	SortOrder                  int                     `json:"sortOrder"`
}

// UpdateInput is a partial edit; nil fields are not sent.
type UpdateInput struct {
	Level                      *enums.InstructorLevel   `json:"level,omitempty" validate:"omitnil,enum"`
	Grade                      *enums.InstructorGrade   `json:"grade,omitempty" validate:"omitnil,enum"`
	Country                    *enums.InstructorCountry `json:"country,omitempty" validate:"omitnil,enum"`
	Name                       *string                  `json:"name,omitempty" validate:"omitnil,notblank"`
	Tagline                    *string                  `json:"tagline,omitempty"`
	Career                     *[]string                `json:"career,omitempty"`
	SNS                        *enums.SNSPlatform       `json:"sns,omitempty" validate:"omitnil,enum"`
	ImageURL                   *string                  `json:"imageUrl,omitempty"`
	DetailImageURL             *string                  `json:"detailImageUrl,omitempty"`
	PcSnsAndCareerColorIsWhite *bool                    `json:"pcSnsAndCareerColorIsWhite,omitempty"`
	SortOrder                  *int                     `json:"sortOrder,omitempty"`
}

func (u UpdateInput) empty() bool {
	return u.Level == nil && u.Grade == nil && u.Country == nil && u.Name == nil && u.Tagline == nil &&
		u.Career == nil && u.SNS == nil && u.ImageURL == nil && u.DetailImageURL == nil &&
		u.PcSnsAndCareerColorIsWhite == nil && u.SortOrder == nil
}

// cleanCareer drops blank lines from the career list.
func cleanCareer(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
