package schedules

import (
	"strings"

	"github.com/evolutionflow/admin-bff/internal/lifecycle"
	"github.com/evolutionflow/admin-bff/pkg/backend"
	"github.com/evolutionflow/admin-bff/pkg/enums"
	"github.com/shopspring/decimal"
)

const unknownInstructor = "N/A"

// Schedule is a class or event offering. REGULAR classes make up the schedule
// board; every other class type is a trip or event.
type Schedule struct {
	ID                 string                 `json:"id"`
	ClassType          enums.ClassType        `json:"classType"`
	ClassName          string                 `json:"className"`
	InstructorName     string                 `json:"instructorName"`
	StartDate          string                 `json:"startDate"`
	EndDate            string                 `json:"endDate"`
	TimeInfo           string                 `json:"timeInfo"`
	Days               []string               `json:"days"`
	Capacity           int                    `json:"capacity"`
	CurrentApplicants  int                    `json:"currentApplicants"`
	Price              decimal.Decimal        `json:"price"`
	LocationInfo       string                 `json:"locationInfo"`
	ClassDesc          string                 `json:"classDesc"`
	ImageURL           string                 `json:"imageUrl,omitempty"`
	Status             enums.ScheduleStatus   `json:"status"`
	IsActive           bool                   `json:"isActive"`
	AllowedTransitions []enums.ScheduleStatus `json:"allowedTransitions"`
}

type upstreamInstructor struct {
	Name string `json:"name"`
}

// upstreamSchedule is the /schedules resource as the backend returns it.
type upstreamSchedule struct {
	ID                backend.ID           `json:"id"`
	Title             string               `json:"title"`
	ClassName         string               `json:"className"`
	Type              string               `json:"type"`
	ClassType         string               `json:"classType"`
	Instructor        *upstreamInstructor  `json:"instructor"`
	InstructorName    string               `json:"instructorName"`
	Date              string               `json:"date"`
	StartDate         string               `json:"startDate"`
	EndDate           string               `json:"endDate"`
	StartTime         string               `json:"startTime"`
	EndTime           string               `json:"endTime"`
	TimeInfo          string               `json:"timeInfo"`
	Days              []string             `json:"days"`
	Capacity          int                  `json:"capacity"`
	Enrolled          *int                 `json:"enrolled"`
	CurrentApplicants *int                 `json:"currentApplicants"`
	Price             decimal.Decimal      `json:"price"`
	LocationInfo      string               `json:"locationInfo"`
	ClassDesc         string               `json:"classDesc"`
	ImageURL          string               `json:"imageUrl"`
	Status            enums.ScheduleStatus `json:"status"`
	IsActive          bool                 `json:"isActive"`
}

func (u upstreamSchedule) toSchedule() Schedule {
	name := u.Title
	if name == "" {
		name = u.ClassName
	}
	rawType := u.Type
	if rawType == "" {
		rawType = u.ClassType
	}
	classType := enums.ClassTypeRegular
	if rawType != "" {
		classType = enums.ClassType(strings.ToUpper(rawType))
	}
	instructor := unknownInstructor
	switch {
	case u.Instructor != nil && u.Instructor.Name != "":
		instructor = u.Instructor.Name
	case u.InstructorName != "":
		instructor = u.InstructorName
	}
	applicants := 0
	switch {
	case u.Enrolled != nil:
		applicants = *u.Enrolled
	case u.CurrentApplicants != nil:
		applicants = *u.CurrentApplicants
	}
	datePart := datePrefix(u.Date)
	start := u.StartDate
	if datePart != "" {
		start = datePart
	}
	end := u.EndDate
	if end == "" {
		end = datePart
	}
	days := u.Days
	if days == nil {
		days = []string{}
	}
	timeInfo := u.TimeInfo
	if timeInfo == "" {
		timeInfo = u.StartTime + " - " + u.EndTime
	}
	return Schedule{
		ID:                 u.ID.String(),
		ClassType:          classType,
		ClassName:          name,
		InstructorName:     instructor,
		StartDate:          start,
		EndDate:            end,
		TimeInfo:           timeInfo,
		Days:               days,
		Capacity:           u.Capacity,
		CurrentApplicants:  applicants,
		Price:              u.Price,
		LocationInfo:       u.LocationInfo,
		ClassDesc:          u.ClassDesc,
		ImageURL:           u.ImageURL,
		Status:             u.Status,
		IsActive:           u.IsActive,
		AllowedTransitions: lifecycle.Schedule.Allowed(u.Status),
	}
}

func datePrefix(raw string) string {
	day, _, _ := strings.Cut(raw, "T")
	return day
}

// View selects which class types a listing shows.
type View string

const (
	ViewSchedules View = "schedules"
	ViewEvents    View = "events"
)

func (v View) includes(c enums.ClassType) bool {
	if v == ViewEvents {
		return c.IsEvent()
	}
	return c == enums.ClassTypeRegular
}

// Scope narrows a listing before the list pipeline runs. Month is YYYY-MM and is
// resolved by the backend.
type Scope struct {
	View  View
	Month string
}

// Input is the create form; on update nil fields are not sent.
type Input struct {
	Title          *string               `json:"title,omitempty" validate:"omitnil,notblank"`
	Type           *enums.ClassType      `json:"type,omitempty" validate:"omitnil,enum"`
	InstructorName *string               `json:"instructorName,omitempty"`
	StartDate      *string               `json:"startDate,omitempty" validate:"omitnil,notblank"`
	EndDate        *string               `json:"endDate,omitempty"`
	TimeInfo       *string               `json:"timeInfo,omitempty"`
	Days           *[]string             `json:"days,omitempty" validate:"omitnil,dive,weekday"`
	Capacity       *int                  `json:"capacity,omitempty" validate:"omitnil,min=0"`
	Price          *decimal.Decimal      `json:"price,omitempty" validate:"omitnil,min=0"`
	LocationInfo   *string               `json:"locationInfo,omitempty"`
	ClassDesc      *string               `json:"classDesc,omitempty"`
	ImageURL       *string               `json:"imageUrl,omitempty"`
	Status         *enums.ScheduleStatus `json:"status,omitempty" validate:"omitnil,enum"`
	IsActive       *bool                 `json:"isActive,omitempty"`
}
