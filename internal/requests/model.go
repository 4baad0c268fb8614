package requests

import (
	"encoding/json"
	"time"

	"github.com/evolutionflow/admin-bff/internal/lifecycle"
	"github.com/evolutionflow/admin-bff/pkg/backend"
	"github.com/evolutionflow/admin-bff/pkg/enums"
	"github.com/shopspring/decimal"
)

// User is the account that submitted a request.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Fields is the kind-specific part of a request.
type Fields interface {
	Kind() enums.RequestKind
	searchText() []string
}

// TeacherFields is an instructor application.
type TeacherFields struct {
	Name         string `json:"name"`
	BirthDate    string `json:"birthDate,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	SNSURL       string `json:"snsUrl,omitempty"`
	Experience   string `json:"experience,omitempty"`
	Introduction string `json:"introduction,omitempty"`
	ProfilePhoto string `json:"profilePhoto,omitempty"`
}

func (TeacherFields) Kind() enums.RequestKind { return enums.RequestKindTeacher }

func (f TeacherFields) searchText() []string { return []string{f.Name, f.Email} }

// WorkshopFields is a workshop proposal.
type WorkshopFields struct {
	Title          string          `json:"title"`
	InstructorName string          `json:"instructorName"`
	Date           string          `json:"date,omitempty"`
	Time           string          `json:"time,omitempty"`
	Price          decimal.Decimal `json:"price"`
	Capacity       int             `json:"capacity"`
	Description    string          `json:"description,omitempty"`
	Thumbnail      string          `json:"thumbnail,omitempty"`
}

func (WorkshopFields) Kind() enums.RequestKind { return enums.RequestKindWorkshop }

func (f WorkshopFields) searchText() []string { return []string{f.Title, f.InstructorName} }

// ScheduleFields is a class or event proposal.
type ScheduleFields struct {
	ClassType      string `json:"classType"`
	ClassName      string `json:"className"`
	InstructorName string `json:"instructorName"`
	StartDate      string `json:"startDate,omitempty"`
	TimeInfo       string `json:"timeInfo,omitempty"`
	Capacity       int    `json:"capacity"`
	LocationInfo   string `json:"locationInfo,omitempty"`
	ClassDesc      string `json:"classDesc,omitempty"`
	ClassImage     string `json:"classImage,omitempty"`
}

func (ScheduleFields) Kind() enums.RequestKind { return enums.RequestKindSchedule }

func (f ScheduleFields) searchText() []string { return []string{f.ClassName, f.InstructorName} }

// Request is one submission in the approval inbox.
type Request struct {
	ID                 string                `json:"id"`
	Kind               enums.RequestKind     `json:"kind"`
	Status             enums.RequestStatus   `json:"status"`
	CreatedAt          *time.Time            `json:"createdAt,omitempty"`
	User               User                  `json:"user"`
	Fields             Fields                `json:"fields"`
	AllowedTransitions []enums.RequestStatus `json:"allowedTransitions"`
}

// Decision is the outcome of an approve or reject call.
type Decision struct {
	Request Request `json:"request"`
	Message string  `json:"message,omitempty"`
	// MaterializedID is the id of the workshop, schedule or instructor the
	// backend created on approval, when it reports one.
	MaterializedID string `json:"materializedId,omitempty"`
}

type upstreamUser struct {
	ID    backend.ID `json:"id"`
	Email string     `json:"email"`
	Name  string     `json:"name"`
}

type upstreamHeader struct {
	ID        backend.ID          `json:"id"`
	UserID    backend.ID          `json:"userId"`
	Status    enums.RequestStatus `json:"status"`
	CreatedAt string              `json:"createdAt"`
	User      *upstreamUser       `json:"user"`
}

func decodeRequest(kind enums.RequestKind, raw json.RawMessage, fields func(json.RawMessage) (Fields, error)) (Request, error) {
	var head upstreamHeader
	if err := json.Unmarshal(raw, &head); err != nil {
		return Request{}, err
	}
	payload, err := fields(raw)
	if err != nil {
		return Request{}, err
	}
	user := User{ID: head.UserID.String()}
	if head.User != nil {
		user = User{ID: head.User.ID.String(), Email: head.User.Email, Name: head.User.Name}
		if user.ID == "" {
			user.ID = head.UserID.String()
		}
	}
	status := head.Status
	if status == "" {
		status = enums.RequestStatusPending
	}
	return Request{
		ID:                 head.ID.String(),
		Kind:               kind,
		Status:             status,
		CreatedAt:          backend.ParseTime(head.CreatedAt),
		User:               user,
		Fields:             payload,
		AllowedTransitions: lifecycle.Request.Allowed(status),
	}, nil
}

func (r Request) searchText() []string {
	out := []string{r.User.Name, r.User.Email}
	if r.Fields != nil {
		out = append(out, r.Fields.searchText()...)
	}
	return out
}

// decisionResponse is the approve/reject body; approvals may carry the created entity.
type decisionResponse struct {
	Message  string        `json:"message"`
	Workshop *materialized `json:"workshop"`
	Schedule *materialized `json:"schedule"`
	Teacher  *materialized `json:"teacher"`
}

type materialized struct {
	ID   backend.ID `json:"id"`
	Code string     `json:"code"`
}

func (m *materialized) key() string {
	if m == nil {
		return ""
	}
	if id := m.ID.String(); id != "" {
		return id
	}
	return m.Code
}
