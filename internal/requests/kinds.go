package requests

import (
	"encoding/json"

	"github.com/evolutionflow/admin-bff/pkg/backend"
	"github.com/evolutionflow/admin-bff/pkg/enums"
	pkgerrors "github.com/evolutionflow/admin-bff/pkg/errors"
)

// handler holds everything that differs between request kinds.
type handler struct {
	kind         enums.RequestKind
	listPath     string
	decode       func(json.RawMessage) (Fields, error)
	materialized func(decisionResponse) string
}

func (h handler) decisionPath(id string, to enums.RequestStatus) string {
	verb := "reject"
	if to == enums.RequestStatusApproved {
		verb = "approve"
	}
	return h.listPath + "/" + backend.PathID(id) + "/" + verb
}

func decodeAs[F Fields](raw json.RawMessage) (Fields, error) {
	var f F
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	return f, nil
}

var handlers = map[enums.RequestKind]handler{
	enums.RequestKindTeacher: {
		kind:         enums.RequestKindTeacher,
		listPath:     "/requests/teacher",
		decode:       decodeAs[TeacherFields],
		materialized: func(r decisionResponse) string { return r.Teacher.key() },
	},
	enums.RequestKindWorkshop: {
		kind:         enums.RequestKindWorkshop,
		listPath:     "/requests/workshop",
		decode:       decodeAs[WorkshopFields],
		materialized: func(r decisionResponse) string { return r.Workshop.key() },
	},
	enums.RequestKindSchedule: {
		kind:         enums.RequestKindSchedule,
		listPath:     "/requests/schedule",
		decode:       decodeAs[ScheduleFields],
		materialized: func(r decisionResponse) string { return r.Schedule.key() },
	},
}

func handlerFor(kind enums.RequestKind) (handler, error) {
	h, ok := handlers[kind]
	if !ok {
		return handler{}, pkgerrors.Newf(pkgerrors.CodeValidation, "unknown request kind %q", kind)
	}
	return h, nil
}
