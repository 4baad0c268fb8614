package lifecycle

import (
	"fmt"
	"slices"

	"github.com/evolutionflow/admin-bff/pkg/enums"
	pkgerrors "github.com/evolutionflow/admin-bff/pkg/errors"
)

var Member = NewTable("member", enums.MemberStatuses(), map[enums.MemberStatus][]enums.MemberStatus{
	enums.MemberStatusActive:   {enums.MemberStatusInactive, enums.MemberStatusSuspended},
	enums.MemberStatusInactive: {enums.MemberStatusActive, enums.MemberStatusSuspended},
})

// COMPLETED is set by the backend once a workshop has run.
var Workshop = NewTable("workshop", enums.WorkshopStatuses(), map[enums.WorkshopStatus][]enums.WorkshopStatus{
	enums.WorkshopStatusOpen:      {enums.WorkshopStatusClosed, enums.WorkshopStatusCancelled},
	enums.WorkshopStatusClosed:    {enums.WorkshopStatusOpen},
	enums.WorkshopStatusCancelled: {enums.WorkshopStatusOpen},
})

var Schedule = NewTable("schedule", enums.ScheduleStatuses(), map[enums.ScheduleStatus][]enums.ScheduleStatus{
	enums.ScheduleStatusOpen:      {enums.ScheduleStatusFull, enums.ScheduleStatusWaitlist, enums.ScheduleStatusCancelled},
	enums.ScheduleStatusFull:      {enums.ScheduleStatusOpen},
	enums.ScheduleStatusWaitlist:  {enums.ScheduleStatusOpen},
	enums.ScheduleStatusCancelled: {enums.ScheduleStatusOpen},
})

// Contact statuses carry no ordering; any status may be set at any time.
var Contact = NewTable("contact", enums.ContactStatuses(), everyOther(enums.ContactStatuses()))

var Studio = NewTable("studio", enums.StudioStatuses(), everyOther(enums.StudioStatuses()))

var Request = NewTable("request", enums.RequestStatuses(), map[enums.RequestStatus][]enums.RequestStatus{
	enums.RequestStatusPending: {enums.RequestStatusApproved, enums.RequestStatusRejected},
})

// Visibility toggles the isActive flag of instructors and workshops.
func Visibility(current bool) []bool {
	return []bool{!current}
}

// CheckVisibility rejects a toggle that would not change the flag.
func CheckVisibility(resource string, current, next bool) error {
	if slices.Contains(Visibility(current), next) {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("%s visibility is already %t", resource, current)).
		WithDetails(map[string]any{"isActive": current})
}

func everyOther[S ~string](states []S) map[S][]S {
	out := make(map[S][]S, len(states))
	for _, from := range states {
		for _, to := range states {
			if to != from {
				out[from] = append(out[from], to)
			}
		}
	}
	return out
}
