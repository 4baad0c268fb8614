package enums

import "testing"

func TestParseRoundTrip(t *testing.T) {
	for _, status := range WorkshopStatuses() {
		got, err := ParseWorkshopStatus(status.String())
		if err != nil || got != status {
			t.Fatalf("parse %s: got %s err %v", status, got, err)
		}
	}
	if _, err := ParseWorkshopStatus("open"); err == nil {
		t.Fatalf("expected lower-case workshop status to be rejected")
	}
	if _, err := ParseRequestKind("instructor"); err == nil {
		t.Fatalf("expected unknown request kind to be rejected")
	}
}

func TestRequestStatusTerminal(t *testing.T) {
	if RequestStatusPending.IsTerminal() {
		t.Fatalf("pending must not be terminal")
	}
	if !RequestStatusApproved.IsTerminal() || !RequestStatusRejected.IsTerminal() {
		t.Fatalf("approved and rejected must be terminal")
	}
}

func TestInstructorGradeRank(t *testing.T) {
	order := []InstructorGrade{InstructorGradeUniverse, InstructorGradeI, InstructorGradeWe, InstructorGradeEarth}
	for i := 1; i < len(order); i++ {
		if order[i-1].Rank() >= order[i].Rank() {
			t.Fatalf("expected %s to outrank %s", order[i-1], order[i])
		}
	}
	if InstructorGrade("X").Rank() != len(order) {
		t.Fatalf("unknown grade should rank last")
	}
}

func TestClassTypeIsEvent(t *testing.T) {
	if ClassTypeRegular.IsEvent() {
		t.Fatalf("regular classes belong to the schedules view")
	}
	for _, ct := range []ClassType{ClassTypeSpecial, ClassTypeTTC, ClassTypeWorkshop} {
		if !ct.IsEvent() {
			t.Fatalf("%s should be listed as an event", ct)
		}
	}
}

func TestUserRoleMembershipLevel(t *testing.T) {
	cases := map[UserRole]MembershipLevel{
		UserRoleAdmin:      MembershipLevelPremium,
		UserRoleInstructor: MembershipLevelInstructor,
		UserRoleMember:     MembershipLevelGeneral,
		UserRole(""):       MembershipLevelGeneral,
	}
	for role, want := range cases {
		if got := role.MembershipLevel(); got != want {
			t.Fatalf("role %q: expected %s got %s", role, want, got)
		}
	}
}
