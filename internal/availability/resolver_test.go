package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolops/substitute-api/internal/models"
)

// 2023-10-23 is a Monday, so schedule items with DayOfWeek=1 apply.
const monday = "2023-10-23"

func baseState() models.State {
	return models.State{
		Teachers: []models.Teacher{
			{ID: "t1", Name: "A", Expertise: []string{"s1", "s2"}},
			{ID: "t2", Name: "B", Expertise: []string{"s3"}},
			{ID: "t3", Name: "C", Expertise: []string{"s1"}},
			{ID: "t4", Name: "D"},
		},
		TimeSlots: []models.TimeSlot{
			{ID: "ts1", PeriodNumber: 1, Type: models.SlotLearning},
			{ID: "ts2", PeriodNumber: 2, Type: models.SlotLearning},
		},
	}
}

func TestResolverExcludesScheduledTeachers(t *testing.T) {
	state := baseState()
	state.Schedules = []models.ScheduleItem{
		{ID: "sch1", TeacherID: "t1", DayOfWeek: 1, TimeSlotID: "ts1", ClassID: "c1"},
	}

	got := FindAvailableTeachers(state, monday, 1, "")
	ids := candidateIDs(got)
	assert.NotContains(t, ids, "t1")
	assert.ElementsMatch(t, []string{"t2", "t3", "t4"}, ids)
}

func TestResolverExcludesApprovedLeave(t *testing.T) {
	state := baseState()
	// t2 has a Monday schedule on a *different* slot; the exclusion here
	// must come from the approved leave alone.
	state.Schedules = []models.ScheduleItem{
		{ID: "sch1", TeacherID: "t2", DayOfWeek: 1, TimeSlotID: "ts2"},
	}
	state.Leaves = []models.LeaveRequest{
		{ID: "l1", TeacherID: "t2", Date: monday, PeriodNumbers: models.PeriodList{1, 2}, Status: models.LeaveApproved},
		{ID: "l2", TeacherID: "t3", Date: monday, PeriodNumbers: models.PeriodList{1}, Status: models.LeavePending},
	}

	got := FindAvailableTeachers(state, monday, 1, "")
	ids := candidateIDs(got)
	assert.NotContains(t, ids, "t2")
	assert.Contains(t, ids, "t3") // pending leave does not exclude
}

func TestResolverLeaveOnOtherDateDoesNotExclude(t *testing.T) {
	state := baseState()
	state.Leaves = []models.LeaveRequest{
		{ID: "l1", TeacherID: "t1", Date: "2023-10-24", PeriodNumbers: models.PeriodList{1}, Status: models.LeaveApproved},
	}

	got := FindAvailableTeachers(state, monday, 1, "")
	assert.Contains(t, candidateIDs(got), "t1")
}

func TestResolverUnknownPeriodReturnsEmpty(t *testing.T) {
	got := FindAvailableTeachers(baseState(), monday, 9, "")
	assert.Empty(t, got)
}

func TestResolverExpertOutranksWorkload(t *testing.T) {
	state := baseState()
	// t1 (s1 expert) carries two Monday periods; t4 (non-expert) carries
	// none. Expertise must still win.
	state.Schedules = []models.ScheduleItem{
		{ID: "sch1", TeacherID: "t1", DayOfWeek: 1, TimeSlotID: "ts2"},
		{ID: "sch2", TeacherID: "t1", DayOfWeek: 1, TimeSlotID: "ts3"},
	}

	got := FindAvailableTeachers(state, monday, 1, "s1")
	require.NotEmpty(t, got)
	assert.Equal(t, "t1", got[0].Teacher.ID)
	assert.True(t, got[0].IsExpert)
	assert.Equal(t, 2, got[0].Workload)

	var t4Pos, t1Pos int
	for i, c := range got {
		switch c.Teacher.ID {
		case "t1":
			t1Pos = i
		case "t4":
			t4Pos = i
		}
	}
	assert.Less(t, t1Pos, t4Pos)
}

func TestResolverNoSubjectMeansNoExperts(t *testing.T) {
	got := FindAvailableTeachers(baseState(), monday, 1, "")
	for _, c := range got {
		assert.False(t, c.IsExpert)
	}
}

func TestResolverStableOrderOnTies(t *testing.T) {
	state := baseState()
	// All four teachers are free with zero workload and no subject
	// requirement; output must preserve collection order.
	got := FindAvailableTeachers(state, monday, 1, "")
	assert.Equal(t, []string{"t1", "t2", "t3", "t4"}, candidateIDs(got))
}

func TestResolverSubstituteElsewhereNotExcluded(t *testing.T) {
	state := baseState()
	state.Subs = []models.SubstituteAssignment{
		{ID: "sub1", SubTeacherID: "t3", Date: monday, PeriodNumber: 1, Status: models.SubAccepted},
	}

	got := FindAvailableTeachers(state, monday, 1, "")
	require.Contains(t, candidateIDs(got), "t3")
	for _, c := range got {
		if c.Teacher.ID == "t3" {
			assert.Equal(t, 1, c.Workload)
		}
	}
}

func TestDailyWorkloadIgnoresRejectedSubs(t *testing.T) {
	state := baseState()
	state.Schedules = []models.ScheduleItem{
		{ID: "sch1", TeacherID: "t2", DayOfWeek: 1, TimeSlotID: "ts1"},
	}
	state.Subs = []models.SubstituteAssignment{
		{ID: "sub1", SubTeacherID: "t2", Date: monday, Status: models.SubRequested},
		{ID: "sub2", SubTeacherID: "t2", Date: monday, Status: models.SubRejected},
		{ID: "sub3", SubTeacherID: "t2", Date: "2023-10-24", Status: models.SubAccepted},
	}

	assert.Equal(t, 2, DailyWorkload(state, "t2", monday, 1))
}

func TestOverloadedFlag(t *testing.T) {
	assert.False(t, RankedCandidate{Workload: 2}.Overloaded())
	assert.True(t, RankedCandidate{Workload: 3}.Overloaded())
	assert.True(t, RankedCandidate{Workload: 5}.Overloaded())
}

func candidateIDs(cands []RankedCandidate) []string {
	ids := make([]string, 0, len(cands))
	for _, c := range cands {
		ids = append(ids, c.Teacher.ID)
	}
	return ids
}
