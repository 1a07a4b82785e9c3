package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolops/substitute-api/internal/models"
	"github.com/schoolops/substitute-api/internal/remote"
	"github.com/schoolops/substitute-api/pkg/outbox"
)

type fakeFetcher struct {
	state *models.State
	err   error
}

func (f *fakeFetcher) FetchAll(ctx context.Context) (*models.State, error) {
	return f.state, f.err
}

type recordingSink struct {
	commands []outbox.Command
}

func (r *recordingSink) Enqueue(cmd outbox.Command) error {
	r.commands = append(r.commands, cmd)
	return nil
}

func (r *recordingSink) ops(collection string) []outbox.Command {
	var out []outbox.Command
	for _, cmd := range r.commands {
		if cmd.Collection == collection {
			out = append(out, cmd)
		}
	}
	return out
}

func newTestStore() (*Store, *recordingSink) {
	sink := &recordingSink{}
	s := New(&fakeFetcher{state: &models.State{}}, sink, zap.NewNop())
	seq := 0
	s.newID = func() string {
		seq++
		return fmt.Sprintf("id%d", seq)
	}
	return s, sink
}

func TestLoadNormalizesAndSorts(t *testing.T) {
	fetcher := &fakeFetcher{state: &models.State{
		TimeSlots: []models.TimeSlot{
			{ID: "ts2", PeriodNumber: 2},
			{ID: "ts1", PeriodNumber: 1},
		},
		Leaves: []models.LeaveRequest{
			{ID: "l1", Date: "2025-11-24", Status: models.LeaveApproved},
		},
		Subs: []models.SubstituteAssignment{
			{ID: "sub1", Date: "2025-11-24"},
		},
	}}
	s := New(fetcher, &recordingSink{}, zap.NewNop())

	require.NoError(t, s.Load(context.Background()))
	assert.True(t, s.Loaded())

	snap := s.Snapshot()
	assert.Equal(t, "ts1", snap.TimeSlots[0].ID)
	assert.Equal(t, "ts2", snap.TimeSlots[1].ID)
	assert.Equal(t, "2025-11-24", snap.Leaves[0].Date)
	assert.NotNil(t, snap.Leaves[0].PeriodNumbers)
}

func TestLoadFailureKeepsPreviousState(t *testing.T) {
	fetcher := &fakeFetcher{state: &models.State{Teachers: []models.Teacher{{ID: "t1"}}}}
	s := New(fetcher, &recordingSink{}, zap.NewNop())
	require.NoError(t, s.Load(context.Background()))

	fetcher.state = nil
	fetcher.err = errors.New("network down")
	err := s.Load(context.Background())
	require.Error(t, err)

	assert.True(t, s.Loaded())
	assert.Len(t, s.Snapshot().Teachers, 1)
}

func TestLoadNilPayloadIsConnectivityError(t *testing.T) {
	s := New(&fakeFetcher{state: nil}, &recordingSink{}, zap.NewNop())
	err := s.Load(context.Background())
	require.Error(t, err)
	assert.False(t, s.Loaded())
}

func TestAddTeacherAssignsIDAndPersists(t *testing.T) {
	s, sink := newTestStore()

	created := s.AddTeacher(models.Teacher{Name: "A", Role: models.RoleTeacher})
	assert.Equal(t, "id1", created.ID)
	assert.Len(t, s.Snapshot().Teachers, 1)

	require.Len(t, sink.commands, 1)
	assert.Equal(t, outbox.OpCreate, sink.commands[0].Op)
	assert.Equal(t, remote.CollectionTeachers, sink.commands[0].Collection)
}

func TestUpdateAbsentIsLocalNoOp(t *testing.T) {
	s, _ := newTestStore()
	s.UpdateTeacher(models.Teacher{ID: "ghost", Name: "X"})
	assert.Empty(t, s.Snapshot().Teachers)
}

func TestUpsertScheduleOverwritesTeacherSlot(t *testing.T) {
	s, sink := newTestStore()

	first := s.UpsertSchedule(models.ScheduleItem{ClassID: "c1", TimeSlotID: "ts1", DayOfWeek: 1, SubjectID: "s1", TeacherID: "t1"})
	second := s.UpsertSchedule(models.ScheduleItem{ClassID: "c1", TimeSlotID: "ts1", DayOfWeek: 1, SubjectID: "s2", TeacherID: "t1"})

	snap := s.Snapshot()
	require.Len(t, snap.Schedules, 1)
	assert.Equal(t, second.ID, snap.Schedules[0].ID)
	assert.Equal(t, "s2", snap.Schedules[0].SubjectID)
	assert.NotEqual(t, first.ID, second.ID)

	// Both writes were forwarded; the remote keeps last-write-wins too.
	assert.Len(t, sink.ops(remote.CollectionSchedules), 2)
}

func TestUpsertScheduleDifferentTeacherCoexists(t *testing.T) {
	s, _ := newTestStore()
	s.UpsertSchedule(models.ScheduleItem{ClassID: "c1", TimeSlotID: "ts1", DayOfWeek: 1, TeacherID: "t1"})
	s.UpsertSchedule(models.ScheduleItem{ClassID: "c2", TimeSlotID: "ts1", DayOfWeek: 1, TeacherID: "t2"})

	// Classroom double-booking is not guarded, only the teacher triple.
	assert.Len(t, s.Snapshot().Schedules, 2)
}

func TestAddLeaveForcesPendingAndNormalizesDate(t *testing.T) {
	s, sink := newTestStore()

	created := s.AddLeave(models.LeaveRequest{
		TeacherID:     "t1",
		Date:          "2025-11-24",
		PeriodNumbers: models.PeriodList{1, 2},
		Status:        models.LeaveApproved, // caller-supplied status is overridden
	})
	assert.Equal(t, models.LeavePending, created.Status)
	assert.Equal(t, "2025-11-24", created.Date)

	cmds := sink.ops(remote.CollectionLeaves)
	require.Len(t, cmds, 1)
	assert.Equal(t, outbox.OpCreate, cmds[0].Op)
}

func TestApproveAndRejectLeave(t *testing.T) {
	s, sink := newTestStore()
	created := s.AddLeave(models.LeaveRequest{TeacherID: "t1", Date: "2025-11-24"})

	s.ApproveLeave(created.ID)
	assert.Equal(t, models.LeaveApproved, s.Snapshot().Leaves[0].Status)

	s.RejectLeave(created.ID)
	assert.Equal(t, models.LeaveRejected, s.Snapshot().Leaves[0].Status)

	cmds := sink.ops(remote.CollectionLeaves)
	require.Len(t, cmds, 3)
	patch, ok := cmds[1].Record.(leaveStatusPatch)
	require.True(t, ok)
	assert.Equal(t, models.LeaveApproved, patch.Status)
}

func TestDeleteLeaveCascadesToSubs(t *testing.T) {
	s, sink := newTestStore()
	leave := s.AddLeave(models.LeaveRequest{TeacherID: "t1", Date: "2025-11-24", PeriodNumbers: models.PeriodList{1, 2}})
	s.AddSub(models.SubstituteAssignment{LeaveRequestID: leave.ID, PeriodNumber: 1, SubTeacherID: "t2", Date: "2025-11-24"})
	s.AddSub(models.SubstituteAssignment{LeaveRequestID: leave.ID, PeriodNumber: 2, SubTeacherID: "t3", Date: "2025-11-24"})
	s.AddSub(models.SubstituteAssignment{LeaveRequestID: "other", PeriodNumber: 1, SubTeacherID: "t4", Date: "2025-11-24"})

	s.DeleteLeave(leave.ID)

	snap := s.Snapshot()
	assert.Empty(t, snap.Leaves)
	require.Len(t, snap.Subs, 1)
	assert.Equal(t, "other", snap.Subs[0].LeaveRequestID)

	var subDeletes int
	for _, cmd := range sink.ops(remote.CollectionSubs) {
		if cmd.Op == outbox.OpDelete {
			subDeletes++
		}
	}
	assert.Equal(t, 2, subDeletes)
}

func TestAddSubForcesRequestedStatus(t *testing.T) {
	s, _ := newTestStore()
	created := s.AddSub(models.SubstituteAssignment{
		LeaveRequestID: "l1",
		SubTeacherID:   "t2",
		Date:           "2025-11-24",
		PeriodNumber:   3,
		Status:         models.SubAccepted, // overridden
	})
	assert.Equal(t, models.SubRequested, created.Status)
}

func TestRejectedSlotCanBeReassigned(t *testing.T) {
	s, _ := newTestStore()
	first := s.AddSub(models.SubstituteAssignment{LeaveRequestID: "l1", PeriodNumber: 3, SubTeacherID: "t2", Date: "2025-11-24"})
	s.RespondToSub(first.ID, models.SubRejected, "sick that day")

	second := s.AddSub(models.SubstituteAssignment{LeaveRequestID: "l1", PeriodNumber: 3, SubTeacherID: "t3", Date: "2025-11-24"})

	snap := s.Snapshot()
	require.Len(t, snap.Subs, 2)
	assert.Equal(t, models.SubRejected, snap.Subs[0].Status)
	assert.Equal(t, "sick that day", snap.Subs[0].RejectReason)
	assert.Equal(t, models.SubRequested, snap.Subs[1].Status)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestRespondToSubPersistsPatch(t *testing.T) {
	s, sink := newTestStore()
	created := s.AddSub(models.SubstituteAssignment{LeaveRequestID: "l1", PeriodNumber: 1, SubTeacherID: "t2"})

	s.RespondToSub(created.ID, models.SubAccepted, "")

	cmds := sink.ops(remote.CollectionSubs)
	require.Len(t, cmds, 2)
	patch, ok := cmds[1].Record.(subResponsePatch)
	require.True(t, ok)
	assert.Equal(t, models.SubAccepted, patch.Status)
}

func TestAddTimeSlotKeepsOrdering(t *testing.T) {
	s, _ := newTestStore()
	s.AddTimeSlot(models.TimeSlot{PeriodNumber: 2})
	s.AddTimeSlot(models.TimeSlot{PeriodNumber: 1})

	snap := s.Snapshot()
	require.Len(t, snap.TimeSlots, 2)
	assert.Equal(t, 1, snap.TimeSlots[0].PeriodNumber)
}

func TestSnapshotIsIsolatedCopy(t *testing.T) {
	s, _ := newTestStore()
	s.AddTeacher(models.Teacher{Name: "A"})

	snap := s.Snapshot()
	snap.Teachers[0].Name = "mutated"

	assert.Equal(t, "A", s.Snapshot().Teachers[0].Name)
}

func TestOnMutateHookFires(t *testing.T) {
	s, _ := newTestStore()
	calls := 0
	s.OnMutate(func() { calls++ })

	s.AddTeacher(models.Teacher{Name: "A"})
	s.DeleteTeacher("id1")
	assert.Equal(t, 2, calls)
}
