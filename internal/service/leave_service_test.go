package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolops/substitute-api/internal/models"
)

type mockLeaveStore struct {
	loaded   bool
	added    []models.LeaveRequest
	updated  []models.LeaveRequest
	deleted  []string
	approved []string
	rejected []string
}

func (m *mockLeaveStore) Loaded() bool { return m.loaded }
func (m *mockLeaveStore) AddLeave(leave models.LeaveRequest) models.LeaveRequest {
	leave.ID = "leave1"
	leave.Status = models.LeavePending
	m.added = append(m.added, leave)
	return leave
}
func (m *mockLeaveStore) UpdateLeave(leave models.LeaveRequest) { m.updated = append(m.updated, leave) }
func (m *mockLeaveStore) DeleteLeave(id string)                 { m.deleted = append(m.deleted, id) }
func (m *mockLeaveStore) ApproveLeave(id string)                { m.approved = append(m.approved, id) }
func (m *mockLeaveStore) RejectLeave(id string)                 { m.rejected = append(m.rejected, id) }

func TestLeaveCreate(t *testing.T) {
	store := &mockLeaveStore{loaded: true}
	svc := NewLeaveService(store, validator.New(), zap.NewNop())

	created, err := svc.Create(context.Background(), CreateLeaveRequest{
		TeacherID:     "t1",
		Date:          "2023-10-23",
		PeriodNumbers: []int{1, 2},
		Reason:        "sick",
	})
	require.NoError(t, err)
	assert.Equal(t, "leave1", created.ID)
	assert.Equal(t, models.LeavePending, created.Status)
	require.Len(t, store.added, 1)
}

func TestLeaveCreateValidation(t *testing.T) {
	svc := NewLeaveService(&mockLeaveStore{loaded: true}, validator.New(), zap.NewNop())

	tests := []struct {
		name string
		req  CreateLeaveRequest
	}{
		{"missing teacher", CreateLeaveRequest{Date: "2023-10-23", PeriodNumbers: []int{1}}},
		{"missing date", CreateLeaveRequest{TeacherID: "t1", PeriodNumbers: []int{1}}},
		{"empty periods", CreateLeaveRequest{TeacherID: "t1", Date: "2023-10-23", PeriodNumbers: []int{}}},
		{"zero period", CreateLeaveRequest{TeacherID: "t1", Date: "2023-10-23", PeriodNumbers: []int{0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.req)
			assert.Error(t, err)
		})
	}
}

func TestLeaveCreateRequiresLoadedState(t *testing.T) {
	svc := NewLeaveService(&mockLeaveStore{loaded: false}, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateLeaveRequest{
		TeacherID:     "t1",
		Date:          "2023-10-23",
		PeriodNumbers: []int{1},
	})
	require.Error(t, err)
}

func TestLeaveUpdateKeepsStatus(t *testing.T) {
	store := &mockLeaveStore{loaded: true}
	svc := NewLeaveService(store, validator.New(), zap.NewNop())

	updated, err := svc.Update(context.Background(), "leave1", UpdateLeaveRequest{
		TeacherID:     "t1",
		Date:          "2023-10-24",
		PeriodNumbers: []int{3},
		Status:        models.LeaveApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, models.LeaveApproved, updated.Status)
	require.Len(t, store.updated, 1)
	assert.Equal(t, "leave1", store.updated[0].ID)
}

func TestLeaveApproveReject(t *testing.T) {
	store := &mockLeaveStore{loaded: true}
	svc := NewLeaveService(store, validator.New(), zap.NewNop())

	require.NoError(t, svc.Approve(context.Background(), "leave1"))
	require.NoError(t, svc.Reject(context.Background(), "leave2"))
	assert.Equal(t, []string{"leave1"}, store.approved)
	assert.Equal(t, []string{"leave2"}, store.rejected)
}

func TestLeaveDelete(t *testing.T) {
	store := &mockLeaveStore{loaded: true}
	svc := NewLeaveService(store, validator.New(), zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), "leave1"))
	assert.Equal(t, []string{"leave1"}, store.deleted)
}
