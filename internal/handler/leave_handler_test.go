package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolops/substitute-api/internal/models"
	"github.com/schoolops/substitute-api/internal/service"
)

type leaveStoreStub struct {
	loaded   bool
	approved []string
	deleted  []string
}

func (s *leaveStoreStub) Loaded() bool { return s.loaded }
func (s *leaveStoreStub) AddLeave(leave models.LeaveRequest) models.LeaveRequest {
	leave.ID = "leave1"
	leave.Status = models.LeavePending
	return leave
}
func (s *leaveStoreStub) UpdateLeave(models.LeaveRequest) {}
func (s *leaveStoreStub) DeleteLeave(id string)           { s.deleted = append(s.deleted, id) }
func (s *leaveStoreStub) ApproveLeave(id string)          { s.approved = append(s.approved, id) }
func (s *leaveStoreStub) RejectLeave(string)              {}

func leaveRouter(store *leaveStoreStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewLeaveHandler(service.NewLeaveService(store, nil, nil))
	r := gin.New()
	r.POST("/leaves", h.Create)
	r.DELETE("/leaves/:id", h.Delete)
	r.POST("/leaves/:id/approve", h.Approve)
	return r
}

func TestLeaveHandlerCreate(t *testing.T) {
	r := leaveRouter(&leaveStoreStub{loaded: true})

	body, _ := json.Marshal(service.CreateLeaveRequest{
		TeacherID:     "t1",
		Date:          "2023-10-23",
		PeriodNumbers: []int{1, 2},
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/leaves", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "PENDING")
}

func TestLeaveHandlerCreateInvalidBody(t *testing.T) {
	r := leaveRouter(&leaveStoreStub{loaded: true})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/leaves", bytes.NewReader([]byte(`invalid`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLeaveHandlerApprove(t *testing.T) {
	store := &leaveStoreStub{loaded: true}
	r := leaveRouter(store)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/leaves/leave1/approve", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"leave1"}, store.approved)
}

func TestLeaveHandlerDeleteBeforeLoad(t *testing.T) {
	r := leaveRouter(&leaveStoreStub{loaded: false})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/leaves/leave1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
