package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolops/substitute-api/internal/models"
	"github.com/schoolops/substitute-api/internal/service"
	"github.com/schoolops/substitute-api/pkg/response"
)

type stateReaderStub struct {
	state  models.State
	loaded bool
}

func (s *stateReaderStub) Snapshot() models.State { return s.state }
func (s *stateReaderStub) Loaded() bool           { return s.loaded }

func availabilityRouter(reader *stateReaderStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewAvailabilityService(reader, nil, nil, nil)
	h := NewAvailabilityHandler(svc)
	r := gin.New()
	r.GET("/availability", h.Find)
	return r
}

func TestAvailabilityHandlerFind(t *testing.T) {
	reader := &stateReaderStub{
		loaded: true,
		state: models.State{
			Teachers:  []models.Teacher{{ID: "t1", Name: "A"}},
			TimeSlots: []models.TimeSlot{{ID: "ts1", PeriodNumber: 1, Type: models.SlotLearning}},
		},
	}
	r := availabilityRouter(reader)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/availability?date=2023-10-23&period=1", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Nil(t, env.Error)
	assert.NotNil(t, env.Data)
}

func TestAvailabilityHandlerMissingDate(t *testing.T) {
	r := availabilityRouter(&stateReaderStub{loaded: true})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/availability?period=1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAvailabilityHandlerStateNotLoaded(t *testing.T) {
	r := availabilityRouter(&stateReaderStub{loaded: false})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/availability?date=2023-10-23&period=1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
