package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolops/substitute-api/internal/models"
	"github.com/schoolops/substitute-api/pkg/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.RemoteConfig{BaseURL: srv.URL, Timeout: 2 * time.Second}, zap.NewNop())
}

func TestFetchAllDecodesCollections(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "getData", r.URL.Query().Get("action"))
		assert.NotEmpty(t, r.URL.Query().Get("t"))
		_, _ = w.Write([]byte(`{
			"teachers":[{"id":"t1","name":"A"}],
			"subjects":[{"id":"s1","code":"MATH","name":"Mathematics"}],
			"timeSlots":[{"id":"ts1","periodNumber":1,"type":"LEARNING"}],
			"leaves":[{"id":"l1","teacherId":"t1","date":"2025-11-24","periodNumbers":"[1,2]","status":"APPROVED"}]
		}`))
	})

	state, err := client.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, state.Teachers, 1)
	assert.Equal(t, "t1", state.Teachers[0].ID)
	require.Len(t, state.Leaves, 1)
	assert.Equal(t, models.PeriodList{1, 2}, state.Leaves[0].PeriodNumbers)
	assert.Empty(t, state.Classes)
}

func TestFetchAllErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.FetchAll(context.Background())
	assert.Error(t, err)
}

func TestCreateSendsEnvelope(t *testing.T) {
	var got map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "text/plain;charset=utf-8", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
	})

	err := client.Create(context.Background(), CollectionTeachers, models.Teacher{ID: "t1", Name: "A"})
	require.NoError(t, err)
	assert.Equal(t, "create", got["action"])
	assert.Equal(t, "Teachers", got["collection"])
	data, ok := got["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "t1", data["id"])
}

func TestDeleteSendsIDOnly(t *testing.T) {
	var got map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
	})

	err := client.Delete(context.Background(), CollectionSchedules, "sch9")
	require.NoError(t, err)
	assert.Equal(t, "delete", got["action"])
	assert.Equal(t, map[string]interface{}{"id": "sch9"}, got["data"])
}

func TestPostErrorStatusReturnsError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	assert.Error(t, client.Update(context.Background(), CollectionLeaves, map[string]string{"id": "l1"}))
}
