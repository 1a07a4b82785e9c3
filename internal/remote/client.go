// Package remote talks to the external tabular data store that persists
// every collection. The store exposes a single endpoint taking action
// envelopes; bodies are sent as text/plain to avoid CORS preflight on
// the hosted script side.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/schoolops/substitute-api/internal/models"
	"github.com/schoolops/substitute-api/pkg/config"
)

// Collection name tags, one per entity type.
const (
	CollectionTeachers  = "Teachers"
	CollectionSubjects  = "Subjects"
	CollectionClasses   = "Classes"
	CollectionTimeSlots = "TimeSlots"
	CollectionSchedules = "Schedules"
	CollectionLeaves    = "LeaveRequests"
	CollectionSubs      = "SubstituteAssignments"
)

type envelope struct {
	Action     string      `json:"action"`
	Collection string      `json:"collection,omitempty"`
	Data       interface{} `json:"data,omitempty"`
}

// Client is an HTTP client for the tabular store.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
	now     func() time.Time
}

// NewClient constructs a Client from remote config.
func NewClient(cfg config.RemoteConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
		now:     time.Now,
	}
}

// FetchAll performs the bulk read of every collection. A transport or
// decode failure is returned as-is; callers surface it as a blocking,
// retryable error state and show no partial data.
func (c *Client) FetchAll(ctx context.Context) (*models.State, error) {
	// Cache buster keeps intermediaries from replaying a stale payload.
	url := fmt.Sprintf("%s?action=getData&t=%d", c.baseURL, c.now().UnixMilli())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build fetch request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch all: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch all: unexpected status %d", resp.StatusCode)
	}

	var state models.State
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return &state, nil
}

// Create inserts a record into the named collection.
func (c *Client) Create(ctx context.Context, collection string, record interface{}) error {
	return c.post(ctx, envelope{Action: "create", Collection: collection, Data: record})
}

// Update overwrites fields of an existing record; the store matches on
// the record's id field and ignores unknown ids.
func (c *Client) Update(ctx context.Context, collection string, record interface{}) error {
	return c.post(ctx, envelope{Action: "update", Collection: collection, Data: record})
}

// Delete removes a record by id. Unknown ids are a remote no-op.
func (c *Client) Delete(ctx context.Context, collection, id string) error {
	return c.post(ctx, envelope{Action: "delete", Collection: collection, Data: map[string]string{"id": id}})
}

func (c *Client) post(ctx context.Context, env envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode %s envelope: %w", env.Action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", env.Action, err)
	}
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", env.Action, env.Collection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: unexpected status %d", env.Action, env.Collection, resp.StatusCode)
	}
	return nil
}
