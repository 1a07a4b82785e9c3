// Package store owns the in-memory collections and reconciles them with
// the remote tabular store. Mutations apply locally first and enqueue a
// persistence command on the outbox; local state is the source of truth
// for every subsequent read whether or not the remote write lands.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolops/substitute-api/internal/models"
	"github.com/schoolops/substitute-api/pkg/dates"
	appErrors "github.com/schoolops/substitute-api/pkg/errors"
	"github.com/schoolops/substitute-api/pkg/outbox"
)

type bulkFetcher interface {
	FetchAll(ctx context.Context) (*models.State, error)
}

type commandSink interface {
	Enqueue(cmd outbox.Command) error
}

// Store is the state reconciliation layer.
type Store struct {
	mu     sync.RWMutex
	state  models.State
	loaded bool

	remote   bulkFetcher
	outbox   commandSink
	logger   *zap.Logger
	newID    func() string
	onMutate func()
}

// New constructs a Store. The outbox sink may be nil in tests that only
// exercise local state.
func New(remote bulkFetcher, sink commandSink, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		remote: remote,
		outbox: sink,
		logger: logger,
		newID:  uuid.NewString,
	}
}

// OnMutate registers a hook invoked after every local mutation, outside
// the lock. Used for cache invalidation.
func (s *Store) OnMutate(fn func()) {
	s.onMutate = fn
}

// Load performs the bulk fetch and replaces all collections. A fetch
// failure leaves previous state untouched and is surfaced as a
// retryable connectivity error; no partial data is ever installed.
func (s *Store) Load(ctx context.Context) error {
	payload, err := s.remote.FetchAll(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrRemoteUnavailable.Code, appErrors.ErrRemoteUnavailable.Status, "failed to load collections")
	}
	if payload == nil {
		return appErrors.Clone(appErrors.ErrRemoteUnavailable, "remote store returned no data")
	}

	state := *payload
	sortTimeSlots(state.TimeSlots)
	for i := range state.Leaves {
		state.Leaves[i].Date = dates.Normalize(state.Leaves[i].Date)
		if state.Leaves[i].PeriodNumbers == nil {
			state.Leaves[i].PeriodNumbers = models.PeriodList{}
		}
	}
	for i := range state.Subs {
		state.Subs[i].Date = dates.Normalize(state.Subs[i].Date)
	}

	s.mu.Lock()
	s.state = state
	s.loaded = true
	s.mu.Unlock()

	s.logger.Sugar().Infow("collections loaded",
		"teachers", len(state.Teachers),
		"subjects", len(state.Subjects),
		"classes", len(state.Classes),
		"timeSlots", len(state.TimeSlots),
		"schedules", len(state.Schedules),
		"leaves", len(state.Leaves),
		"subs", len(state.Subs))
	s.notify()
	return nil
}

// Loaded reports whether an initial bulk fetch has succeeded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Snapshot returns a copy of every collection for read paths.
func (s *Store) Snapshot() models.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.State{
		Teachers:  append([]models.Teacher(nil), s.state.Teachers...),
		Subjects:  append([]models.Subject(nil), s.state.Subjects...),
		Classes:   append([]models.ClassRoom(nil), s.state.Classes...),
		TimeSlots: append([]models.TimeSlot(nil), s.state.TimeSlots...),
		Schedules: append([]models.ScheduleItem(nil), s.state.Schedules...),
		Leaves:    append([]models.LeaveRequest(nil), s.state.Leaves...),
		Subs:      append([]models.SubstituteAssignment(nil), s.state.Subs...),
	}
}

func (s *Store) persist(cmd outbox.Command) {
	if s.outbox == nil {
		return
	}
	// Fire and forget: the mutation already applied locally and stands
	// regardless of what happens to the remote write.
	_ = s.outbox.Enqueue(cmd)
}

func (s *Store) notify() {
	if s.onMutate != nil {
		s.onMutate()
	}
}

func sortTimeSlots(slots []models.TimeSlot) {
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].PeriodNumber < slots[j].PeriodNumber
	})
}
