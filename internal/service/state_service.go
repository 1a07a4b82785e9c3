package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/schoolops/substitute-api/internal/models"
	appErrors "github.com/schoolops/substitute-api/pkg/errors"
)

type stateStore interface {
	Loaded() bool
	Snapshot() models.State
	Load(ctx context.Context) error
}

// StateService exposes the bulk state payload consumers hydrate from,
// plus the reload path used to recover from a connectivity failure.
type StateService struct {
	store  stateStore
	logger *zap.Logger
}

// NewStateService constructs a StateService.
func NewStateService(store stateStore, logger *zap.Logger) *StateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StateService{store: store, logger: logger}
}

// Get returns a copy of every collection. Before a successful bulk
// fetch there is nothing to show; partial data is never served.
func (s *StateService) Get(ctx context.Context) (*models.State, error) {
	if !s.store.Loaded() {
		return nil, appErrors.Clone(appErrors.ErrStateNotLoaded, "")
	}
	snap := s.store.Snapshot()
	return &snap, nil
}

// Reload re-runs the bulk fetch, replacing local state with the remote
// truth. This is the only reconciliation path after remote writes have
// been dropped.
func (s *StateService) Reload(ctx context.Context) (*models.State, error) {
	if err := s.store.Load(ctx); err != nil {
		s.logger.Warn("state reload failed", zap.Error(err))
		return nil, err
	}
	snap := s.store.Snapshot()
	return &snap, nil
}
