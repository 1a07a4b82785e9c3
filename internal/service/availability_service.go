package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolops/substitute-api/internal/availability"
	"github.com/schoolops/substitute-api/internal/models"
	"github.com/schoolops/substitute-api/pkg/dates"
	appErrors "github.com/schoolops/substitute-api/pkg/errors"
)

const availabilityKeyPrefix = "availability:"

type stateReader interface {
	Snapshot() models.State
	Loaded() bool
}

// AvailabilityQuery describes one resolver lookup.
type AvailabilityQuery struct {
	Date      string `form:"date" json:"date" validate:"required"`
	Period    int    `form:"period" json:"period" validate:"required,min=1"`
	SubjectID string `form:"subject" json:"subject"`
}

// CandidateView is a ranked candidate enriched with the display-policy
// overload flag. Overloaded candidates stay selectable; blocking them is
// the consumer's call.
type CandidateView struct {
	availability.RankedCandidate
	Overloaded bool `json:"overloaded"`
}

// AvailabilityService runs the resolver over a state snapshot, caching
// results until the next mutation.
type AvailabilityService struct {
	state     stateReader
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAvailabilityService constructs an AvailabilityService.
func NewAvailabilityService(state stateReader, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{state: state, cache: cache, validator: validate, logger: logger}
}

// Find returns the ranked substitute candidates for a date, period and
// optional subject requirement.
func (s *AvailabilityService) Find(ctx context.Context, query AvailabilityQuery) ([]CandidateView, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability query")
	}
	if !s.state.Loaded() {
		return nil, appErrors.Clone(appErrors.ErrStateNotLoaded, "")
	}

	date := dates.Normalize(query.Date)
	key := fmt.Sprintf("%s%s:%d:%s", availabilityKeyPrefix, date, query.Period, query.SubjectID)

	var cached []CandidateView
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	ranked := availability.FindAvailableTeachers(s.state.Snapshot(), date, query.Period, query.SubjectID)
	views := make([]CandidateView, 0, len(ranked))
	for _, candidate := range ranked {
		views = append(views, CandidateView{RankedCandidate: candidate, Overloaded: candidate.Overloaded()})
	}

	_ = s.cache.Set(ctx, key, views, 0)
	return views, nil
}

// InvalidateCache drops every cached availability lookup. The store's
// mutation hook calls this so rankings never reflect stale commitments.
func (s *AvailabilityService) InvalidateCache(ctx context.Context) {
	s.cache.InvalidatePattern(ctx, availabilityKeyPrefix+"*")
}
