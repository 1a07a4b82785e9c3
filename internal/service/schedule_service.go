package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolops/substitute-api/internal/models"
	appErrors "github.com/schoolops/substitute-api/pkg/errors"
)

type scheduleStore interface {
	Loaded() bool
	UpsertSchedule(models.ScheduleItem) models.ScheduleItem
	DeleteSchedule(id string)
}

// UpsertScheduleRequest places a subject/teacher into a weekly slot.
// Class and subject references are not validated for existence; a
// dangling reference renders as a blank downstream.
type UpsertScheduleRequest struct {
	ID         string `json:"id"`
	ClassID    string `json:"classId" validate:"required"`
	TimeSlotID string `json:"timeSlotId" validate:"required"`
	DayOfWeek  int    `json:"dayOfWeek" validate:"required,min=1,max=5"`
	SubjectID  string `json:"subjectId" validate:"required"`
	TeacherID  string `json:"teacherId" validate:"required"`
}

// ScheduleService orchestrates timetable mutations.
type ScheduleService struct {
	store     scheduleStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(store scheduleStore, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{store: store, validator: validate, logger: logger}
}

// Upsert writes a timetable entry, overwriting any entry for the same
// (timeSlotId, dayOfWeek, teacherId) triple.
func (s *ScheduleService) Upsert(ctx context.Context, req UpsertScheduleRequest) (*models.ScheduleItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	if !s.store.Loaded() {
		return nil, appErrors.Clone(appErrors.ErrStateNotLoaded, "")
	}

	item := s.store.UpsertSchedule(models.ScheduleItem{
		ID:         req.ID,
		ClassID:    req.ClassID,
		TimeSlotID: req.TimeSlotID,
		DayOfWeek:  req.DayOfWeek,
		SubjectID:  req.SubjectID,
		TeacherID:  req.TeacherID,
	})
	return &item, nil
}

// Delete removes a timetable entry unconditionally.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	if !s.store.Loaded() {
		return appErrors.Clone(appErrors.ErrStateNotLoaded, "")
	}
	s.store.DeleteSchedule(id)
	return nil
}
