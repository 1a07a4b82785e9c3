package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolops/substitute-api/internal/models"
	appErrors "github.com/schoolops/substitute-api/pkg/errors"
)

type substituteStore interface {
	Loaded() bool
	AddSub(models.SubstituteAssignment) models.SubstituteAssignment
	UpdateSub(models.SubstituteAssignment)
	DeleteSub(id string)
	RespondToSub(id string, status models.SubStatus, reason string)
}

// AssignSubstituteRequest covers one period of one leave request with a
// substitute teacher.
type AssignSubstituteRequest struct {
	LeaveRequestID    string `json:"leaveRequestId" validate:"required"`
	OriginalTeacherID string `json:"originalTeacherId" validate:"required"`
	SubTeacherID      string `json:"subTeacherId" validate:"required"`
	Date              string `json:"date" validate:"required"`
	PeriodNumber      int    `json:"periodNumber" validate:"required,min=1"`
	ClassID           string `json:"classId" validate:"required"`
	SubjectID         string `json:"subjectId" validate:"required"`
}

// RespondRequest carries the assignee's answer. Reason is required only
// when rejecting.
type RespondRequest struct {
	Status models.SubStatus `json:"status" validate:"required,oneof=ACCEPTED REJECTED"`
	Reason string           `json:"reason" validate:"required_if=Status REJECTED"`
}

// SubstituteService orchestrates the substitute assignment lifecycle.
type SubstituteService struct {
	store     substituteStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubstituteService constructs a SubstituteService.
func NewSubstituteService(store substituteStore, validate *validator.Validate, logger *zap.Logger) *SubstituteService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubstituteService{store: store, validator: validate, logger: logger}
}

// Assign creates a fresh assignment in REQUESTED state. A previously
// rejected assignment for the same (leaveRequestId, periodNumber) slot
// does not block the new one.
func (s *SubstituteService) Assign(ctx context.Context, req AssignSubstituteRequest) (*models.SubstituteAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid substitute payload")
	}
	if !s.store.Loaded() {
		return nil, appErrors.Clone(appErrors.ErrStateNotLoaded, "")
	}

	created := s.store.AddSub(models.SubstituteAssignment{
		LeaveRequestID:    req.LeaveRequestID,
		OriginalTeacherID: req.OriginalTeacherID,
		SubTeacherID:      req.SubTeacherID,
		Date:              req.Date,
		PeriodNumber:      req.PeriodNumber,
		ClassID:           req.ClassID,
		SubjectID:         req.SubjectID,
	})
	s.logger.Info("substitute requested",
		zap.String("sub_id", created.ID),
		zap.String("sub_teacher_id", created.SubTeacherID),
		zap.String("date", created.Date),
		zap.Int("period", created.PeriodNumber))
	return &created, nil
}

// Reassign hands the slot to a different substitute; the assignment
// drops back to REQUESTED so the new teacher gets to answer.
func (s *SubstituteService) Reassign(ctx context.Context, id string, req AssignSubstituteRequest) (*models.SubstituteAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid substitute payload")
	}
	if !s.store.Loaded() {
		return nil, appErrors.Clone(appErrors.ErrStateNotLoaded, "")
	}

	updated := models.SubstituteAssignment{
		ID:                id,
		LeaveRequestID:    req.LeaveRequestID,
		OriginalTeacherID: req.OriginalTeacherID,
		SubTeacherID:      req.SubTeacherID,
		Date:              req.Date,
		PeriodNumber:      req.PeriodNumber,
		ClassID:           req.ClassID,
		SubjectID:         req.SubjectID,
		Status:            models.SubRequested,
	}
	s.store.UpdateSub(updated)
	return &updated, nil
}

// Delete withdraws an assignment; absent ids are a no-op.
func (s *SubstituteService) Delete(ctx context.Context, id string) error {
	if !s.store.Loaded() {
		return appErrors.Clone(appErrors.ErrStateNotLoaded, "")
	}
	s.store.DeleteSub(id)
	return nil
}

// Respond records acceptance or rejection. Rejection leaves the period
// uncovered; nothing re-assigns automatically.
func (s *SubstituteService) Respond(ctx context.Context, id string, req RespondRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid response payload")
	}
	if !s.store.Loaded() {
		return appErrors.Clone(appErrors.ErrStateNotLoaded, "")
	}
	s.store.RespondToSub(id, req.Status, req.Reason)
	s.logger.Info("substitute responded",
		zap.String("sub_id", id),
		zap.String("status", string(req.Status)))
	return nil
}
