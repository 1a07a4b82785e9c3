package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolops/substitute-api/internal/models"
	appErrors "github.com/schoolops/substitute-api/pkg/errors"
)

type leaveStore interface {
	Loaded() bool
	AddLeave(models.LeaveRequest) models.LeaveRequest
	UpdateLeave(models.LeaveRequest)
	DeleteLeave(id string)
	ApproveLeave(id string)
	RejectLeave(id string)
}

// CreateLeaveRequest represents payload for filing a leave request.
// Status is never accepted from the caller; new requests start PENDING.
type CreateLeaveRequest struct {
	TeacherID     string `json:"teacherId" validate:"required"`
	Date          string `json:"date" validate:"required"`
	PeriodNumbers []int  `json:"periodNumbers" validate:"required,min=1,dive,min=1"`
	Reason        string `json:"reason"`
}

// UpdateLeaveRequest carries a full leave record. Editing a decided
// request does not reset its status.
type UpdateLeaveRequest struct {
	TeacherID     string             `json:"teacherId" validate:"required"`
	Date          string             `json:"date" validate:"required"`
	PeriodNumbers []int              `json:"periodNumbers" validate:"required,min=1,dive,min=1"`
	Reason        string             `json:"reason"`
	Status        models.LeaveStatus `json:"status" validate:"required,oneof=PENDING APPROVED REJECTED"`
}

// LeaveService orchestrates the leave request lifecycle.
type LeaveService struct {
	store     leaveStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLeaveService constructs a LeaveService.
func NewLeaveService(store leaveStore, validate *validator.Validate, logger *zap.Logger) *LeaveService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeaveService{store: store, validator: validate, logger: logger}
}

// Create files a new leave request in PENDING state.
func (s *LeaveService) Create(ctx context.Context, req CreateLeaveRequest) (*models.LeaveRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid leave payload")
	}
	if !s.store.Loaded() {
		return nil, appErrors.Clone(appErrors.ErrStateNotLoaded, "")
	}

	created := s.store.AddLeave(models.LeaveRequest{
		TeacherID:     req.TeacherID,
		Date:          req.Date,
		PeriodNumbers: models.PeriodList(req.PeriodNumbers),
		Reason:        req.Reason,
	})
	s.logger.Info("leave requested",
		zap.String("leave_id", created.ID),
		zap.String("teacher_id", created.TeacherID),
		zap.String("date", created.Date))
	return &created, nil
}

// Update replaces an existing request. Unknown ids are a no-op.
func (s *LeaveService) Update(ctx context.Context, id string, req UpdateLeaveRequest) (*models.LeaveRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid leave payload")
	}
	if !s.store.Loaded() {
		return nil, appErrors.Clone(appErrors.ErrStateNotLoaded, "")
	}

	updated := models.LeaveRequest{
		ID:            id,
		TeacherID:     req.TeacherID,
		Date:          req.Date,
		PeriodNumbers: models.PeriodList(req.PeriodNumbers),
		Reason:        req.Reason,
		Status:        req.Status,
	}
	s.store.UpdateLeave(updated)
	return &updated, nil
}

// Delete removes a request and cascades to its substitute assignments.
func (s *LeaveService) Delete(ctx context.Context, id string) error {
	if !s.store.Loaded() {
		return appErrors.Clone(appErrors.ErrStateNotLoaded, "")
	}
	s.store.DeleteLeave(id)
	return nil
}

// Approve marks the request actionable for substitution.
func (s *LeaveService) Approve(ctx context.Context, id string) error {
	if !s.store.Loaded() {
		return appErrors.Clone(appErrors.ErrStateNotLoaded, "")
	}
	s.store.ApproveLeave(id)
	s.logger.Info("leave approved", zap.String("leave_id", id))
	return nil
}

// Reject declines the request.
func (s *LeaveService) Reject(ctx context.Context, id string) error {
	if !s.store.Loaded() {
		return appErrors.Clone(appErrors.ErrStateNotLoaded, "")
	}
	s.store.RejectLeave(id)
	s.logger.Info("leave rejected", zap.String("leave_id", id))
	return nil
}
