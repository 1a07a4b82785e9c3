package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolops/substitute-api/internal/models"
	appErrors "github.com/schoolops/substitute-api/pkg/errors"
)

type rosterStore interface {
	Loaded() bool
	AddTeacher(models.Teacher) models.Teacher
	UpdateTeacher(models.Teacher)
	DeleteTeacher(id string)
	AddSubject(models.Subject) models.Subject
	UpdateSubject(models.Subject)
	DeleteSubject(id string)
	AddClass(models.ClassRoom) models.ClassRoom
	UpdateClass(models.ClassRoom)
	DeleteClass(id string)
	AddTimeSlot(models.TimeSlot) models.TimeSlot
	UpdateTimeSlot(models.TimeSlot)
	DeleteTimeSlot(id string)
}

// TeacherRequest represents payload for creating or updating a teacher.
type TeacherRequest struct {
	Name      string      `json:"name" validate:"required"`
	Username  string      `json:"username" validate:"required"`
	Role      models.Role `json:"role" validate:"required,oneof=ADMIN TEACHER"`
	Expertise []string    `json:"expertise"`
	Phone     string      `json:"phone"`
	LineID    string      `json:"lineId"`
}

// SubjectRequest represents payload for creating or updating a subject.
type SubjectRequest struct {
	Code string `json:"code" validate:"required"`
	Name string `json:"name" validate:"required"`
}

// ClassRequest represents payload for creating or updating a class.
type ClassRequest struct {
	Name         string `json:"name" validate:"required"`
	StudentCount int    `json:"studentCount" validate:"min=0"`
	AdvisorID    string `json:"advisorId"`
}

// TimeSlotRequest represents payload for creating or updating a slot.
type TimeSlotRequest struct {
	PeriodNumber int                 `json:"periodNumber" validate:"required,min=1"`
	StartTime    string              `json:"startTime" validate:"required,datetime=15:04"`
	EndTime      string              `json:"endTime" validate:"required,datetime=15:04"`
	Type         models.TimeSlotType `json:"type" validate:"required,oneof=LEARNING BREAK"`
}

// RosterService manages the reference collections: teachers, subjects,
// classes and time slots. Deleting a teacher does not cascade to
// schedules or assignments that reference them.
type RosterService struct {
	store     rosterStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRosterService constructs a RosterService.
func NewRosterService(store rosterStore, validate *validator.Validate, logger *zap.Logger) *RosterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{store: store, validator: validate, logger: logger}
}

func (s *RosterService) guard(req interface{}) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if !s.store.Loaded() {
		return appErrors.Clone(appErrors.ErrStateNotLoaded, "")
	}
	return nil
}

// CreateTeacher registers a new teacher record.
func (s *RosterService) CreateTeacher(ctx context.Context, req TeacherRequest) (*models.Teacher, error) {
	if err := s.guard(req); err != nil {
		return nil, err
	}
	created := s.store.AddTeacher(teacherFromRequest("", req))
	return &created, nil
}

// UpdateTeacher replaces an existing teacher record.
func (s *RosterService) UpdateTeacher(ctx context.Context, id string, req TeacherRequest) (*models.Teacher, error) {
	if err := s.guard(req); err != nil {
		return nil, err
	}
	updated := teacherFromRequest(id, req)
	s.store.UpdateTeacher(updated)
	return &updated, nil
}

// DeleteTeacher removes a teacher record.
func (s *RosterService) DeleteTeacher(ctx context.Context, id string) error {
	if !s.store.Loaded() {
		return appErrors.Clone(appErrors.ErrStateNotLoaded, "")
	}
	s.store.DeleteTeacher(id)
	return nil
}

// CreateSubject registers a new subject.
func (s *RosterService) CreateSubject(ctx context.Context, req SubjectRequest) (*models.Subject, error) {
	if err := s.guard(req); err != nil {
		return nil, err
	}
	created := s.store.AddSubject(models.Subject{Code: req.Code, Name: req.Name})
	return &created, nil
}

// UpdateSubject replaces an existing subject.
func (s *RosterService) UpdateSubject(ctx context.Context, id string, req SubjectRequest) (*models.Subject, error) {
	if err := s.guard(req); err != nil {
		return nil, err
	}
	updated := models.Subject{ID: id, Code: req.Code, Name: req.Name}
	s.store.UpdateSubject(updated)
	return &updated, nil
}

// DeleteSubject removes a subject.
func (s *RosterService) DeleteSubject(ctx context.Context, id string) error {
	if !s.store.Loaded() {
		return appErrors.Clone(appErrors.ErrStateNotLoaded, "")
	}
	s.store.DeleteSubject(id)
	return nil
}

// CreateClass registers a new class.
func (s *RosterService) CreateClass(ctx context.Context, req ClassRequest) (*models.ClassRoom, error) {
	if err := s.guard(req); err != nil {
		return nil, err
	}
	created := s.store.AddClass(models.ClassRoom{Name: req.Name, StudentCount: req.StudentCount, AdvisorID: req.AdvisorID})
	return &created, nil
}

// UpdateClass replaces an existing class.
func (s *RosterService) UpdateClass(ctx context.Context, id string, req ClassRequest) (*models.ClassRoom, error) {
	if err := s.guard(req); err != nil {
		return nil, err
	}
	updated := models.ClassRoom{ID: id, Name: req.Name, StudentCount: req.StudentCount, AdvisorID: req.AdvisorID}
	s.store.UpdateClass(updated)
	return &updated, nil
}

// DeleteClass removes a class.
func (s *RosterService) DeleteClass(ctx context.Context, id string) error {
	if !s.store.Loaded() {
		return appErrors.Clone(appErrors.ErrStateNotLoaded, "")
	}
	s.store.DeleteClass(id)
	return nil
}

// CreateTimeSlot registers a new period.
func (s *RosterService) CreateTimeSlot(ctx context.Context, req TimeSlotRequest) (*models.TimeSlot, error) {
	if err := s.guard(req); err != nil {
		return nil, err
	}
	created := s.store.AddTimeSlot(models.TimeSlot{
		PeriodNumber: req.PeriodNumber,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Type:         req.Type,
	})
	return &created, nil
}

// UpdateTimeSlot replaces an existing period.
func (s *RosterService) UpdateTimeSlot(ctx context.Context, id string, req TimeSlotRequest) (*models.TimeSlot, error) {
	if err := s.guard(req); err != nil {
		return nil, err
	}
	updated := models.TimeSlot{
		ID:           id,
		PeriodNumber: req.PeriodNumber,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Type:         req.Type,
	}
	s.store.UpdateTimeSlot(updated)
	return &updated, nil
}

// DeleteTimeSlot removes a period.
func (s *RosterService) DeleteTimeSlot(ctx context.Context, id string) error {
	if !s.store.Loaded() {
		return appErrors.Clone(appErrors.ErrStateNotLoaded, "")
	}
	s.store.DeleteTimeSlot(id)
	return nil
}

func teacherFromRequest(id string, req TeacherRequest) models.Teacher {
	expertise := req.Expertise
	if expertise == nil {
		expertise = []string{}
	}
	return models.Teacher{
		ID:        id,
		Name:      req.Name,
		Username:  req.Username,
		Role:      req.Role,
		Expertise: expertise,
		Phone:     req.Phone,
		LineID:    req.LineID,
	}
}
