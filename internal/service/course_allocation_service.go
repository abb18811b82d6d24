package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/college-admin-api/internal/models"
	appErrors "github.com/noah-isme/college-admin-api/pkg/errors"
)

type courseAllocationRepository interface {
	List(ctx context.Context, filter models.CourseAllocationFilter) ([]models.CourseAllocation, error)
	FindByID(ctx context.Context, id string) (*models.CourseAllocation, error)
	Exists(ctx context.Context, courseID, facultyID, classID string) (bool, error)
	Create(ctx context.Context, allocation *models.CourseAllocation) error
	Delete(ctx context.Context, id string) error
}

type courseLookup interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type facultyLookup interface {
	FindByID(ctx context.Context, id string) (*models.Faculty, error)
}

type classLookup interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

// CreateCourseAllocationRequest links a faculty member to a course taught to a class.
type CreateCourseAllocationRequest struct {
	CourseID  string `json:"courseId" validate:"required"`
	FacultyID string `json:"facultyId" validate:"required"`
	ClassID   string `json:"classId" validate:"required"`
}

// CourseAllocationService manages teaching assignments.
type CourseAllocationService struct {
	repo      courseAllocationRepository
	courses   courseLookup
	faculty   facultyLookup
	classes   classLookup
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseAllocationService constructs a CourseAllocationService.
func NewCourseAllocationService(repo courseAllocationRepository, courses courseLookup, faculty facultyLookup, classes classLookup, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *CourseAllocationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseAllocationService{
		repo:      repo,
		courses:   courses,
		faculty:   faculty,
		classes:   classes,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// List returns allocations matching the filter with references populated.
func (s *CourseAllocationService) List(ctx context.Context, filter models.CourseAllocationFilter) ([]models.CourseAllocation, error) {
	filter.FacultyID = strings.TrimSpace(filter.FacultyID)
	filter.ClassID = strings.TrimSpace(filter.ClassID)
	filter.CourseID = strings.TrimSpace(filter.CourseID)

	allocations, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list course allocations")
	}
	return allocations, nil
}

// Create validates the referenced entities and stores a new allocation.
func (s *CourseAllocationService) Create(ctx context.Context, req CreateCourseAllocationRequest) (*models.CourseAllocation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course allocation payload")
	}

	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		return nil, referenceError(err, "course")
	}
	if _, err := s.faculty.FindByID(ctx, req.FacultyID); err != nil {
		return nil, referenceError(err, "faculty")
	}
	if _, err := s.classes.FindByID(ctx, req.ClassID); err != nil {
		return nil, referenceError(err, "class")
	}

	exists, err := s.repo.Exists(ctx, req.CourseID, req.FacultyID, req.ClassID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course allocation")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course allocation already exists")
	}

	allocation := &models.CourseAllocation{
		Course:  models.RefTo[models.Course](req.CourseID),
		Faculty: models.RefTo[models.Faculty](req.FacultyID),
		Class:   models.RefTo[models.Class](req.ClassID),
	}
	if err := s.repo.Create(ctx, allocation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course allocation")
	}
	s.metrics.RecordWrite("course_allocation", "create")
	s.logger.Info("course allocated",
		zap.String("allocation_id", allocation.ID),
		zap.String("course_id", req.CourseID),
		zap.String("faculty_id", req.FacultyID),
		zap.String("class_id", req.ClassID),
	)

	if fresh, err := s.repo.FindByID(ctx, allocation.ID); err == nil {
		return fresh, nil
	}
	return allocation, nil
}

// Delete removes an allocation.
func (s *CourseAllocationService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course allocation not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course allocation")
	}
	s.metrics.RecordWrite("course_allocation", "delete")
	return nil
}

func referenceError(err error, entity string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrValidation, entity+" does not exist")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load "+entity)
}
