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

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

// CreateCourseRequest represents payload for creating a course.
type CreateCourseRequest struct {
	Code         string                `json:"code" validate:"required,max=20"`
	Title        string                `json:"title" validate:"required,max=200"`
	Credits      int                   `json:"credits" validate:"required,min=1,max=6"`
	Category     models.CourseCategory `json:"category" validate:"required,oneof=Core Elective Lab Project"`
	Description  string                `json:"description" validate:"omitempty,max=2000"`
	Semester     int                   `json:"semester" validate:"required,min=1,max=8"`
	DepartmentID string                `json:"departmentId" validate:"required"`
}

// UpdateCourseRequest replaces the editable fields of a course. Code may be echoed back but must
// match the stored code.
type UpdateCourseRequest struct {
	Code         string                `json:"code" validate:"omitempty,max=20"`
	Title        string                `json:"title" validate:"required,max=200"`
	Credits      int                   `json:"credits" validate:"required,min=1,max=6"`
	Category     models.CourseCategory `json:"category" validate:"required,oneof=Core Elective Lab Project"`
	Description  string                `json:"description" validate:"omitempty,max=2000"`
	Semester     int                   `json:"semester" validate:"required,min=1,max=8"`
	DepartmentID string                `json:"departmentId" validate:"required"`
}

// CourseListRequest carries list query parameters.
type CourseListRequest struct {
	Search       string
	DepartmentID string
	Category     string
	Semester     int
	Page         int
	Limit        int
}

type courseListPayload struct {
	Items []models.Course `json:"items"`
	Total int             `json:"total"`
}

// CourseService handles course catalog business logic.
type CourseService struct {
	repo        courseRepository
	departments departmentChecker
	cache       *CacheService
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCourseService constructs a CourseService. cache and metrics may be nil.
func NewCourseService(repo courseRepository, departments departmentChecker, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, departments: departments, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// List returns courses ordered by code. The boolean reports whether the page came from cache.
func (s *CourseService) List(ctx context.Context, req CourseListRequest) ([]models.Course, *models.Pagination, bool, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 100
	}
	search := strings.TrimSpace(req.Search)
	key := courseListKey(search, req.DepartmentID, req.Category, req.Semester, page, limit)

	var cached courseListPayload
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached.Items, &models.Pagination{Page: page, Limit: limit, Total: cached.Total}, true, nil
	}

	courses, total, err := s.repo.List(ctx, models.CourseFilter{
		Search:       search,
		DepartmentID: req.DepartmentID,
		Category:     req.Category,
		Semester:     req.Semester,
		Page:         page,
		PageSize:     limit,
	})
	if err != nil {
		return nil, nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	_ = s.cache.Set(ctx, key, courseListPayload{Items: courses, Total: total}, 0)

	return courses, &models.Pagination{Page: page, Limit: limit, Total: total}, false, nil
}

// Get returns a course by id.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create validates and stores a new course as submitted. Codes are unique regardless of case.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	req.Code = strings.TrimSpace(req.Code)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if err := ensureDepartment(ctx, s.departments, req.DepartmentID); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByCode(ctx, req.Code, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course code already exists")
	}

	course := &models.Course{
		Code:        req.Code,
		Title:       req.Title,
		Credits:     req.Credits,
		Category:    req.Category,
		Description: req.Description,
		Semester:    req.Semester,
		Department:  models.RefTo[models.Department](strings.TrimSpace(req.DepartmentID)),
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	s.afterWrite(ctx, "create", course.ID)

	return s.reload(ctx, course), nil
}

// Update replaces the editable fields of a course. Attempts to change the code are rejected.
func (s *CourseService) Update(ctx context.Context, id string, req UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if code := strings.TrimSpace(req.Code); code != "" && !strings.EqualFold(code, course.Code) {
		return nil, appErrors.Clone(appErrors.ErrImmutableField, "course code cannot be changed")
	}
	departmentID := strings.TrimSpace(req.DepartmentID)
	if departmentID != course.Department.ID {
		if err := ensureDepartment(ctx, s.departments, departmentID); err != nil {
			return nil, err
		}
	}

	course.Title = req.Title
	course.Credits = req.Credits
	course.Category = req.Category
	course.Description = req.Description
	course.Semester = req.Semester
	course.Department = models.RefTo[models.Department](departmentID)

	if err := s.repo.Update(ctx, course); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	s.afterWrite(ctx, "update", course.ID)

	return s.reload(ctx, course), nil
}

// Delete removes a course.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	s.afterWrite(ctx, "delete", id)
	return nil
}

func (s *CourseService) afterWrite(ctx context.Context, action, id string) {
	// A failed invalidation leaves the cached list stale until its TTL expires.
	if err := s.cache.Invalidate(ctx, cacheKeyCoursesAll); err != nil {
		s.metrics.RecordCacheInvalidationFailure("course")
	}
	s.metrics.RecordWrite("course", action)
	s.logger.Info("course written", zap.String("action", action), zap.String("course_id", id))
}

func (s *CourseService) reload(ctx context.Context, course *models.Course) *models.Course {
	fresh, err := s.repo.FindByID(ctx, course.ID)
	if err != nil {
		s.logger.Warn("failed to reload course", zap.String("course_id", course.ID), zap.Error(err))
		return course
	}
	return fresh
}
