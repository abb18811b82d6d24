package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/college-admin-api/internal/models"
	appErrors "github.com/noah-isme/college-admin-api/pkg/errors"
)

// PasswordHashCost is the bcrypt work factor applied to faculty passwords.
const PasswordHashCost = 10

type facultyRepository interface {
	List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, int, error)
	FindByID(ctx context.Context, id string) (*models.Faculty, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	Create(ctx context.Context, faculty *models.Faculty) error
	Update(ctx context.Context, faculty *models.Faculty) error
	Delete(ctx context.Context, id string) error
}

type departmentChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// CreateFacultyRequest represents payload for creating faculty members.
type CreateFacultyRequest struct {
	Name         string             `json:"name" validate:"required,max=120"`
	Email        string             `json:"email" validate:"required,email"`
	Password     string             `json:"password" validate:"required,min=6"`
	DepartmentID string             `json:"departmentId" validate:"required"`
	Designation  *string            `json:"designation" validate:"omitempty,max=120"`
	Phone        *string            `json:"phone" validate:"omitempty,max=30"`
	Role         models.FacultyRole `json:"role" validate:"omitempty,oneof=ADMIN FACULTY"`
}

// UpdateFacultyRequest is a partial update; nil fields keep their stored value.
type UpdateFacultyRequest struct {
	Name         *string             `json:"name" validate:"omitempty,min=1,max=120"`
	Email        *string             `json:"email" validate:"omitempty,email"`
	Password     *string             `json:"password" validate:"omitempty,min=6"`
	DepartmentID *string             `json:"departmentId" validate:"omitempty,min=1"`
	Designation  *string             `json:"designation" validate:"omitempty,max=120"`
	Phone        *string             `json:"phone" validate:"omitempty,max=30"`
	Role         *models.FacultyRole `json:"role" validate:"omitempty,oneof=ADMIN FACULTY"`
}

// FacultyListRequest carries list query parameters.
type FacultyListRequest struct {
	Page         int
	Limit        int
	Search       string
	DepartmentID string
}

// FacultyService orchestrates faculty record management.
type FacultyService struct {
	repo         facultyRepository
	departments  departmentChecker
	validator    *validator.Validate
	logger       *zap.Logger
	defaultLimit int
}

// NewFacultyService constructs a FacultyService.
func NewFacultyService(repo facultyRepository, departments departmentChecker, validate *validator.Validate, logger *zap.Logger, defaultLimit int) *FacultyService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultLimit <= 0 {
		defaultLimit = 1000
	}
	return &FacultyService{repo: repo, departments: departments, validator: validate, logger: logger, defaultLimit: defaultLimit}
}

// List returns a page of faculty sorted by name and the total matching count.
func (s *FacultyService) List(ctx context.Context, req FacultyListRequest) ([]models.Faculty, *models.Pagination, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}

	faculty, total, err := s.repo.List(ctx, models.FacultyFilter{
		Search:       strings.TrimSpace(req.Search),
		DepartmentID: strings.TrimSpace(req.DepartmentID),
		Page:         page,
		Limit:        limit,
	})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list faculty")
	}
	return faculty, &models.Pagination{Page: page, Limit: limit, Total: total}, nil
}

// Get returns a faculty member by id.
func (s *FacultyService) Get(ctx context.Context, id string) (*models.Faculty, error) {
	faculty, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	return faculty, nil
}

// Create hashes the supplied password and persists a new faculty member.
func (s *FacultyService) Create(ctx context.Context, req CreateFacultyRequest) (*models.Faculty, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid faculty payload")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := ensureDepartment(ctx, s.departments, req.DepartmentID); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueEmail(ctx, email, ""); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = models.RoleFaculty
	}
	faculty := &models.Faculty{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		Department:   models.RefTo[models.Department](strings.TrimSpace(req.DepartmentID)),
		Designation:  normalizeOptional(req.Designation),
		Phone:        normalizeOptional(req.Phone),
		Role:         role,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, faculty); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create faculty")
	}
	s.logger.Info("faculty created", zap.String("faculty_id", faculty.ID), zap.String("department_id", faculty.Department.ID))

	return s.reload(ctx, faculty)
}

// Update applies a partial update. The password is rehashed only when a new one is supplied.
func (s *FacultyService) Update(ctx context.Context, id string, req UpdateFacultyRequest) (*models.Faculty, error) {
	if req.Password != nil && strings.TrimSpace(*req.Password) == "" {
		req.Password = nil
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid faculty payload")
	}

	faculty, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		faculty.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != faculty.Email {
			if err := s.ensureUniqueEmail(ctx, email, id); err != nil {
				return nil, err
			}
		}
		faculty.Email = email
	}
	if req.DepartmentID != nil {
		departmentID := strings.TrimSpace(*req.DepartmentID)
		if departmentID != faculty.Department.ID {
			if err := ensureDepartment(ctx, s.departments, departmentID); err != nil {
				return nil, err
			}
		}
		faculty.Department = models.RefTo[models.Department](departmentID)
	}
	if req.Designation != nil {
		faculty.Designation = normalizeOptional(req.Designation)
	}
	if req.Phone != nil {
		faculty.Phone = normalizeOptional(req.Phone)
	}
	if req.Role != nil {
		faculty.Role = *req.Role
	}
	if req.Password != nil {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		faculty.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, faculty); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update faculty")
	}
	s.logger.Info("faculty updated", zap.String("faculty_id", id), zap.Bool("password_changed", req.Password != nil))

	return s.reload(ctx, faculty)
}

// Delete removes a faculty member.
func (s *FacultyService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete faculty")
	}
	s.logger.Info("faculty deleted", zap.String("faculty_id", id))
	return nil
}

// reload re-reads the record so the department comes back populated.
func (s *FacultyService) reload(ctx context.Context, faculty *models.Faculty) (*models.Faculty, error) {
	fresh, err := s.repo.FindByID(ctx, faculty.ID)
	if err != nil {
		s.logger.Warn("failed to reload faculty", zap.String("faculty_id", faculty.ID), zap.Error(err))
		return faculty, nil
	}
	return fresh, nil
}

func (s *FacultyService) ensureUniqueEmail(ctx context.Context, email, excludeID string) error {
	exists, err := s.repo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email uniqueness")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "email already used")
	}
	return nil
}

// ensureDepartment rejects references to unknown departments with a validation error.
func ensureDepartment(ctx context.Context, departments departmentChecker, id string) error {
	if departments == nil {
		return nil
	}
	exists, err := departments.Exists(ctx, strings.TrimSpace(id))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check department")
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrValidation, "department does not exist")
	}
	return nil
}

func hashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordHashCost)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	return string(hash), nil
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
