package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/college-admin-api/internal/models"
	appErrors "github.com/noah-isme/college-admin-api/pkg/errors"
)

type departmentRepository interface {
	List(ctx context.Context) ([]models.Department, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// DepartmentService serves the read-only department catalog.
type DepartmentService struct {
	repo   departmentRepository
	cache  *CacheService
	logger *zap.Logger
}

// NewDepartmentService constructs a DepartmentService.
func NewDepartmentService(repo departmentRepository, cache *CacheService, logger *zap.Logger) *DepartmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepartmentService{repo: repo, cache: cache, logger: logger}
}

// List returns every department ordered by code and whether the result came from cache.
func (s *DepartmentService) List(ctx context.Context) ([]models.Department, bool, error) {
	var departments []models.Department
	if hit, _ := s.cache.Get(ctx, cacheKeyDepartments, &departments); hit {
		return departments, true, nil
	}

	departments, err := s.repo.List(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list departments")
	}
	_ = s.cache.Set(ctx, cacheKeyDepartments, departments, 0)
	return departments, false, nil
}

// Exists reports whether a department id is known.
func (s *DepartmentService) Exists(ctx context.Context, id string) (bool, error) {
	return s.repo.Exists(ctx, id)
}
