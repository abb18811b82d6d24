package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/college-admin-api/internal/models"
	appErrors "github.com/noah-isme/college-admin-api/pkg/errors"
	"github.com/noah-isme/college-admin-api/pkg/export"
)

type classRepository interface {
	List(ctx context.Context, departmentID string) ([]models.Class, error)
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

type studentRepository interface {
	ListByClass(ctx context.Context, classID string) ([]models.Student, error)
}

// RosterExport is a rendered roster ready to be streamed to the client.
type RosterExport struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ClassService exposes classes and their student rosters.
type ClassService struct {
	classes  classRepository
	students studentRepository
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewClassService constructs a ClassService.
func NewClassService(classes classRepository, students studentRepository, metrics *MetricsService, logger *zap.Logger) *ClassService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{classes: classes, students: students, metrics: metrics, logger: logger}
}

// List returns classes with department and batch populated.
func (s *ClassService) List(ctx context.Context, departmentID string) ([]models.Class, error) {
	classes, err := s.classes.List(ctx, strings.TrimSpace(departmentID))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	return classes, nil
}

// Get returns a class by id.
func (s *ClassService) Get(ctx context.Context, id string) (*models.Class, error) {
	class, err := s.classes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return class, nil
}

// Students returns the roster of a class ordered by roll number.
func (s *ClassService) Students(ctx context.Context, classID string) ([]models.Student, error) {
	if _, err := s.Get(ctx, classID); err != nil {
		return nil, err
	}
	students, err := s.students.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}

// ExportRoster renders the roster of a class as CSV or PDF.
func (s *ClassService) ExportRoster(ctx context.Context, classID, format string) (*RosterExport, error) {
	parsed, err := export.ParseFormat(format)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "format must be csv or pdf")
	}
	renderer, err := export.NewRenderer(parsed)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "format must be csv or pdf")
	}

	class, err := s.Get(ctx, classID)
	if err != nil {
		return nil, err
	}
	students, err := s.students.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}

	dataset := export.Dataset{
		Title:   models.ClassLabel(*class),
		Headers: []string{"Roll No", "Name", "Email", "Guardian Mobile"},
		Rows:    make([][]string, 0, len(students)),
	}
	for _, student := range students {
		guardian := ""
		if student.GuardianMobile != nil {
			guardian = *student.GuardianMobile
		}
		dataset.Rows = append(dataset.Rows, []string{student.RollNo, student.Name, student.Email, guardian})
	}

	body, err := renderer.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster")
	}
	s.metrics.RecordRosterExport(string(parsed))
	s.logger.Info("roster exported", zap.String("class_id", classID), zap.String("format", string(parsed)), zap.Int("students", len(students)))

	return &RosterExport{
		Filename:    fmt.Sprintf("roster-%s.%s", rosterSlug(class.Name, class.ID), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

func rosterSlug(name, fallback string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, strings.TrimSpace(name))
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return fallback
	}
	return slug
}
