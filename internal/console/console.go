// Package console hosts the admin views of the terminal front-end: the course catalog editor
// and the class roster browser. Views hold their own state and talk to the API through narrow
// interfaces satisfied by pkg/client.
package console

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/college-admin-api/internal/models"
	"github.com/noah-isme/college-admin-api/pkg/client"
)

// CourseAPI is the subset of the API client used by CourseManager.
type CourseAPI interface {
	GetCourses(ctx context.Context) ([]models.Course, error)
	GetDepartments(ctx context.Context) ([]models.Department, error)
	CreateCourse(ctx context.Context, payload client.CoursePayload) (*models.Course, error)
	UpdateCourse(ctx context.Context, id string, payload client.CoursePayload) (*models.Course, error)
	DeleteCourse(ctx context.Context, id string) error
}

// RosterAPI is the subset of the API client used by ClassRoster.
type RosterAPI interface {
	GetCourseAllocations(ctx context.Context, query client.AllocationQuery) ([]models.CourseAllocation, error)
	GetClassStudents(ctx context.Context, classID string) ([]models.Student, error)
}

// Notifier surfaces transient, non-blocking messages to the operator.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// LogNotifier reports notices as structured log entries.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier builds a LogNotifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// Success implements Notifier.
func (n *LogNotifier) Success(message string) {
	n.logger.Info(message, zap.String("notice", "success"))
}

// Error implements Notifier.
func (n *LogNotifier) Error(message string) {
	n.logger.Warn(message, zap.String("notice", "error"))
}
