package console

import (
	"context"
	"errors"
	"sync"

	"github.com/noah-isme/college-admin-api/internal/models"
	"github.com/noah-isme/college-admin-api/pkg/client"
)

type recordingNotifier struct {
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(message string) { n.successes = append(n.successes, message) }
func (n *recordingNotifier) Error(message string)   { n.errors = append(n.errors, message) }

type fakeAPI struct {
	mu sync.Mutex

	courses     []models.Course
	departments []models.Department
	coursesErr  error
	deptErr     error
	saveErr     error
	deleteErr   error

	created []client.CoursePayload
	updated map[string]client.CoursePayload
	deleted []string

	allocations    []models.CourseAllocation
	allocationsErr error
	queries        []client.AllocationQuery
	students       map[string][]models.Student
	studentErrs    map[string]error
	fetched        []string
	courseLoads    int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		updated:     map[string]client.CoursePayload{},
		students:    map[string][]models.Student{},
		studentErrs: map[string]error{},
	}
}

func (f *fakeAPI) GetCourses(ctx context.Context) ([]models.Course, error) {
	f.courseLoads++
	if f.coursesErr != nil {
		return nil, f.coursesErr
	}
	return f.courses, nil
}

func (f *fakeAPI) GetDepartments(ctx context.Context) ([]models.Department, error) {
	if f.deptErr != nil {
		return nil, f.deptErr
	}
	return f.departments, nil
}

func (f *fakeAPI) CreateCourse(ctx context.Context, payload client.CoursePayload) (*models.Course, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.created = append(f.created, payload)
	return &models.Course{ID: "new", Code: payload.Code}, nil
}

func (f *fakeAPI) UpdateCourse(ctx context.Context, id string, payload client.CoursePayload) (*models.Course, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.updated[id] = payload
	return &models.Course{ID: id, Code: payload.Code}, nil
}

func (f *fakeAPI) DeleteCourse(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAPI) GetCourseAllocations(ctx context.Context, query client.AllocationQuery) ([]models.CourseAllocation, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.allocationsErr != nil {
		return nil, f.allocationsErr
	}
	if query.FacultyID == "" {
		return f.allocations, nil
	}
	var matched []models.CourseAllocation
	for _, allocation := range f.allocations {
		if allocation.Faculty.ID == query.FacultyID {
			matched = append(matched, allocation)
		}
	}
	return matched, nil
}

func (f *fakeAPI) GetClassStudents(ctx context.Context, classID string) ([]models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, classID)
	if err := f.studentErrs[classID]; err != nil {
		return nil, err
	}
	return f.students[classID], nil
}

var errNetwork = errors.New("connection refused")
