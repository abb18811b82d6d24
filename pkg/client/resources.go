package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/noah-isme/college-admin-api/internal/models"
)

// CoursePayload is the body sent when creating or updating a course.
type CoursePayload struct {
	Code         string                `json:"code"`
	Title        string                `json:"title"`
	Credits      int                   `json:"credits"`
	Category     models.CourseCategory `json:"category"`
	Description  string                `json:"description"`
	Semester     int                   `json:"semester"`
	DepartmentID string                `json:"departmentId"`
}

// AllocationQuery narrows GetCourseAllocations. Empty fields are not sent.
type AllocationQuery struct {
	FacultyID string
	ClassID   string
	CourseID  string
}

func (q AllocationQuery) values() url.Values {
	values := url.Values{}
	if q.FacultyID != "" {
		values.Set("facultyId", q.FacultyID)
	}
	if q.ClassID != "" {
		values.Set("classId", q.ClassID)
	}
	if q.CourseID != "" {
		values.Set("courseId", q.CourseID)
	}
	return values
}

// Login exchanges credentials for an access token. The token is not stored on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	raw, err := c.do(ctx, http.MethodPost, "/auth/login", nil, map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}
	return decodeItem[models.LoginResponse](raw)
}

// Me returns the session bound to the current token.
func (c *Client) Me(ctx context.Context) (*models.SessionUser, error) {
	raw, err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeItem[models.SessionUser](raw)
}

// courseListLimit is the page size requested when walking the catalog.
const courseListLimit = 1000

// GetCourses lists the whole course catalog, following pagination until the reported total is
// reached. Servers that answer without pagination are read in a single request.
func (c *Client) GetCourses(ctx context.Context) ([]models.Course, error) {
	var all []models.Course
	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("page", strconv.Itoa(page))
		query.Set("limit", strconv.Itoa(courseListLimit))

		raw, err := c.do(ctx, http.MethodGet, "/courses", query, nil)
		if err != nil {
			return nil, err
		}
		items, err := decodeList[models.Course](raw)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)

		pagination := decodePagination(raw)
		if pagination == nil || len(items) == 0 || len(all) >= pagination.Total {
			break
		}
	}
	if all == nil {
		all = []models.Course{}
	}
	return all, nil
}

// GetDepartments lists departments.
func (c *Client) GetDepartments(ctx context.Context) ([]models.Department, error) {
	raw, err := c.do(ctx, http.MethodGet, "/departments", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Department](raw)
}

// CreateCourse creates a course.
func (c *Client) CreateCourse(ctx context.Context, payload CoursePayload) (*models.Course, error) {
	raw, err := c.do(ctx, http.MethodPost, "/courses", nil, payload)
	if err != nil {
		return nil, err
	}
	return decodeItem[models.Course](raw)
}

// UpdateCourse replaces the editable fields of a course.
func (c *Client) UpdateCourse(ctx context.Context, id string, payload CoursePayload) (*models.Course, error) {
	raw, err := c.do(ctx, http.MethodPut, "/courses/"+url.PathEscape(id), nil, payload)
	if err != nil {
		return nil, err
	}
	return decodeItem[models.Course](raw)
}

// DeleteCourse deletes a course.
func (c *Client) DeleteCourse(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/courses/"+url.PathEscape(id), nil, nil)
	return err
}

// GetCourseAllocations lists allocations with class, course and faculty populated.
func (c *Client) GetCourseAllocations(ctx context.Context, query AllocationQuery) ([]models.CourseAllocation, error) {
	raw, err := c.do(ctx, http.MethodGet, "/course-allocations", query.values(), nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.CourseAllocation](raw)
}

// GetClassStudents lists the roster of a class.
func (c *Client) GetClassStudents(ctx context.Context, classID string) ([]models.Student, error) {
	raw, err := c.do(ctx, http.MethodGet, "/classes/"+url.PathEscape(classID)+"/students", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Student](raw)
}
