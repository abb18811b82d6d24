package console

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/college-admin-api/internal/models"
	"github.com/noah-isme/college-admin-api/pkg/client"
)

// CourseForm mirrors the create/edit dialog fields.
type CourseForm struct {
	Code         string
	Title        string
	Credits      int
	Category     models.CourseCategory
	Description  string
	Semester     int
	DepartmentID string
}

// DefaultCourseForm returns the blank form shown when creating a course.
func DefaultCourseForm() CourseForm {
	return CourseForm{Credits: 3, Category: models.CourseCategoryCore, Semester: 1}
}

func (f CourseForm) payload() client.CoursePayload {
	return client.CoursePayload{
		Code:         f.Code,
		Title:        f.Title,
		Credits:      f.Credits,
		Category:     f.Category,
		Description:  f.Description,
		Semester:     f.Semester,
		DepartmentID: f.DepartmentID,
	}
}

// CourseRow is one rendered line of the course table.
type CourseRow struct {
	Code       string
	Title      string
	Category   string
	Credits    string
	Semester   string
	Department string
}

// CourseManager is the course catalog editor.
type CourseManager struct {
	api    CourseAPI
	notify Notifier
	logger *zap.Logger

	courses     []models.Course
	departments []models.Department
	form        CourseForm
	editing     *models.Course
	dialogOpen  bool
}

// NewCourseManager constructs a CourseManager with an empty catalog.
func NewCourseManager(api CourseAPI, notify Notifier, logger *zap.Logger) *CourseManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notify == nil {
		notify = NewLogNotifier(logger)
	}
	return &CourseManager{api: api, notify: notify, logger: logger, form: DefaultCourseForm()}
}

// Load fetches courses and departments. A department failure is only logged.
func (m *CourseManager) Load(ctx context.Context) error {
	m.loadDepartments(ctx)
	return m.loadCourses(ctx)
}

func (m *CourseManager) loadCourses(ctx context.Context) error {
	courses, err := m.api.GetCourses(ctx)
	if err != nil {
		m.logger.Error("fetch courses failed", zap.Error(err))
		m.notify.Error("Failed to load courses")
		return err
	}
	m.courses = courses
	return nil
}

func (m *CourseManager) loadDepartments(ctx context.Context) {
	departments, err := m.api.GetDepartments(ctx)
	if err != nil {
		m.logger.Error("fetch departments failed", zap.Error(err))
		return
	}
	m.departments = departments
}

// Courses returns the loaded catalog.
func (m *CourseManager) Courses() []models.Course {
	return m.courses
}

// Departments returns the loaded departments for the form selector.
func (m *CourseManager) Departments() []models.Department {
	return m.departments
}

// OpenCreate opens the dialog with a blank form.
func (m *CourseManager) OpenCreate() {
	m.resetForm()
	m.dialogOpen = true
}

// Edit opens the dialog populated from course.
func (m *CourseManager) Edit(course models.Course) {
	m.editing = &course
	semester := course.Semester
	if semester == 0 {
		semester = 1
	}
	m.form = CourseForm{
		Code:         course.Code,
		Title:        course.Title,
		Credits:      course.Credits,
		Category:     course.Category,
		Description:  course.Description,
		Semester:     semester,
		DepartmentID: course.Department.ID,
	}
	m.dialogOpen = true
}

// CloseDialog dismisses the dialog and discards the form.
func (m *CourseManager) CloseDialog() {
	m.dialogOpen = false
	m.resetForm()
}

// DialogOpen reports whether the create/edit dialog is showing.
func (m *CourseManager) DialogOpen() bool {
	return m.dialogOpen
}

// Editing reports whether the dialog edits an existing course.
func (m *CourseManager) Editing() bool {
	return m.editing != nil
}

// CodeEditable is false while editing; the code of an existing course is locked.
func (m *CourseManager) CodeEditable() bool {
	return m.editing == nil
}

// Form returns the current dialog values.
func (m *CourseManager) Form() CourseForm {
	return m.form
}

// SetForm replaces the dialog values. The code is kept when editing.
func (m *CourseManager) SetForm(form CourseForm) {
	if m.editing != nil {
		form.Code = m.editing.Code
	}
	m.form = form
}

// Submit creates or updates the course in the dialog. On success the dialog closes, the form
// resets and the list reloads; on failure the dialog stays open with the form intact.
func (m *CourseManager) Submit(ctx context.Context) error {
	var err error
	if m.editing != nil {
		_, err = m.api.UpdateCourse(ctx, m.editing.ID, m.form.payload())
	} else {
		_, err = m.api.CreateCourse(ctx, m.form.payload())
	}
	if err != nil {
		m.logger.Error("save course failed", zap.Bool("editing", m.editing != nil), zap.Error(err))
		m.notify.Error(client.MessageOf(err, "Failed to save course"))
		return err
	}

	if m.editing != nil {
		m.notify.Success("Course updated successfully")
	} else {
		m.notify.Success("Course created successfully")
	}
	m.dialogOpen = false
	m.resetForm()
	_ = m.loadCourses(ctx)
	return nil
}

// Delete removes course after confirm agrees. Declining is a no-op.
func (m *CourseManager) Delete(ctx context.Context, course models.Course, confirm Confirmer) error {
	if confirm == nil || !confirm.Confirm(fmt.Sprintf("Are you sure you want to delete %s?", course.Title)) {
		return nil
	}
	if err := m.api.DeleteCourse(ctx, course.ID); err != nil {
		m.logger.Error("delete course failed", zap.String("course_id", course.ID), zap.Error(err))
		m.notify.Error(client.MessageOf(err, "Failed to delete course"))
		return err
	}
	m.notify.Success("Course deleted successfully")
	_ = m.loadCourses(ctx)
	return nil
}

// Rows renders the catalog as table rows.
func (m *CourseManager) Rows() []CourseRow {
	rows := make([]CourseRow, 0, len(m.courses))
	for _, course := range m.courses {
		semester := "-"
		if course.Semester != 0 {
			semester = strconv.Itoa(course.Semester)
		}
		rows = append(rows, CourseRow{
			Code:       course.Code,
			Title:      course.Title,
			Category:   string(course.Category),
			Credits:    strconv.Itoa(course.Credits),
			Semester:   "Semester " + semester,
			Department: departmentLabel(course.Department),
		})
	}
	return rows
}

func departmentLabel(ref models.Ref[models.Department]) string {
	if ref.Value != nil {
		switch {
		case ref.Value.Code != "":
			return ref.Value.Code
		case ref.Value.Name != "":
			return ref.Value.Name
		default:
			return "-"
		}
	}
	if ref.ID != "" {
		return ref.ID
	}
	return "-"
}

func (m *CourseManager) resetForm() {
	m.editing = nil
	m.form = DefaultCourseForm()
}
