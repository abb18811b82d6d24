package console

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-admin-api/internal/models"
	"github.com/noah-isme/college-admin-api/pkg/client"
)

func cseRef() models.Ref[models.Department] {
	return models.Resolved("d1", &models.Department{ID: "d1", Code: "CSE", Name: "Computer Science"})
}

func TestCourseManagerCreateResetsFormAndReloads(t *testing.T) {
	api := newFakeAPI()
	notifier := &recordingNotifier{}
	manager := NewCourseManager(api, notifier, nil)
	require.NoError(t, manager.Load(context.Background()))

	manager.OpenCreate()
	assert.True(t, manager.DialogOpen())
	assert.True(t, manager.CodeEditable())
	assert.Equal(t, DefaultCourseForm(), manager.Form())

	manager.SetForm(CourseForm{Code: "CS201", Title: "Data Structures", Credits: 4, Category: models.CourseCategoryCore, Semester: 3, DepartmentID: "d1"})
	require.NoError(t, manager.Submit(context.Background()))

	require.Len(t, api.created, 1)
	assert.Equal(t, "CS201", api.created[0].Code)
	assert.Equal(t, []string{"Course created successfully"}, notifier.successes)
	assert.False(t, manager.DialogOpen())
	assert.Equal(t, CourseForm{Credits: 3, Category: models.CourseCategoryCore, Semester: 1}, manager.Form())
	assert.Equal(t, 2, api.courseLoads)
}

func TestCourseManagerFailedSubmitKeepsDialogOpen(t *testing.T) {
	api := newFakeAPI()
	api.saveErr = &client.APIError{Status: 409, Message: "course code already exists"}
	notifier := &recordingNotifier{}
	manager := NewCourseManager(api, notifier, nil)

	manager.OpenCreate()
	form := CourseForm{Code: "CS101", Title: "Intro", Credits: 3, Category: models.CourseCategoryCore, Semester: 1, DepartmentID: "d1"}
	manager.SetForm(form)
	require.Error(t, manager.Submit(context.Background()))

	assert.True(t, manager.DialogOpen())
	assert.Equal(t, form, manager.Form())
	assert.Equal(t, []string{"course code already exists"}, notifier.errors)
	assert.Empty(t, notifier.successes)

	api.saveErr = errNetwork
	require.Error(t, manager.Submit(context.Background()))
	assert.Equal(t, "Failed to save course", notifier.errors[1])
}

func TestCourseManagerEditLocksCode(t *testing.T) {
	api := newFakeAPI()
	notifier := &recordingNotifier{}
	manager := NewCourseManager(api, notifier, nil)

	course := models.Course{ID: "c1", Code: "CS101", Title: "Intro", Credits: 3, Category: models.CourseCategoryLab, Department: cseRef()}
	manager.Edit(course)

	assert.False(t, manager.CodeEditable())
	form := manager.Form()
	assert.Equal(t, "d1", form.DepartmentID)
	assert.Equal(t, 1, form.Semester)

	form.Code = "CS999"
	form.Title = "Intro to Programming"
	manager.SetForm(form)
	require.NoError(t, manager.Submit(context.Background()))

	payload := api.updated["c1"]
	assert.Equal(t, "CS101", payload.Code)
	assert.Equal(t, "Intro to Programming", payload.Title)
	assert.Equal(t, []string{"Course updated successfully"}, notifier.successes)
	assert.True(t, manager.CodeEditable())
}

func TestCourseManagerCloseDialogDiscardsEdit(t *testing.T) {
	api := newFakeAPI()
	manager := NewCourseManager(api, &recordingNotifier{}, nil)

	manager.Edit(models.Course{ID: "c1", Code: "CS101", Title: "Intro", Credits: 4, Department: cseRef()})
	require.True(t, manager.DialogOpen())

	manager.CloseDialog()

	assert.False(t, manager.DialogOpen())
	assert.False(t, manager.Editing())
	assert.True(t, manager.CodeEditable())
	assert.Equal(t, DefaultCourseForm(), manager.Form())
	assert.Empty(t, api.updated)
}

func TestCourseManagerEditAcceptsUnresolvedDepartment(t *testing.T) {
	manager := NewCourseManager(newFakeAPI(), &recordingNotifier{}, nil)
	manager.Edit(models.Course{ID: "c1", Code: "CS101", Semester: 5, Department: models.RefTo[models.Department]("d7")})

	assert.Equal(t, "d7", manager.Form().DepartmentID)
	assert.Equal(t, 5, manager.Form().Semester)
}

func TestCourseManagerDelete(t *testing.T) {
	api := newFakeAPI()
	notifier := &recordingNotifier{}
	manager := NewCourseManager(api, notifier, nil)
	course := models.Course{ID: "c1", Title: "Intro"}

	var prompt string
	decline := ConfirmFunc(func(p string) bool { prompt = p; return false })
	require.NoError(t, manager.Delete(context.Background(), course, decline))
	assert.Equal(t, "Are you sure you want to delete Intro?", prompt)
	assert.Empty(t, api.deleted)
	assert.Zero(t, api.courseLoads)

	accept := ConfirmFunc(func(string) bool { return true })
	require.NoError(t, manager.Delete(context.Background(), course, accept))
	assert.Equal(t, []string{"c1"}, api.deleted)
	assert.Equal(t, []string{"Course deleted successfully"}, notifier.successes)
	assert.Equal(t, 1, api.courseLoads)

	api.deleteErr = errNetwork
	require.Error(t, manager.Delete(context.Background(), course, accept))
	assert.Equal(t, []string{"Failed to delete course"}, notifier.errors)
}

func TestCourseManagerLoadFailures(t *testing.T) {
	api := newFakeAPI()
	api.deptErr = errNetwork
	api.courses = []models.Course{{ID: "c1", Code: "CS101"}}
	notifier := &recordingNotifier{}
	manager := NewCourseManager(api, notifier, nil)

	require.NoError(t, manager.Load(context.Background()))
	assert.Empty(t, notifier.errors)
	assert.Len(t, manager.Courses(), 1)

	api.coursesErr = errNetwork
	require.Error(t, manager.Load(context.Background()))
	assert.Equal(t, []string{"Failed to load courses"}, notifier.errors)
	assert.Len(t, manager.Courses(), 1)
}

func TestCourseManagerRows(t *testing.T) {
	api := newFakeAPI()
	api.courses = []models.Course{
		{ID: "c1", Code: "CS101", Title: "Intro", Credits: 3, Category: models.CourseCategoryCore, Semester: 1, Department: cseRef()},
		{ID: "c2", Code: "CS102", Title: "Lab", Credits: 2, Category: models.CourseCategoryLab, Department: models.RefTo[models.Department]("d9")},
		{ID: "c3", Code: "CS103", Title: "Project", Credits: 6, Category: models.CourseCategoryProject, Semester: 8},
	}
	manager := NewCourseManager(api, &recordingNotifier{}, nil)
	require.NoError(t, manager.Load(context.Background()))

	rows := manager.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, CourseRow{Code: "CS101", Title: "Intro", Category: "Core", Credits: "3", Semester: "Semester 1", Department: "CSE"}, rows[0])
	assert.Equal(t, "Semester -", rows[1].Semester)
	assert.Equal(t, "d9", rows[1].Department)
	assert.Equal(t, "-", rows[2].Department)
}
