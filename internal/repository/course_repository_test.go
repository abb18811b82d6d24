package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-admin-api/internal/models"
)

var courseColumns = []string{"id", "code", "title", "credits", "category", "description", "semester", "department_id", "created_at", "updated_at", "department_code", "department_name"}

func TestCourseRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 AND c.category = $1 AND c.semester = $2 ORDER BY c.code ASC LIMIT 100 OFFSET 0")).
		WithArgs("Lab", 3).
		WillReturnRows(sqlmock.NewRows(courseColumns).
			AddRow("c1", "CS301", "Networks Lab", 2, "Lab", "", 3, "D1", now, now, "CSE", "Computer Science"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM courses c WHERE 1=1 AND c.category = $1 AND c.semester = $2")).
		WithArgs("Lab", 3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	courses, total, err := repo.List(context.Background(), models.CourseFilter{Category: "Lab", Semester: 3})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, models.CourseCategoryLab, courses[0].Category)
	assert.Equal(t, "CSE", courses[0].Department.Value.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryUpdateNeverWritesCode(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE courses SET title = $2, credits = $3, category = $4, description = $5, semester = $6, department_id = $7, updated_at = $8")).
		WithArgs("c1", "Networks", 4, "Core", "desc", 5, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), &models.Course{
		ID: "c1", Code: "IGNORED", Title: "Networks", Credits: 4, Category: models.CourseCategoryCore,
		Description: "desc", Semester: 5, Department: models.RefTo[models.Department]("D1"),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryExistsByCode(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM courses WHERE UPPER(code) = UPPER($1) LIMIT 1")).
		WithArgs("cs101").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	exists, err := repo.ExistsByCode(context.Background(), "cs101", "")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
