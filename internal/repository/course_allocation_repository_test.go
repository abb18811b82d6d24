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

var allocationColumns = []string{
	"id", "course_id", "faculty_id", "class_id", "created_at",
	"course_code", "course_title", "faculty_name", "faculty_email",
	"class_name", "class_department_id", "class_batch_id", "class_created_at",
	"department_code", "department_name", "batch_name", "batch_start_year", "batch_end_year",
}

func TestCourseAllocationRepositoryListPopulatesClass(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseAllocationRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 AND ca.faculty_id = $1 ORDER BY ca.created_at ASC")).
		WithArgs("f1").
		WillReturnRows(sqlmock.NewRows(allocationColumns).
			AddRow("a1", "c1", "f1", "cl1", now, "CS101", "Programming", "Anna", "anna@college.edu",
				"A", "D1", "B1", now, "CSE", "Computer Science", "2024-2028", 2024, 2028).
			AddRow("a2", "c2", "f1", "cl2", now, nil, nil, nil, nil,
				nil, nil, nil, nil, nil, nil, nil, nil, nil))

	allocations, err := repo.List(context.Background(), models.CourseAllocationFilter{FacultyID: "f1"})
	require.NoError(t, err)
	require.Len(t, allocations, 2)

	class := allocations[0].Class
	require.True(t, class.IsResolved())
	assert.Equal(t, "A", class.Value.Name)
	assert.Equal(t, "CSE", class.Value.Department.Value.Code)
	assert.Equal(t, "2024-2028", class.Value.Batch.Value.Name)
	assert.Equal(t, "Programming", allocations[0].Course.Value.Title)

	assert.False(t, allocations[1].Class.IsResolved())
	assert.Equal(t, "cl2", allocations[1].Class.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseAllocationRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseAllocationRepository(db)

	mock.ExpectExec("INSERT INTO course_allocations").
		WithArgs(sqlmock.AnyArg(), "c1", "f1", "cl1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	allocation := &models.CourseAllocation{
		Course:  models.RefTo[models.Course]("c1"),
		Faculty: models.RefTo[models.Faculty]("f1"),
		Class:   models.RefTo[models.Class]("cl1"),
	}
	require.NoError(t, repo.Create(context.Background(), allocation))
	assert.NotEmpty(t, allocation.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
