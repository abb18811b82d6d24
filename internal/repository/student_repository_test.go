package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentRepositoryListByClass(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM students WHERE class_id = $1 ORDER BY roll_no ASC")).
		WithArgs("cl1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "roll_no", "email", "guardian_mobile", "class_id", "created_at"}).
			AddRow("s1", "John", "R-001", "john@x.com", "9999", "cl1", now).
			AddRow("s2", "Amy", "R-100", "amy@x.com", nil, "cl1", now))

	students, err := repo.ListByClass(context.Background(), "cl1")
	require.NoError(t, err)
	require.Len(t, students, 2)
	require.NotNil(t, students[0].GuardianMobile)
	assert.Equal(t, "9999", *students[0].GuardianMobile)
	assert.Nil(t, students[1].GuardianMobile)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListByClassEmpty(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM students WHERE class_id = $1")).
		WithArgs("cl9").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "roll_no", "email", "guardian_mobile", "class_id", "created_at"}))

	students, err := repo.ListByClass(context.Background(), "cl9")
	require.NoError(t, err)
	assert.NotNil(t, students)
	assert.Empty(t, students)
}
