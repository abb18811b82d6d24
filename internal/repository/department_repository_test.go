package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepartmentRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDepartmentRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM departments ORDER BY code ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "created_at", "updated_at"}).
			AddRow("d1", "CSE", "Computer Science", now, now).
			AddRow("d2", "ECE", "Electronics", now, now))

	departments, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, departments, 2)
	assert.Equal(t, "CSE", departments[0].Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepartmentRepositoryExists(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDepartmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM departments WHERE id = $1")).
		WithArgs("d1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM departments WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	exists, err := repo.Exists(context.Background(), "d1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
