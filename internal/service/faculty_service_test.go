package service

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/college-admin-api/internal/models"
	appErrors "github.com/noah-isme/college-admin-api/pkg/errors"
)

type mockFacultyRepo struct {
	items      map[string]*models.Faculty
	lastFilter models.FacultyFilter
	listErr    error
}

func (m *mockFacultyRepo) List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, int, error) {
	m.lastFilter = filter
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	out := make([]models.Faculty, 0, len(m.items))
	for _, item := range m.items {
		out = append(out, *item)
	}
	return out, len(out), nil
}

func (m *mockFacultyRepo) FindByID(ctx context.Context, id string) (*models.Faculty, error) {
	if faculty, ok := m.items[id]; ok {
		cp := *faculty
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockFacultyRepo) FindByEmail(ctx context.Context, email string) (*models.Faculty, error) {
	for _, faculty := range m.items {
		if faculty.Email == email {
			cp := *faculty
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockFacultyRepo) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	for id, faculty := range m.items {
		if strings.EqualFold(faculty.Email, email) && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockFacultyRepo) Create(ctx context.Context, faculty *models.Faculty) error {
	if m.items == nil {
		m.items = make(map[string]*models.Faculty)
	}
	if faculty.ID == "" {
		faculty.ID = "generated"
	}
	faculty.CreatedAt = time.Now()
	faculty.UpdatedAt = faculty.CreatedAt
	cp := *faculty
	m.items[faculty.ID] = &cp
	return nil
}

func (m *mockFacultyRepo) Update(ctx context.Context, faculty *models.Faculty) error {
	if _, ok := m.items[faculty.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *faculty
	m.items[faculty.ID] = &cp
	return nil
}

func (m *mockFacultyRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

type stubDepartments map[string]bool

func (s stubDepartments) Exists(ctx context.Context, id string) (bool, error) {
	return s[id], nil
}

func statusOf(err error) int {
	return appErrors.StatusOf(err)
}

func newFacultyService(repo *mockFacultyRepo) *FacultyService {
	return NewFacultyService(repo, stubDepartments{"d1": true, "d2": true}, validator.New(), zap.NewNop(), 0)
}

func seededFaculty(t *testing.T) *mockFacultyRepo {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("original-secret"), bcrypt.MinCost)
	require.NoError(t, err)
	return &mockFacultyRepo{items: map[string]*models.Faculty{
		"f1": {
			ID:           "f1",
			Name:         "Ada Lovelace",
			Email:        "ada@college.edu",
			Department:   models.RefTo[models.Department]("d1"),
			Role:         models.RoleFaculty,
			PasswordHash: string(hash),
		},
	}}
}

func TestFacultyServiceListDefaults(t *testing.T) {
	repo := seededFaculty(t)
	svc := newFacultyService(repo)

	items, pagination, err := svc.List(context.Background(), FacultyListRequest{Search: "  ada "})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, &models.Pagination{Page: 1, Limit: 1000, Total: 1}, pagination)
	assert.Equal(t, "ada", repo.lastFilter.Search)
	assert.Equal(t, 1000, repo.lastFilter.Limit)
}

func TestFacultyServiceListHonoursConfiguredLimit(t *testing.T) {
	repo := seededFaculty(t)
	svc := NewFacultyService(repo, nil, nil, nil, 50)

	_, pagination, err := svc.List(context.Background(), FacultyListRequest{Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, pagination.Page)
	assert.Equal(t, 50, pagination.Limit)
}

func TestFacultyServiceCreateHashesPassword(t *testing.T) {
	repo := &mockFacultyRepo{}
	svc := newFacultyService(repo)

	faculty, err := svc.Create(context.Background(), CreateFacultyRequest{
		Name:         "Grace Hopper",
		Email:        "Grace@College.edu",
		Password:     "s3cret-pass",
		DepartmentID: "d1",
	})
	require.NoError(t, err)
	assert.Equal(t, "grace@college.edu", faculty.Email)
	assert.Equal(t, models.RoleFaculty, faculty.Role)

	stored := repo.items[faculty.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "s3cret-pass", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret-pass")))
	cost, err := bcrypt.Cost([]byte(stored.PasswordHash))
	require.NoError(t, err)
	assert.Equal(t, PasswordHashCost, cost)
}

func TestFacultyServiceCreateDuplicateEmail(t *testing.T) {
	svc := newFacultyService(seededFaculty(t))

	_, err := svc.Create(context.Background(), CreateFacultyRequest{
		Name:         "Another Ada",
		Email:        "ADA@college.edu",
		Password:     "password1",
		DepartmentID: "d1",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, statusOf(err))
}

func TestFacultyServiceCreateValidation(t *testing.T) {
	svc := newFacultyService(&mockFacultyRepo{})

	_, err := svc.Create(context.Background(), CreateFacultyRequest{Name: "No Email", Password: "password1", DepartmentID: "d1"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	_, err = svc.Create(context.Background(), CreateFacultyRequest{Name: "Bad Dept", Email: "x@college.edu", Password: "password1", DepartmentID: "missing"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, statusOf(err))
}

func TestFacultyServiceUpdateWithoutPasswordKeepsHash(t *testing.T) {
	repo := seededFaculty(t)
	before := repo.items["f1"].PasswordHash
	svc := newFacultyService(repo)

	name := "Ada King"
	empty := ""
	updated, err := svc.Update(context.Background(), "f1", UpdateFacultyRequest{Name: &name, Password: &empty})
	require.NoError(t, err)
	assert.Equal(t, "Ada King", updated.Name)
	assert.Equal(t, before, repo.items["f1"].PasswordHash)
}

func TestFacultyServiceUpdateWithPasswordRehashes(t *testing.T) {
	repo := seededFaculty(t)
	before := repo.items["f1"].PasswordHash
	svc := newFacultyService(repo)

	password := "brand-new-secret"
	_, err := svc.Update(context.Background(), "f1", UpdateFacultyRequest{Password: &password})
	require.NoError(t, err)

	after := repo.items["f1"].PasswordHash
	assert.NotEqual(t, before, after)
	assert.NotEqual(t, password, after)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(after), []byte(password)))
}

func TestFacultyServiceUpdateChecksReferences(t *testing.T) {
	repo := seededFaculty(t)
	repo.items["f2"] = &models.Faculty{ID: "f2", Name: "Other", Email: "other@college.edu", Department: models.RefTo[models.Department]("d2")}
	svc := newFacultyService(repo)

	taken := "other@college.edu"
	_, err := svc.Update(context.Background(), "f1", UpdateFacultyRequest{Email: &taken})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, statusOf(err))

	department := "nowhere"
	_, err = svc.Update(context.Background(), "f1", UpdateFacultyRequest{DepartmentID: &department})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	moved := "d2"
	updated, err := svc.Update(context.Background(), "f1", UpdateFacultyRequest{DepartmentID: &moved})
	require.NoError(t, err)
	assert.Equal(t, "d2", updated.Department.ID)
}

func TestFacultyServiceUpdateMissing(t *testing.T) {
	svc := newFacultyService(&mockFacultyRepo{})

	name := "Ghost"
	_, err := svc.Update(context.Background(), "nope", UpdateFacultyRequest{Name: &name})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, statusOf(err))
}

func TestFacultyServiceDelete(t *testing.T) {
	repo := seededFaculty(t)
	svc := newFacultyService(repo)

	require.NoError(t, svc.Delete(context.Background(), "f1"))
	assert.Empty(t, repo.items)

	err := svc.Delete(context.Background(), "f1")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, statusOf(err))
}
