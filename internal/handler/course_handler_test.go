package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-admin-api/internal/middleware"
	"github.com/noah-isme/college-admin-api/internal/models"
	"github.com/noah-isme/college-admin-api/internal/service"
	appErrors "github.com/noah-isme/college-admin-api/pkg/errors"
)

type fakeCourseSrv struct {
	lastList   service.CourseListRequest
	listHit    bool
	updateErr  error
	lastUpdate service.UpdateCourseRequest
}

func (f *fakeCourseSrv) List(_ context.Context, req service.CourseListRequest) ([]models.Course, *models.Pagination, bool, error) {
	f.lastList = req
	return []models.Course{{ID: "c1", Code: "CS101", Department: models.Resolved("d1", &models.Department{ID: "d1", Code: "CSE"})}},
		&models.Pagination{Page: 1, Limit: 100, Total: 1}, f.listHit, nil
}

func (f *fakeCourseSrv) Get(_ context.Context, id string) (*models.Course, error) {
	return &models.Course{ID: id, Code: "CS101"}, nil
}

func (f *fakeCourseSrv) Create(_ context.Context, req service.CreateCourseRequest) (*models.Course, error) {
	return &models.Course{ID: "c2", Code: req.Code}, nil
}

func (f *fakeCourseSrv) Update(_ context.Context, id string, req service.UpdateCourseRequest) (*models.Course, error) {
	f.lastUpdate = req
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &models.Course{ID: id, Code: "CS101", Title: req.Title}, nil
}

func (f *fakeCourseSrv) Delete(_ context.Context, id string) error {
	return nil
}

func TestCourseHandlerListReportsCacheHit(t *testing.T) {
	srv := &fakeCourseSrv{listHit: true}
	handler := NewCourseHandler(srv)

	c, rec := newTestContext(http.MethodGet, "/courses?category=Lab&semester=3&search=cs", nil)
	middleware.WithResponseMeta()(c)
	handler.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, true, env.Meta["cacheHit"])
	assert.Contains(t, string(env.Data), `"departmentId":{"id":"d1","code":"CSE"`)
	assert.Equal(t, "Lab", srv.lastList.Category)
	assert.Equal(t, 3, srv.lastList.Semester)
	assert.Equal(t, "cs", srv.lastList.Search)
}

func TestCourseHandlerUpdateCodeChangeRejected(t *testing.T) {
	srv := &fakeCourseSrv{updateErr: appErrors.Clone(appErrors.ErrImmutableField, "course code cannot be changed")}
	handler := NewCourseHandler(srv)

	c, rec := newTestContext(http.MethodPut, "/courses/c1", map[string]interface{}{
		"code": "CS999", "title": "Intro", "credits": 3, "category": "Core", "semester": 1, "departmentId": "d1",
	})
	c.Params = gin.Params{{Key: "id", Value: "c1"}}
	handler.Update(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "course code cannot be changed", env.Message)
	assert.Equal(t, "IMMUTABLE_FIELD", env.Error["code"])
	assert.Equal(t, "CS999", srv.lastUpdate.Code)
}

func TestCourseHandlerCreateAndDelete(t *testing.T) {
	handler := NewCourseHandler(&fakeCourseSrv{})

	c, rec := newTestContext(http.MethodPost, "/courses", map[string]interface{}{"code": "CS201"})
	handler.Create(c)
	assert.Equal(t, http.StatusCreated, rec.Code)

	c, rec = newTestContext(http.MethodDelete, "/courses/c1", nil)
	c.Params = gin.Params{{Key: "id", Value: "c1"}}
	handler.Delete(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Course deleted successfully", decodeEnvelope(t, rec).Message)
}
