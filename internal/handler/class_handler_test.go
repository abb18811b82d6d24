package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-admin-api/internal/models"
	"github.com/noah-isme/college-admin-api/internal/service"
	appErrors "github.com/noah-isme/college-admin-api/pkg/errors"
)

type fakeClassSrv struct {
	lastFormat string
}

func (f *fakeClassSrv) List(_ context.Context, departmentID string) ([]models.Class, error) {
	return []models.Class{{ID: "cl1", Name: "A"}}, nil
}

func (f *fakeClassSrv) Students(_ context.Context, classID string) ([]models.Student, error) {
	if classID != "cl1" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	return []models.Student{{ID: "s1", Name: "John Doe", RollNo: "R1", Email: "john@college.edu"}}, nil
}

func (f *fakeClassSrv) ExportRoster(_ context.Context, classID, format string) (*service.RosterExport, error) {
	f.lastFormat = format
	return &service.RosterExport{Filename: "roster-a.csv", ContentType: "text/csv", Body: []byte("Roll No\nR1\n")}, nil
}

func TestClassHandlerStudents(t *testing.T) {
	handler := NewClassHandler(&fakeClassSrv{})

	c, rec := newTestContext(http.MethodGet, "/classes/cl1/students", nil)
	c.Params = gin.Params{{Key: "id", Value: "cl1"}}
	handler.Students(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(decodeEnvelope(t, rec).Data), `"rollNo":"R1"`)

	c, rec = newTestContext(http.MethodGet, "/classes/zz/students", nil)
	c.Params = gin.Params{{Key: "id", Value: "zz"}}
	handler.Students(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClassHandlerExport(t *testing.T) {
	srv := &fakeClassSrv{}
	handler := NewClassHandler(srv)

	c, rec := newTestContext(http.MethodGet, "/classes/cl1/students/export?format=csv", nil)
	c.Params = gin.Params{{Key: "id", Value: "cl1"}}
	handler.Export(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "csv", srv.lastFormat)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="roster-a.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "Roll No\nR1\n", rec.Body.String())
}
