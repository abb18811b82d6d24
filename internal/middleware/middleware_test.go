package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-admin-api/internal/models"
	"github.com/noah-isme/college-admin-api/internal/service"
	appErrors "github.com/noah-isme/college-admin-api/pkg/errors"
)

type stubValidator map[string]*models.JWTClaims

func (s stubValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, appErrors.Wrap(errors.New("bad token"), appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
}

func newProtectedRouter(roles ...models.FacultyRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	validator := stubValidator{
		"admin-token":   {FacultyID: "f-admin", Role: models.RoleAdmin},
		"faculty-token": {FacultyID: "f1", Role: models.RoleFaculty},
	}
	handlers := []gin.HandlerFunc{JWT(validator)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRoles(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, claims.FacultyID)
	})
	router.GET("/protected", handlers...)
	return router
}

func serve(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestJWTMiddleware(t *testing.T) {
	router := newProtectedRouter()

	assert.Equal(t, http.StatusUnauthorized, serve(router, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(router, "Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(router, "Bearer unknown").Code)

	rec := serve(router, "Bearer faculty-token")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "f1", rec.Body.String())
}

func TestRequireRoles(t *testing.T) {
	router := newProtectedRouter(models.RoleAdmin)

	assert.Equal(t, http.StatusForbidden, serve(router, "Bearer faculty-token").Code)
	assert.Equal(t, http.StatusOK, serve(router, "bearer admin-token").Code)
}

func TestMetricsMiddlewareRecordsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	router := gin.New()
	router.Use(Metrics(metrics))
	router.GET("/courses/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/courses/c1", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	families, err := metrics.Registry().Gather()
	require.NoError(t, err)
	found := false
	for _, family := range families {
		if family.GetName() != "college_admin_http_requests_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "path" && label.GetValue() == "/courses/:id" {
					found = true
				}
			}
		}
	}
	assert.True(t, found)
}

func TestResponseMetaCacheHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(WithResponseMeta())
	var meta map[string]interface{}
	router.GET("/", func(c *gin.Context) {
		SetCacheHit(c, true)
		meta = ExtractMeta(c)
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, true, meta["cacheHit"])
}
