package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serve(t *testing.T, origins []string, method, origin string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(New(origins))
	r.GET("/courses", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(method, "/courses", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCORSAllowList(t *testing.T) {
	origins := []string{"https://admin.college.edu/", "https://*.staging.college.edu"}

	rec := serve(t, origins, http.MethodGet, "https://admin.college.edu")
	assert.Equal(t, "https://admin.college.edu", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")

	rec = serve(t, origins, http.MethodGet, "https://pr-12.staging.college.edu")
	assert.Equal(t, "https://pr-12.staging.college.edu", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = serve(t, origins, http.MethodGet, "https://evil.example.com")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	rec := serve(t, nil, http.MethodOptions, "http://localhost:5173")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}
