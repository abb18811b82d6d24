package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-admin-api/internal/models"
	appErrors "github.com/noah-isme/college-admin-api/pkg/errors"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	return c, rec
}

func TestErrorCarriesTopLevelMessage(t *testing.T) {
	c, rec := newContext()
	Error(c, appErrors.Clone(appErrors.ErrConflict, "email already used"))

	assert.Equal(t, http.StatusConflict, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "email already used", body["message"])
	errBody := body["error"].(map[string]interface{})
	assert.Equal(t, "CONFLICT", errBody["code"])
}

func TestErrorNormalisesUnknownErrors(t *testing.T) {
	c, rec := newContext()
	Error(c, errors.New("driver exploded"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "driver exploded")
}

func TestJSONWithPagination(t *testing.T) {
	c, rec := newContext()
	JSON(c, http.StatusOK, []string{}, &models.Pagination{Page: 1, Limit: 1000, Total: 0})

	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"data":[],"pagination":{"page":1,"limit":1000,"total":0}}`, rec.Body.String())
}

func TestMessage(t *testing.T) {
	c, rec := newContext()
	Message(c, http.StatusOK, "Faculty deleted successfully")

	assert.JSONEq(t, `{"message":"Faculty deleted successfully"}`, rec.Body.String())
}
