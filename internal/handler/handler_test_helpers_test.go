package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Data       json.RawMessage        `json:"data"`
	Message    string                 `json:"message"`
	Error      map[string]interface{} `json:"error"`
	Pagination map[string]int         `json:"pagination"`
	Meta       map[string]interface{} `json:"meta"`
}

func newTestContext(method, target string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	var payload []byte
	switch typed := body.(type) {
	case nil:
	case string:
		payload = []byte(typed)
	default:
		payload, _ = json.Marshal(typed)
	}
	c.Request = httptest.NewRequest(method, target, bytes.NewReader(payload))
	if payload != nil {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return c, rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}
