package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"draftwise/internal/handler"
	"draftwise/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newContext builds a test context for method/path with an optional JSON
// body, the given path params and, unless userID is nil, an authenticated user.
func newContext(method, path string, body interface{}, userID uuid.UUID, params ...gin.Param) (*gin.Context, *httptest.ResponseRecorder) {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(method, path, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = params
	if userID != uuid.Nil {
		c.Set(middleware.ContextKeyUserID, userID)
	}
	return c, w
}

func decode(w *httptest.ResponseRecorder) handler.APIResponse {
	var resp handler.APIResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}
