package helper

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stagestream/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStatusCode(t *testing.T) {
	h := NewHTTPHelper()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", &models.ErrorValidation{Message: "bad"}, http.StatusBadRequest},
		{"unauthorized", &models.ErrorUnauthorized{Message: "no"}, http.StatusUnauthorized},
		{"not found", &models.ErrorNotFound{Message: "gone"}, http.StatusNotFound},
		{"conflict", &models.ErrorConflict{Message: "dup"}, http.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("lookup: %w", &models.ErrorNotFound{Message: "gone"}), http.StatusNotFound},
		{"internal", models.NewInternalError("boom", errors.New("db")), http.StatusInternalServerError},
		{"unclassified", errors.New("surprise"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, h.GetStatusCode(tt.err))
		})
	}
}

func sendError(t *testing.T, err error) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	NewHTTPHelper().SendError(c, err)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestSendError(t *testing.T) {
	t.Run("conflict", func(t *testing.T) {
		w, body := sendError(t, &models.ErrorConflict{Message: "Slug already exists"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Slug already exists", body.Error)
		assert.Equal(t, "conflict", body.CodeType)
	})

	t.Run("not found", func(t *testing.T) {
		w, body := sendError(t, &models.ErrorNotFound{Message: "Post not found"})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Post not found", body.Error)
	})

	t.Run("internal error hides cause", func(t *testing.T) {
		w, body := sendError(t, models.NewInternalError("failed to load post", errors.New("password=hunter2")))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Internal server error", body.Error)
		assert.NotContains(t, w.Body.String(), "hunter2")
	})
}

func bind(t *testing.T, payload string, req interface{}) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	ok := NewHTTPHelper().BindJSON(c, req)
	return w, ok
}

func TestBindJSON(t *testing.T) {
	t.Run("malformed body", func(t *testing.T) {
		var req models.LoginRequest
		w, ok := bind(t, `{"stageKey":`, &req)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid request body")
	})

	t.Run("missing fields reported by json name", func(t *testing.T) {
		var req models.LoginRequest
		w, ok := bind(t, `{"username":"admin"}`, &req)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Missing required fields", body.Error)
		assert.Contains(t, body.Fields, "stageKey")
		assert.Contains(t, body.Fields, "password")
		assert.NotContains(t, body.Fields, "username")
	})

	t.Run("type is normalized before validation", func(t *testing.T) {
		var req models.CreatePostRequest
		_, ok := bind(t, `{"title":"Hi","slug":" hello-world ","content":"x","type":"blog"}`, &req)
		assert.True(t, ok)
		assert.Equal(t, "BLOG", req.Type)
		assert.Equal(t, "hello-world", req.Slug)
	})

	t.Run("unknown type", func(t *testing.T) {
		var req models.CreatePostRequest
		w, ok := bind(t, `{"title":"Hi","slug":"hi","content":"x","type":"video"}`, &req)
		assert.False(t, ok)

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Invalid request", body.Error)
		assert.Contains(t, body.Fields, "type")
	})

	t.Run("partial update only checks present fields", func(t *testing.T) {
		var req models.UpdatePostRequest
		_, ok := bind(t, `{"published":true}`, &req)
		assert.True(t, ok)
		require.NotNil(t, req.Published)
		assert.True(t, *req.Published)
	})
}

func TestSlugValidation(t *testing.T) {
	h := NewHTTPHelper()

	valid := []string{"hello", "hello-world", "post_2", "a1-b2_c3"}
	invalid := []string{"Hello", "hello world", "-leading", "trailing-", "double--dash", "ümlaut"}

	for _, slug := range valid {
		assert.NoError(t, h.Validate.Var(slug, "slug"), slug)
	}
	for _, slug := range invalid {
		assert.Error(t, h.Validate.Var(slug, "slug"), slug)
	}
}

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown("# Title\n\n**bold** and <script>alert(1)</script>\n\n| a | b |\n|---|---|\n| 1 | 2 |")
	require.NoError(t, err)

	assert.Contains(t, out, `<h1 id="title">Title</h1>`)
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.Contains(t, out, "<table>")
	assert.NotContains(t, out, "<script>")
}
