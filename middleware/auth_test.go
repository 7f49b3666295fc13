package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"stagestream/models"
	"stagestream/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeAuthService struct {
	services.AuthService
	admin *models.Admin
	err   error
	token string
}

func (f *fakeAuthService) ResolveSession(_ context.Context, token string) (*models.Admin, *models.Session, error) {
	f.token = token
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.admin, &models.Session{ID: "session-1", AdminID: f.admin.ID}, nil
}

func newGuardedRouter(auth services.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/private", SessionRequired(auth, "admin-session"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"admin_id":   c.GetUint(AdminIDKey),
			"session_id": c.GetString(SessionIDKey),
		})
	})
	return r
}

func TestSessionRequired(t *testing.T) {
	t.Run("missing cookie", func(t *testing.T) {
		auth := &fakeAuthService{admin: &models.Admin{ID: 1}}
		w := httptest.NewRecorder()
		newGuardedRouter(auth).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, auth.token)
	})

	t.Run("rejected session", func(t *testing.T) {
		auth := &fakeAuthService{err: &models.ErrorUnauthorized{Message: "Unauthorized"}}
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.AddCookie(&http.Cookie{Name: "admin-session", Value: "token"})
		w := httptest.NewRecorder()
		newGuardedRouter(auth).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "token", auth.token)
	})

	t.Run("storage failure", func(t *testing.T) {
		auth := &fakeAuthService{err: models.NewInternalError("failed to load session", errors.New("db down"))}
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.AddCookie(&http.Cookie{Name: "admin-session", Value: "token"})
		w := httptest.NewRecorder()
		newGuardedRouter(auth).ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "db down")
	})

	t.Run("valid session", func(t *testing.T) {
		auth := &fakeAuthService{admin: &models.Admin{ID: 42, Username: "admin"}}
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.AddCookie(&http.Cookie{Name: "admin-session", Value: "token"})
		w := httptest.NewRecorder()
		newGuardedRouter(auth).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"admin_id":42,"session_id":"session-1"}`, w.Body.String())
	})
}
