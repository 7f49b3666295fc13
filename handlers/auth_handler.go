package handlers

import (
	"net/http"
	"time"

	"stagestream/helper"
	"stagestream/middleware"
	"stagestream/models"
	"stagestream/services"

	"github.com/gin-gonic/gin"
)

// CookieOptions controls the attributes of the session cookie.
type CookieOptions struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

type AuthHandler struct {
	authService services.AuthService
	cookie      CookieOptions
	Helper      *helper.HTTPHelper
}

func NewAuthHandler(authService services.AuthService, cookie CookieOptions) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie:      cookie,
		Helper:      middleware.HTTPHelper,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	admin, err := h.authService.Authenticate(c.Request.Context(), req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	issued, err := h.authService.IssueSession(c.Request.Context(), admin, services.SessionMeta{
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.setSessionCookie(c, issued.Token, issued.Session.ExpiresAt)
	c.JSON(http.StatusOK, models.LoginResponse{Success: true, Admin: admin.Summary()})
}

// Logout revokes the current session, if any, and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.cookie.Name); err == nil && token != "" {
		if err := h.authService.RevokeSession(c.Request.Context(), token); err != nil {
			h.Helper.SendError(c, err)
			return
		}
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}

func (h *AuthHandler) GetSession(c *gin.Context) {
	value, exists := c.Get(middleware.AdminKey)
	if !exists {
		h.Helper.SendUnauthorizedError(c, "Unauthorized")
		return
	}
	admin := value.(*models.Admin)

	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"admin":         admin.Summary(),
	})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, expires time.Time) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(h.cookie.TTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}
