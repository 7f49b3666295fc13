package middleware

import (
	"stagestream/helper"
	"stagestream/services"

	"github.com/gin-gonic/gin"
)

var HTTPHelper = helper.NewHTTPHelper()

// Context keys set by SessionRequired.
const (
	AdminIDKey   = "admin_id"
	AdminKey     = "admin"
	SessionIDKey = "session_id"
)

// SessionRequired rejects requests without a live admin session cookie.
func SessionRequired(authService services.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			HTTPHelper.SendUnauthorizedError(c, "Unauthorized")
			c.Abort()
			return
		}

		admin, session, err := authService.ResolveSession(c.Request.Context(), token)
		if err != nil {
			HTTPHelper.SendError(c, err)
			c.Abort()
			return
		}

		c.Set(AdminIDKey, admin.ID)
		c.Set(AdminKey, admin)
		c.Set(SessionIDKey, session.ID)

		c.Next()
	}
}
