package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"portal/internal/apperr"
	"portal/internal/user"
)

const (
	userKey  = "user"
	tokenKey = "sessionToken"
)

// Sessions resolves the session cookie on every request and stores the
// current user, if any, in the gin context. It never rejects a request for
// lacking a session; see RequireUser.
func Sessions(m *Manager, cookieName string, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(cookieName)
		c.Set(tokenKey, token)
		u, err := m.CurrentUser(c.Request.Context(), token)
		if err != nil {
			log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("resolve session")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if u != nil {
			c.Set(userKey, u)
		}
		c.Next()
	}
}

// RequireUser aborts with 401 unless Sessions found a user.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.AbortWithStatusJSON(apperr.ErrUnauthorized.Status, gin.H{"error": apperr.ErrUnauthorized.Message})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user resolved by Sessions, or nil.
func CurrentUser(c *gin.Context) *user.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*user.User)
	return u
}

// SessionToken returns the raw session cookie of the request, if any.
func SessionToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}
