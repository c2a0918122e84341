package session

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextKey is where the middleware stores the resolved session id.
const ContextKey = "session_id"

// Middleware enforces a bearer session token and exposes the session id to
// handlers.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session token"})
			return
		}
		tokenStr := strings.TrimSpace(authz[len("bearer "):])
		claims, err := m.Parse(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session token"})
			return
		}
		c.Set(ContextKey, claims.SessionID)
		c.Next()
	}
}

// FromContext returns the session id set by Middleware.
func FromContext(c *gin.Context) string {
	id, _ := c.Get(ContextKey)
	s, _ := id.(string)
	return s
}
