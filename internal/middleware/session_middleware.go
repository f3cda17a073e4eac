package middleware

import (
	"github.com/gin-gonic/gin"
	"shortlink-accounts/internal/session"
)

// SessionMiddleware 为每个请求加载会话状态并附加到上下文
func SessionMiddleware(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(session.ContextKey, manager.Load(c))
		c.Next()
	}
}
