package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FlowContextKey is where the current flow ID is stored on the gin context.
const FlowContextKey = "flowId"

type ContextMiddlewareConfig struct {
	FlowCookieName string
}

// ContextMiddleware resolves the authorization flow a request belongs to
// from the flow cookie.
type ContextMiddleware struct {
	config ContextMiddlewareConfig
}

func NewContextMiddleware(config ContextMiddlewareConfig) *ContextMiddleware {
	return &ContextMiddleware{
		config: config,
	}
}

func (m *ContextMiddleware) Init() error {
	return nil
}

func (m *ContextMiddleware) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(m.config.FlowCookieName)

		if err != nil || cookie == "" {
			c.Next()
			return
		}

		// Flow IDs are always UUIDs, anything else is ignored
		if _, err := uuid.Parse(cookie); err != nil {
			c.Next()
			return
		}

		c.Set(FlowContextKey, cookie)
		c.Next()
	}
}
