package middleware

import (
	"strings"
	"time"

	"github.com/CakeInTech/faydapass/internal/utils/tlog"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Health checks are only logged at debug
var quietRoutes = []string{
	"GET /api/health",
	"HEAD /api/health",
	"GET /favicon.ico",
}

type ZerologMiddleware struct{}

func NewZerologMiddleware() *ZerologMiddleware {
	return &ZerologMiddleware{}
}

func (m *ZerologMiddleware) Init() error {
	return nil
}

// Middleware logs every request on the http stream. The query string is left
// out since callbacks carry authorization codes.
func (m *ZerologMiddleware) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()

		c.Next()

		method := c.Request.Method
		path := c.Request.URL.Path
		status := c.Writer.Status()

		event := tlog.HTTP.WithLevel(requestLevel(method+" "+path, status)).
			Str("method", method).
			Str("path", path).
			Str("clientIp", c.ClientIP()).
			Int("status", status).
			Dur("latency", time.Since(started))

		if flowID := c.GetString(FlowContextKey); flowID != "" {
			event = event.Str("flow", flowID)
		}

		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}

		event.Msg("Request")
	}
}

func requestLevel(route string, status int) zerolog.Level {
	for _, quiet := range quietRoutes {
		if strings.HasPrefix(route, quiet) {
			return zerolog.DebugLevel
		}
	}

	switch {
	case status >= 500:
		return zerolog.ErrorLevel
	case status >= 400:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}
