package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/payerdesk/internal/platform/ctxutil"
	"github.com/yungbote/payerdesk/internal/platform/logger"
)

// ProbeRoutes are polled by orchestrators and scrapers and stay out of the
// access log.
var ProbeRoutes = []string{"/healthcheck", "/readyz", "/metrics"}

// AccessLog writes one line per API call. Reads log at debug, mutations at
// info, and failures at warn (4xx) or error (5xx) with the handler errors.
func AccessLog(log *logger.Logger, skip ...string) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	skipped := make(map[string]struct{}, len(skip))
	for _, s := range skip {
		skipped[s] = struct{}{}
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if _, ok := skipped[route]; ok {
			return
		}
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"bytes", c.Writer.Size(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", ctxutil.RequestID(c.Request.Context()),
		}
		if traceID := ctxutil.TraceID(c.Request.Context()); traceID != "" {
			fields = append(fields, "trace_id", traceID)
		}
		if page := c.Query("page"); page != "" {
			fields = append(fields, "page", page, "per_page", c.Query("per_page"))
		}

		switch {
		case status >= 500:
			log.Error("API call failed", append(fields, "errors", c.Errors.String())...)
		case status >= 400:
			log.Warn("API call rejected", append(fields, "errors", c.Errors.String())...)
		case c.Request.Method == "GET":
			log.Debug("API read", fields...)
		default:
			log.Info("API mutation", fields...)
		}
	}
}
