package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/payerdesk/internal/http"
	"github.com/yungbote/payerdesk/internal/observability"
	"github.com/yungbote/payerdesk/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:             log.With("component", "http"),
		Metrics:         metrics,
		ServiceName:     serviceName,
		CORSOrigins:     cfg.CORSOrigins,
		HealthHandler:   handlers.Health,
		PayerHandler:    handlers.Payer,
		UnmappedHandler: handlers.Unmapped,
	})
}
