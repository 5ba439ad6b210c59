package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/payerdesk/internal/http/handlers"
	httpMW "github.com/yungbote/payerdesk/internal/http/middleware"
	"github.com/yungbote/payerdesk/internal/observability"
	"github.com/yungbote/payerdesk/internal/platform/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics
	// ServiceName names server spans; empty disables otelgin.
	ServiceName string
	CORSOrigins []string

	HealthHandler   *httpH.HealthHandler
	PayerHandler    *httpH.PayerHandler
	UnmappedHandler *httpH.UnmappedHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.RequestIDs())
	r.Use(httpMW.AccessLog(cfg.Log, httpMW.ProbeRoutes...))
	r.Use(httpMW.Metrics(cfg.Metrics, httpMW.ProbeRoutes...))
	r.Use(httpMW.CORS(cfg.CORSOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Review queue
		if cfg.UnmappedHandler != nil {
			api.GET("/unmapped", cfg.UnmappedHandler.ListUnmapped)
			api.POST("/map_payer", cfg.UnmappedHandler.MapPayer)
		}

		// Registry
		if cfg.PayerHandler != nil {
			api.GET("/payers", cfg.PayerHandler.ListPayers)
			api.GET("/payer_groups", cfg.PayerHandler.ListGroups)
			api.POST("/update_pretty_name", cfg.PayerHandler.UpdatePrettyName)
			api.POST("/update_group", cfg.PayerHandler.UpdateGroup)
		}
	}

	return r
}
