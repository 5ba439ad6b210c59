package app

import (
	"gorm.io/gorm"

	httpH "github.com/yungbote/payerdesk/internal/http/handlers"
	"github.com/yungbote/payerdesk/internal/platform/logger"
)

type Handlers struct {
	Health   *httpH.HealthHandler
	Payer    *httpH.PayerHandler
	Unmapped *httpH.UnmappedHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(db),
		Payer:    httpH.NewPayerHandler(services.Registry),
		Unmapped: httpH.NewUnmappedHandler(services.Unmapped),
	}
}
