package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/payerdesk/internal/data/repos/registry"
	"github.com/yungbote/payerdesk/internal/platform/logger"
)

type PayerRepo = registry.PayerRepo
type PayerGroupRepo = registry.PayerGroupRepo
type PayerDetailRepo = registry.PayerDetailRepo

// Repos bundles the registry repositories over one database.
type Repos struct {
	Payers      PayerRepo
	PayerGroups PayerGroupRepo
	Details     PayerDetailRepo
}

func New(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		Payers:      registry.NewPayerRepo(db, log),
		PayerGroups: registry.NewPayerGroupRepo(db, log),
		Details:     registry.NewPayerDetailRepo(db, log),
	}
}
