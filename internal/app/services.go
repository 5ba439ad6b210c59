package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/payerdesk/internal/data/repos"
	"github.com/yungbote/payerdesk/internal/matching"
	"github.com/yungbote/payerdesk/internal/platform/logger"
	"github.com/yungbote/payerdesk/internal/services"
)

type Services struct {
	Classifier *matching.Classifier
	Registry   services.PayerRegistryService
	Unmapped   services.UnmappedService
	AutoMapper services.AutoMapper
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet repos.Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	classifier, err := matching.NewClassifier(log, cfg.MatchRule, cfg.ReviewRule)
	if err != nil {
		return Services{}, fmt.Errorf("compile matching rules: %w", err)
	}

	unmapped := services.NewUnmappedService(db, log, reposet.Details, reposet.Payers, classifier, clients.UnmappedCache)

	return Services{
		Classifier: classifier,
		Registry:   services.NewPayerRegistryService(db, log, reposet.Payers, reposet.PayerGroups),
		Unmapped:   unmapped,
		AutoMapper: services.NewAutoMapper(db, log, reposet.Details, reposet.Payers, classifier, unmapped),
	}, nil
}
