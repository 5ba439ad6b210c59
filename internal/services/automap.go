package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/payerdesk/internal/data/repos"
	"github.com/yungbote/payerdesk/internal/domain/registry"
	"github.com/yungbote/payerdesk/internal/matching"
	"github.com/yungbote/payerdesk/internal/observability"
	"github.com/yungbote/payerdesk/internal/pkg/dbctx"
	"github.com/yungbote/payerdesk/internal/pkg/pointers"
	"github.com/yungbote/payerdesk/internal/platform/logger"
)

const automapBatchSize = 100

type AutomapReport struct {
	Details       int
	Clusters      int
	PayersCreated int
	Relinked      int
	Review        []registry.UnmappedDetail
}

// AutoMapper creates one canonical payer per cluster of unresolved details
// and points the cluster's details at it. Details mapped by an operator are
// never touched.
type AutoMapper interface {
	Run(ctx context.Context) (*AutomapReport, error)
}

type autoMapper struct {
	db         *gorm.DB
	log        *logger.Logger
	details    repos.PayerDetailRepo
	payers     repos.PayerRepo
	classifier *matching.Classifier
	unmapped   UnmappedService
}

// NewAutoMapper takes an optional UnmappedService whose cached queue is
// dropped after a run.
func NewAutoMapper(
	db *gorm.DB,
	baseLog *logger.Logger,
	details repos.PayerDetailRepo,
	payers repos.PayerRepo,
	classifier *matching.Classifier,
	unmapped UnmappedService,
) AutoMapper {
	return &autoMapper{
		db:         db,
		log:        baseLog.With("service", "AutoMapper"),
		details:    details,
		payers:     payers,
		classifier: classifier,
		unmapped:   unmapped,
	}
}

type relink struct {
	detailID int64
	payerID  string
}

func (a *autoMapper) Run(ctx context.Context) (report *AutomapReport, err error) {
	ctx, span := observability.StartSpan(ctx, "automap.run")
	defer func() { observability.EndSpan(span, err) }()
	dbc := dbctx.Context{Ctx: ctx}
	a.log.Info("Starting payer mapping")

	rows, err := a.details.ListUnresolved(dbc)
	if err != nil {
		return nil, fmt.Errorf("list unresolved details: %w", err)
	}
	details := make([]registry.PayerDetail, 0, len(rows))
	for _, r := range rows {
		details = append(details, *r)
	}
	res, err := a.classifier.Classify(details)
	if err != nil {
		return nil, fmt.Errorf("classify details: %w", err)
	}

	report = &AutomapReport{Details: len(details), Clusters: len(res.Clusters)}
	for _, d := range res.Review {
		report.Review = append(report.Review, d.Unmapped())
	}

	created, err := a.createPayers(dbc, res.Clusters)
	if err != nil {
		return report, err
	}
	report.PayersCreated = created

	var pending []relink
	for _, cl := range res.Clusters {
		for _, d := range cl.Members {
			if d.PayerID != cl.PayerID {
				pending = append(pending, relink{detailID: d.DetailID, payerID: cl.PayerID})
			}
		}
	}
	for start := 0; start < len(pending); start += automapBatchSize {
		end := min(start+automapBatchSize, len(pending))
		if err := a.commitRelinks(dbc, pending[start:end]); err != nil {
			a.log.Error("Relink batch failed", "from", start, "to", end, "error", err)
			return report, fmt.Errorf("relink rows %d-%d: %w", start, end, err)
		}
		report.Relinked = end
		a.log.Info("Committed relink batch", "rows", end)
	}

	if a.unmapped != nil {
		a.unmapped.Invalidate(dbc)
	}
	metrics := observability.Current()
	metrics.AddAutomapped("payer_created", report.PayersCreated)
	metrics.AddAutomapped("relinked", report.Relinked)
	metrics.AddAutomapped("review", len(report.Review))

	a.log.Info("Mapping complete",
		"details", report.Details,
		"clusters", report.Clusters,
		"payers_created", report.PayersCreated,
		"relinked", report.Relinked,
		"flagged_for_review", len(report.Review),
	)
	return report, nil
}

// createPayers inserts a payer for each cluster whose id is not taken, with
// the cluster name as both raw and pretty name and no group.
func (a *autoMapper) createPayers(dbc dbctx.Context, clusters []matching.Cluster) (int, error) {
	if len(clusters) == 0 {
		return 0, nil
	}
	ids := make([]string, 0, len(clusters))
	for _, cl := range clusters {
		ids = append(ids, cl.PayerID)
	}
	created := 0
	err := runInTx(a.db, dbc, func(inner dbctx.Context) error {
		existing, err := a.payers.GetByIDs(inner, ids)
		if err != nil {
			return err
		}
		have := make(map[string]bool, len(existing))
		for _, p := range existing {
			have[p.PayerID] = true
		}
		var rows []*registry.Payer
		for _, cl := range clusters {
			if have[cl.PayerID] {
				continue
			}
			have[cl.PayerID] = true
			rows = append(rows, &registry.Payer{
				PayerID:    cl.PayerID,
				PayerName:  cl.PayerName,
				PrettyName: pointers.NonEmpty(cl.PayerName),
			})
		}
		for start := 0; start < len(rows); start += automapBatchSize {
			end := min(start+automapBatchSize, len(rows))
			if err := a.payers.CreateIgnoreDuplicates(inner, rows[start:end]); err != nil {
				return err
			}
		}
		created = len(rows)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("create payers: %w", err)
	}
	return created, nil
}

func (a *autoMapper) commitRelinks(dbc dbctx.Context, batch []relink) error {
	byPayer := map[string][]int64{}
	order := []string{}
	for _, r := range batch {
		if _, ok := byPayer[r.payerID]; !ok {
			order = append(order, r.payerID)
		}
		byPayer[r.payerID] = append(byPayer[r.payerID], r.detailID)
	}
	return runInTx(a.db, dbc, func(inner dbctx.Context) error {
		for _, payerID := range order {
			if err := a.details.Relink(inner, byPayer[payerID], payerID); err != nil {
				return err
			}
		}
		return nil
	})
}
