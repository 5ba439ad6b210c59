package services

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/payerdesk/internal/clients/redis"
	"github.com/yungbote/payerdesk/internal/data/repos"
	"github.com/yungbote/payerdesk/internal/domain/registry"
	"github.com/yungbote/payerdesk/internal/matching"
	"github.com/yungbote/payerdesk/internal/observability"
	"github.com/yungbote/payerdesk/internal/pkg/dbctx"
	"github.com/yungbote/payerdesk/internal/platform/ctxutil"
	"github.com/yungbote/payerdesk/internal/platform/logger"
)

// UnmappedService serves the review queue: details the classifier flags as
// close to, but not clearly part of, a canonical payer.
type UnmappedService interface {
	List(dbc dbctx.Context, p Pagination) (*registry.UnmappedPage, error)
	// MapPayer links a detail to a payer and drops it from the queue.
	MapPayer(dbc dbctx.Context, detailID int64, payerID string) error
	Invalidate(dbc dbctx.Context)
}

type unmappedService struct {
	db         *gorm.DB
	log        *logger.Logger
	details    repos.PayerDetailRepo
	payers     repos.PayerRepo
	classifier *matching.Classifier
	cache      redis.UnmappedCache
	now        func() time.Time
}

// NewUnmappedService takes an optional cache; nil recomputes on every call.
func NewUnmappedService(
	db *gorm.DB,
	baseLog *logger.Logger,
	details repos.PayerDetailRepo,
	payers repos.PayerRepo,
	classifier *matching.Classifier,
	cache redis.UnmappedCache,
) UnmappedService {
	return &unmappedService{
		db:         db,
		log:        baseLog.With("service", "UnmappedService"),
		details:    details,
		payers:     payers,
		classifier: classifier,
		cache:      cache,
		now:        time.Now,
	}
}

func (s *unmappedService) List(dbc dbctx.Context, p Pagination) (*registry.UnmappedPage, error) {
	queue, err := s.queue(dbc)
	if err != nil {
		return nil, err
	}
	start, end := p.Window(len(queue))
	page := make([]registry.UnmappedDetail, end-start)
	copy(page, queue[start:end])
	return &registry.UnmappedPage{Unmapped: page, Total: len(queue)}, nil
}

func (s *unmappedService) queue(dbc dbctx.Context) ([]registry.UnmappedDetail, error) {
	metrics := observability.Current()
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctxutil.Default(dbc.Ctx))
		switch {
		case err != nil:
			metrics.IncQueueCache("error")
			s.log.Warn("Unmapped cache read failed, recomputing", "error", err)
		case ok:
			metrics.IncQueueCache("hit")
			return cached, nil
		default:
			metrics.IncQueueCache("miss")
		}
	}

	details, err := s.details.ListUnresolved(dbc)
	if err != nil {
		return nil, fmt.Errorf("list unresolved details: %w", err)
	}
	rows := make([]registry.PayerDetail, 0, len(details))
	for _, d := range details {
		rows = append(rows, *d)
	}
	res, err := s.classifier.Classify(rows)
	if err != nil {
		return nil, fmt.Errorf("classify details: %w", err)
	}
	queue := make([]registry.UnmappedDetail, 0, len(res.Review))
	for _, d := range res.Review {
		queue = append(queue, d.Unmapped())
	}
	metrics.SetUnmappedQueueSize(len(queue))

	if s.cache != nil {
		if err := s.cache.Set(ctxutil.Default(dbc.Ctx), queue); err != nil {
			s.log.Warn("Unmapped cache write failed", "error", err)
		}
	}
	return queue, nil
}

func (s *unmappedService) MapPayer(dbc dbctx.Context, detailID int64, payerID string) error {
	payerID = strings.TrimSpace(payerID)
	if detailID <= 0 {
		return missingField("detail_id")
	}
	if payerID == "" {
		return missingField("payer_id")
	}

	err := runInTx(s.db, dbc, func(inner dbctx.Context) error {
		if _, err := s.details.GetByID(inner, detailID); err != nil {
			if isNotFound(err) {
				return errDetailNotFound
			}
			return err
		}
		ok, err := s.payers.Exists(inner, payerID)
		if err != nil {
			return err
		}
		if !ok {
			return errPayerNotFound
		}
		_, err = s.details.MapToPayer(inner, detailID, payerID, s.now())
		return err
	})
	observability.Current().ObserveMutation("map_payer", err)
	if err != nil {
		return err
	}
	s.Invalidate(dbc)
	s.log.Info("Detail mapped", "detail_id", detailID, "payer_id", payerID)
	return nil
}

func (s *unmappedService) Invalidate(dbc dbctx.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctxutil.Default(dbc.Ctx)); err != nil {
		s.log.Warn("Unmapped cache invalidation failed", "error", err)
	}
}
