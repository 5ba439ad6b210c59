package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/yungbote/payerdesk/internal/domain/registry"
	"github.com/yungbote/payerdesk/internal/paging"
	pkgerrors "github.com/yungbote/payerdesk/internal/pkg/errors"
	"github.com/yungbote/payerdesk/internal/platform/logger"
	"github.com/yungbote/payerdesk/internal/taxonomy"
)

const DefaultFullFetchPerPage = 10000

type Config struct {
	UnmappedPerPage int
	PayersPerPage   int
	GroupsPerPage   int
	// FullFetchPerPage is the page size used to pull the whole forest into
	// the registry in one call.
	FullFetchPerPage int
}

func (c Config) withDefaults() Config {
	if c.UnmappedPerPage <= 0 {
		c.UnmappedPerPage = paging.DefaultPerPage
	}
	if c.PayersPerPage <= 0 {
		c.PayersPerPage = paging.DefaultPerPage
	}
	if c.GroupsPerPage <= 0 {
		c.GroupsPerPage = paging.DefaultPerPage
	}
	if c.FullFetchPerPage <= 0 {
		c.FullFetchPerPage = DefaultFullFetchPerPage
	}
	return c
}

// Session is one operator's working state against a Store.
type Session struct {
	log   *logger.Logger
	store Store
	cfg   Config

	Unmapped *paging.Collection[registry.UnmappedDetail]
	Payers   *paging.Collection[registry.Payer]
	Groups   *paging.Collection[registry.Group]
	Registry *taxonomy.Registry

	refresh singleflight.Group
}

func NewSession(store Store, cfg Config, log *logger.Logger) *Session {
	if log == nil {
		log = logger.Nop()
	}
	cfg = cfg.withDefaults()
	s := &Session{
		log:      log.With("service", "ReconcileSession"),
		store:    store,
		cfg:      cfg,
		Registry: taxonomy.NewRegistry(),
	}
	s.Unmapped = paging.New("unmapped", cfg.UnmappedPerPage, unmappedKey,
		func(ctx context.Context, page, perPage int) ([]registry.UnmappedDetail, int, error) {
			res, err := store.FetchUnmapped(ctx, page, perPage)
			return res.Unmapped, res.Total, err
		}, s.log)
	s.Payers = paging.New("payers", cfg.PayersPerPage, payerKey,
		func(ctx context.Context, page, perPage int) ([]registry.Payer, int, error) {
			res, err := store.FetchPayers(ctx, page, perPage)
			return res.Payers, res.Total, err
		}, s.log)
	s.Groups = paging.New("groups", cfg.GroupsPerPage, groupKey,
		func(ctx context.Context, page, perPage int) ([]registry.Group, int, error) {
			res, err := store.FetchGroups(ctx, page, perPage)
			return res.Groups, res.Total, err
		}, s.log)
	return s
}

func unmappedKey(d registry.UnmappedDetail) string { return detailKey(d.DetailID) }
func payerKey(p registry.Payer) string             { return p.PayerID }
func groupKey(g registry.Group) string             { return g.GroupID }

func detailKey(id int64) string { return strconv.FormatInt(id, 10) }

// Load runs the three initial page loads and the registry seed concurrently.
// Each is independent: one failing does not cancel the others, and the
// returned error joins every failure.
func (s *Session) Load(ctx context.Context) error {
	var g errgroup.Group
	errs := make([]error, 4)
	g.Go(func() error { errs[0] = s.Unmapped.Load(ctx); return nil })
	g.Go(func() error { errs[1] = s.Payers.Load(ctx); return nil })
	g.Go(func() error { errs[2] = s.Groups.Load(ctx); return nil })
	g.Go(func() error { errs[3] = s.SeedRegistry(ctx); return nil })
	_ = g.Wait()
	return errors.Join(errs...)
}

// SeedRegistry replaces the registry with the full group forest.
func (s *Session) SeedRegistry(ctx context.Context) error {
	res, err := s.store.FetchGroups(ctx, 1, s.cfg.FullFetchPerPage)
	if err != nil {
		s.log.Error("Group registry load failed", "error", err)
		return fmt.Errorf("%w: group registry: %w", pkgerrors.ErrFetchFailed, err)
	}
	s.Registry.Seed(res.Groups)
	return nil
}

// refreshRegistry merges the full forest into the registry. Concurrent
// callers share one fetch.
func (s *Session) refreshRegistry(ctx context.Context) (int, error) {
	v, err, _ := s.refresh.Do("groups", func() (any, error) {
		return s.mergeFullForest(ctx)
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

// ensureRegistered makes groupID selectable after an acknowledged assignment.
// A shared refresh may have read the forest before groupID existed, so a miss
// is followed by one fetch of our own.
func (s *Session) ensureRegistered(ctx context.Context, groupID string) (int, error) {
	added, err := s.refreshRegistry(ctx)
	if err != nil || s.Registry.Contains(groupID) {
		return added, err
	}
	more, err := s.mergeFullForest(ctx)
	return added + more, err
}

func (s *Session) mergeFullForest(ctx context.Context) (int, error) {
	res, err := s.store.FetchGroups(ctx, 1, s.cfg.FullFetchPerPage)
	if err != nil {
		return 0, fmt.Errorf("%w: group registry: %w", pkgerrors.ErrFetchFailed, err)
	}
	return s.Registry.MergeForest(res.Groups), nil
}

// Grouping buckets the loaded payers page by group.
func (s *Session) Grouping() taxonomy.Grouping {
	return taxonomy.GroupPayers(s.Payers.Items())
}

// Sections is Grouping labelled through the registry.
func (s *Session) Sections() []taxonomy.Section {
	return s.Grouping().Sections(s.Registry)
}
