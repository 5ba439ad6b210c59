package services

import (
	"context"
	"sync"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/payerdesk/internal/data/repos"
	"github.com/yungbote/payerdesk/internal/data/repos/testutil"
	"github.com/yungbote/payerdesk/internal/domain/registry"
	"github.com/yungbote/payerdesk/internal/matching"
	"github.com/yungbote/payerdesk/internal/pkg/dbctx"
)

type fixture struct {
	db    *gorm.DB
	tx    *gorm.DB
	ctx   context.Context
	dbc   dbctx.Context
	repos repos.Repos
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	return &fixture{
		db:    db,
		tx:    tx,
		ctx:   ctx,
		dbc:   dbctx.Context{Ctx: ctx, Tx: tx},
		repos: repos.New(db, testutil.Logger(t)),
	}
}

func newTestClassifier(t *testing.T) *matching.Classifier {
	t.Helper()
	c, err := matching.NewClassifier(testutil.Logger(t), "", "")
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}
	return c
}

// memCache is an in-process UnmappedCache.
type memCache struct {
	mu          sync.Mutex
	queue       []registry.UnmappedDetail
	ok          bool
	gets        int
	sets        int
	invalidated int
}

func (m *memCache) Get(context.Context) ([]registry.UnmappedDetail, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if !m.ok {
		return nil, false, nil
	}
	out := make([]registry.UnmappedDetail, len(m.queue))
	copy(out, m.queue)
	return out, true, nil
}

func (m *memCache) Set(_ context.Context, queue []registry.UnmappedDetail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	m.queue = append([]registry.UnmappedDetail(nil), queue...)
	m.ok = true
	return nil
}

func (m *memCache) Invalidate(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated++
	m.queue = nil
	m.ok = false
	return nil
}

func (m *memCache) Client() goredis.UniversalClient { return nil }
func (m *memCache) Close() error                    { return nil }
