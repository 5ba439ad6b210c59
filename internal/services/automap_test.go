package services

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/payerdesk/internal/data/repos"
	"github.com/yungbote/payerdesk/internal/data/repos/testutil"
	"github.com/yungbote/payerdesk/internal/domain/registry"
	"github.com/yungbote/payerdesk/internal/pkg/dbctx"
)

func TestAutoMapperRun(t *testing.T) {
	if os.Getenv("TEST_POSTGRES_DSN") != "" {
		t.Skip("auto mapper commits its own transactions; runs on a private sqlite database only")
	}
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()
	f := &fixture{db: db, tx: db, ctx: ctx, dbc: dbctx.Context{Ctx: ctx}, repos: repos.New(db, log)}

	details := seedQueueScenario(t, f)
	testutil.SeedPayer(t, ctx, db, "P1", "Delta Dental (existing)", nil)

	cache := &memCache{}
	unmapped := newUnmappedService(t, f, cache)
	mapper := NewAutoMapper(db, log, f.repos.Details, f.repos.Payers, newTestClassifier(t), unmapped)

	report, err := mapper.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 6, report.Details)
	require.Equal(t, 3, report.Clusters)
	require.Equal(t, 2, report.PayersCreated)
	require.Equal(t, 1, report.Relinked)
	require.Equal(t, []registry.UnmappedDetail{details[5].Unmapped()}, report.Review)
	require.Equal(t, 1, cache.invalidated)

	require.Equal(t, "Delta Dental (existing)", f.payer(t, "P1").PayerName)
	p3 := f.payer(t, "P3")
	require.Equal(t, "Delta Dental of AZ", p3.PayerName)
	require.NotNil(t, p3.PrettyName)
	require.Equal(t, "Delta Dental of AZ", *p3.PrettyName)
	require.Nil(t, p3.GroupID)

	var relinked registry.PayerDetail
	require.NoError(t, db.First(&relinked, "detail_id = ?", details[1].DetailID).Error)
	require.Equal(t, "P1", relinked.PayerID)
	require.Nil(t, relinked.MappedAt)

	again, err := mapper.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, again.PayersCreated)
	require.Equal(t, 0, again.Relinked)
	require.Len(t, again.Review, 1)
}

func TestAutoMapperSkipsOperatorMappedDetails(t *testing.T) {
	if os.Getenv("TEST_POSTGRES_DSN") != "" {
		t.Skip("auto mapper commits its own transactions; runs on a private sqlite database only")
	}
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()
	r := repos.New(db, log)

	d := testutil.SeedDetail(t, ctx, db, "P9", "Cigna", "TX", "Sheet1")
	_, err := r.Details.MapToPayer(dbctx.Context{Ctx: ctx}, d.DetailID, "P1", d.CreatedAt)
	require.NoError(t, err)

	report, err := NewAutoMapper(db, log, r.Details, r.Payers, newTestClassifier(t), nil).Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, report.Details)
	require.Equal(t, 0, report.PayersCreated)
}
