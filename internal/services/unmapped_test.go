package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/payerdesk/internal/data/repos/testutil"
	"github.com/yungbote/payerdesk/internal/domain/registry"
)

// seedQueueScenario loads six details of which only "Aetna Inc" lands in
// the review band.
func seedQueueScenario(t *testing.T, f *fixture) []*registry.PayerDetail {
	t.Helper()
	rows := [][3]string{
		{"P1", "Delta Dental of Arizona", "AZ"},
		{"P2", "Delta Dental of AZ", "AZ"},
		{"P3", "Delta Dental of AZ", "TX"},
		{"P1", "Something Else", "CA"},
		{"P4", "Aetna", "TX"},
		{"P5", "Aetna Inc", "TX"},
	}
	out := make([]*registry.PayerDetail, 0, len(rows))
	for _, r := range rows {
		out = append(out, testutil.SeedDetail(t, f.ctx, f.tx, r[0], r[1], r[2], "Sheet1"))
	}
	return out
}

func newUnmappedService(t *testing.T, f *fixture, cache *memCache) UnmappedService {
	t.Helper()
	var svc UnmappedService
	if cache == nil {
		svc = NewUnmappedService(f.db, testutil.Logger(t), f.repos.Details, f.repos.Payers, newTestClassifier(t), nil)
	} else {
		svc = NewUnmappedService(f.db, testutil.Logger(t), f.repos.Details, f.repos.Payers, newTestClassifier(t), cache)
	}
	svc.(*unmappedService).now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return svc
}

func TestUnmappedList(t *testing.T) {
	f := newFixture(t)
	details := seedQueueScenario(t, f)
	svc := newUnmappedService(t, f, nil)

	page, err := svc.List(f.dbc, Pagination{Page: 1, PerPage: 50})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	require.Equal(t, []registry.UnmappedDetail{details[5].Unmapped()}, page.Unmapped)

	page, err = svc.List(f.dbc, Pagination{Page: 2, PerPage: 50})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	require.NotNil(t, page.Unmapped)
	require.Empty(t, page.Unmapped)
}

func TestUnmappedListUsesCache(t *testing.T) {
	f := newFixture(t)
	seedQueueScenario(t, f)
	cache := &memCache{}
	svc := newUnmappedService(t, f, cache)

	_, err := svc.List(f.dbc, Pagination{Page: 1, PerPage: 50})
	require.NoError(t, err)
	page, err := svc.List(f.dbc, Pagination{Page: 1, PerPage: 50})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	require.Equal(t, 2, cache.gets)
	require.Equal(t, 1, cache.sets)
}

func TestUnmappedMapPayer(t *testing.T) {
	f := newFixture(t)
	details := seedQueueScenario(t, f)
	testutil.SeedPayer(t, f.ctx, f.tx, "P4", "Aetna", nil)
	cache := &memCache{}
	svc := newUnmappedService(t, f, cache)

	_, err := svc.List(f.dbc, Pagination{Page: 1, PerPage: 50})
	require.NoError(t, err)

	require.NoError(t, svc.MapPayer(f.dbc, details[5].DetailID, " P4 "))
	require.Equal(t, 1, cache.invalidated)

	var got registry.PayerDetail
	require.NoError(t, f.tx.First(&got, "detail_id = ?", details[5].DetailID).Error)
	require.Equal(t, "P4", got.PayerID)
	require.NotNil(t, got.MappedAt)

	page, err := svc.List(f.dbc, Pagination{Page: 1, PerPage: 50})
	require.NoError(t, err)
	require.Equal(t, 0, page.Total)
	require.Empty(t, page.Unmapped)
}

func TestUnmappedMapPayerErrors(t *testing.T) {
	f := newFixture(t)
	details := seedQueueScenario(t, f)
	testutil.SeedPayer(t, f.ctx, f.tx, "P4", "Aetna", nil)
	svc := newUnmappedService(t, f, nil)

	requireAPIError(t, svc.MapPayer(f.dbc, 0, "P4"), http.StatusBadRequest, "missing_detail_id")
	requireAPIError(t, svc.MapPayer(f.dbc, details[0].DetailID, "  "), http.StatusBadRequest, "missing_payer_id")
	requireAPIError(t, svc.MapPayer(f.dbc, 999999, "P4"), http.StatusNotFound, "detail_not_found")
	requireAPIError(t, svc.MapPayer(f.dbc, details[0].DetailID, "NOPE"), http.StatusNotFound, "payer_not_found")
}
