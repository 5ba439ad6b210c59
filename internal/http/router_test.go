package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/payerdesk/internal/data/repos"
	"github.com/yungbote/payerdesk/internal/data/repos/testutil"
	"github.com/yungbote/payerdesk/internal/domain/registry"
	httpH "github.com/yungbote/payerdesk/internal/http/handlers"
	"github.com/yungbote/payerdesk/internal/http/response"
	"github.com/yungbote/payerdesk/internal/matching"
	"github.com/yungbote/payerdesk/internal/observability"
	"github.com/yungbote/payerdesk/internal/services"
)

type testAPI struct {
	db      *gorm.DB
	router  *gin.Engine
	details []*registry.PayerDetail
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	if os.Getenv("TEST_POSTGRES_DSN") != "" {
		t.Skip("router tests commit through the services; they run on a private sqlite database only")
	}
	gin.SetMode(gin.TestMode)

	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()
	r := repos.New(db, log)

	testutil.SeedPayer(t, ctx, db, "P1", "Delta Dental of Arizona", nil)
	testutil.SeedPayer(t, ctx, db, "P4", "Aetna", nil)
	testutil.SeedGroup(t, ctx, db, "G1", "Dental", nil)
	var details []*registry.PayerDetail
	for _, row := range [][3]string{
		{"P1", "Delta Dental of Arizona", "AZ"},
		{"P4", "Aetna", "TX"},
		{"P5", "Aetna Inc", "TX"},
	} {
		details = append(details, testutil.SeedDetail(t, ctx, db, row[0], row[1], row[2], "Sheet1"))
	}

	classifier, err := matching.NewClassifier(log, "", "")
	require.NoError(t, err)
	reg := services.NewPayerRegistryService(db, log, r.Payers, r.PayerGroups)
	unmapped := services.NewUnmappedService(db, log, r.Details, r.Payers, classifier, nil)

	router := NewRouter(RouterConfig{
		Log:             log,
		Metrics:         observability.NewMetrics(),
		HealthHandler:   httpH.NewHealthHandler(db),
		PayerHandler:    httpH.NewPayerHandler(reg),
		UnmappedHandler: httpH.NewUnmappedHandler(unmapped),
	})
	return &testAPI{db: db, router: router, details: details}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func requireErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	env := decode[response.ErrorEnvelope](t, rec)
	require.Equal(t, code, env.Error.Code)
	require.NotEmpty(t, env.Error.Message)
}

func TestHealthcheck(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/healthcheck", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	require.NotEmpty(t, rec.Header().Get("X-Trace-Id"))

	rec = api.do(t, http.MethodGet, "/readyz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestListEndpoints(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/payers?page=1&per_page=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	payers := decode[registry.PayerPage](t, rec)
	require.Equal(t, 2, payers.Total)
	require.Len(t, payers.Payers, 1)
	require.Equal(t, "P1", payers.Payers[0].PayerID)

	rec = api.do(t, http.MethodGet, "/api/payer_groups", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	groups := decode[registry.GroupPage](t, rec)
	require.Equal(t, 1, groups.Total)
	require.Equal(t, "Dental", groups.Groups[0].GroupName)
	require.Contains(t, rec.Body.String(), `"children":[]`)

	rec = api.do(t, http.MethodGet, "/api/unmapped", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	unmapped := decode[registry.UnmappedPage](t, rec)
	require.Equal(t, 1, unmapped.Total)
	require.Equal(t, api.details[2].DetailID, unmapped.Unmapped[0].DetailID)
}

func TestListEndpointsRejectBadPagination(t *testing.T) {
	api := newTestAPI(t)
	for _, path := range []string{
		"/api/payers?page=0",
		"/api/payer_groups?per_page=abc",
		"/api/unmapped?per_page=10001",
		"/api/unmapped?page=9223372036854775807&per_page=2",
		"/api/payers?page=9223372036854775807&per_page=2",
	} {
		requireErrorCode(t, api.do(t, http.MethodGet, path, nil), http.StatusBadRequest, "invalid_pagination")
	}
}

func TestMapPayerEndpoint(t *testing.T) {
	api := newTestAPI(t)
	detailID := api.details[2].DetailID

	rec := api.do(t, http.MethodPost, "/api/map_payer", registry.MapPayerRequest{DetailID: detailID, PayerID: "P4"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "success", decode[registry.StatusResponse](t, rec).Status)

	unmapped := decode[registry.UnmappedPage](t, api.do(t, http.MethodGet, "/api/unmapped", nil))
	require.Equal(t, 0, unmapped.Total)
	require.NotNil(t, unmapped.Unmapped)

	requireErrorCode(t, api.do(t, http.MethodPost, "/api/map_payer", registry.MapPayerRequest{DetailID: detailID, PayerID: "NOPE"}), http.StatusNotFound, "payer_not_found")
	requireErrorCode(t, api.do(t, http.MethodPost, "/api/map_payer", registry.MapPayerRequest{DetailID: 424242, PayerID: "P4"}), http.StatusNotFound, "detail_not_found")
	requireErrorCode(t, api.do(t, http.MethodPost, "/api/map_payer", "{not json"), http.StatusBadRequest, "invalid_request")
}

func TestRegistryMutationEndpoints(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/update_pretty_name", registry.UpdatePrettyNameRequest{PayerID: "P4", PrettyName: "Aetna Dental"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var p registry.Payer
	require.NoError(t, api.db.First(&p, "payer_id = ?", "P4").Error)
	require.Equal(t, "Aetna Dental", p.DisplayName())

	rec = api.do(t, http.MethodPost, "/api/update_group", registry.UpdateGroupRequest{PayerID: "P4", GroupID: "Commercial"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	groups := decode[registry.GroupPage](t, api.do(t, http.MethodGet, "/api/payer_groups", nil))
	require.Equal(t, 2, groups.Total)

	rec = api.do(t, http.MethodPost, "/api/update_group", registry.UpdateGroupRequest{PayerID: "P4", GroupID: ""})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, api.db.First(&p, "payer_id = ?", "P4").Error)
	require.Nil(t, p.GroupID)

	requireErrorCode(t, api.do(t, http.MethodPost, "/api/update_pretty_name", registry.UpdatePrettyNameRequest{PayerID: "NOPE", PrettyName: "x"}), http.StatusNotFound, "payer_not_found")
	requireErrorCode(t, api.do(t, http.MethodPost, "/api/update_group", registry.UpdateGroupRequest{GroupID: "G1"}), http.StatusBadRequest, "missing_payer_id")
}

func TestMetricsEndpoint(t *testing.T) {
	api := newTestAPI(t)
	api.do(t, http.MethodGet, "/api/payers", nil)

	rec := api.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), `payerdesk_api_requests_total{method="GET",route="/api/payers",status="200"} 1`), rec.Body.String())
}
