package http

import (
	"context"
	"encoding/json"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/greenscore/internal/assess"
	"github.com/mind-engage/greenscore/internal/geodata"
	"github.com/mind-engage/greenscore/internal/jobs"
	"github.com/mind-engage/greenscore/internal/news"
	"github.com/mind-engage/greenscore/internal/report"
	"github.com/mind-engage/greenscore/internal/scoring"
	"github.com/mind-engage/greenscore/internal/storage"
	"github.com/mind-engage/greenscore/internal/store"
)

type nopRecorder struct{}

func (nopRecorder) Record(store.Record) {}

func testService() *assess.Service {
	now := func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	col := geodata.NewCollector(geodata.Static{
		geodata.BandNDVI:          6000,
		geodata.BandPrecipitation: 120,
		geodata.BandVV:            -8,
		geodata.BandNO2:           0.00005,
		geodata.BandCO:            0.03,
		geodata.BandSO2:           0.0002,
		geodata.BandLST:           14900,
	})
	col.Now = now
	return assess.NewService(assess.Deps{
		Collector: col,
		News: news.NewHolder(news.NewTable(map[string]news.Entry{
			"bali": {Infrastructure: scoring.SolarPanel, RenewableEnergy: "Energi Surya"},
		}, now())),
		Recorder: nopRecorder{},
		Now:      now,
	})
}

func router(svc *assess.Service) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/get-infrastructure/{province}", InfrastructureHandler(svc))
	r.Get("/districts/{district}/environmental-score/{subdistrict}", EnvironmentalScoreHandler(svc))
	r.Get("/districts/{district}/environmental-scores", EnvironmentalScoresHandler(svc))
	r.Get("/investment-score/{region}", InvestmentScoreHandler(svc))
	r.Post("/score", ScoreHandler(svc))
	r.Post("/admin/categories/refresh", RefreshCategoriesHandler(svc))
	return r
}

func do(t *testing.T, h nethttp.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *nethttp.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestInfrastructureEndpoint(t *testing.T) {
	r := router(testService())

	rec := do(t, r, nethttp.MethodGet, "/get-infrastructure/Bali", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Bali", body["province"])
	assert.Equal(t, "Solar Panel", body["infrastructure"])
	assert.Equal(t, "Model not available", body["poverty_index"])
	assert.Equal(t, 0.6, body["ndvi"])

	rec = do(t, r, nethttp.MethodGet, "/get-infrastructure/atlantis", "")
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid region name"}`, rec.Body.String())
}

func TestEnvironmentalEndpoints(t *testing.T) {
	r := router(testService())

	rec := do(t, r, nethttp.MethodGet, "/districts/jakarta-pusat/environmental-score/gambir", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Gambir", body["subdistrict"])
	assert.Equal(t, "Favorable conditions", body["solar_panel_efficiency"])

	rec = do(t, r, nethttp.MethodGet, "/districts/bantul/environmental-scores", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec), 17)

	rec = do(t, r, nethttp.MethodGet, "/districts/bantul/environmental-score/narnia", "")
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)
}

func TestInvestmentScoreEndpoint(t *testing.T) {
	r := router(testService())

	rec := do(t, r, nethttp.MethodGet, "/investment-score/bali?risk_level=high&amount=abc&term=100", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)

	var a assess.Assessment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	assert.Equal(t, scoring.High, a.Parameters.RiskLevel)
	assert.Equal(t, scoring.DefaultAmount, a.Parameters.Amount)
	assert.Equal(t, scoring.DefaultTerm, a.Parameters.Term)
	assert.ElementsMatch(t, []string{"investment_amount", "investment_term"}, a.Parameters.Corrections)
	assert.NotEmpty(t, a.RunID)
	assert.Greater(t, a.Projection.TotalReturn, 0.0)
}

func TestScoreEndpoint(t *testing.T) {
	r := router(testService())

	rec := do(t, r, nethttp.MethodPost, "/score", `{
		"indicators": {"vegetation_index": 0.6, "precipitation_mm": 120, "soil_moisture_db": -8,
		               "poverty_index": 45, "infrastructure": "Solar Panel"},
		"risk_level": "moderate", "amount": 50000, "term": 10}`)
	require.Equal(t, nethttp.StatusOK, rec.Code)

	var a assess.Assessment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	assert.Equal(t, 48.8, a.Breakdown.CompositeScore)
	assert.Equal(t, 32500.0, a.Projection.ImplementationCost)
	assert.Empty(t, a.Parameters.Corrections)

	rec = do(t, r, nethttp.MethodPost, "/score", `{"indicators":`)
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
}

func TestScoreEndpointPovertyScale(t *testing.T) {
	r := router(testService())

	rec := do(t, r, nethttp.MethodPost, "/score", `{"indicators": {"poverty_index": {"value": 9, "scale": "model20"}}}`)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	var a assess.Assessment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	assert.Equal(t, 45.0, a.Breakdown.PovertyScore)

	rec = do(t, r, nethttp.MethodPost, "/score", `{"indicators": {"poverty_index": 9}}`)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	assert.Equal(t, 9.0, a.Breakdown.PovertyScore)

	rec = do(t, r, nethttp.MethodPost, "/score", `{"indicators": {"poverty_index": {"value": 9, "scale": "dollars"}}}`)
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
}

func TestRefreshCategoriesUnconfigured(t *testing.T) {
	rec := do(t, router(testService()), nethttp.MethodPost, "/admin/categories/refresh", "")
	assert.Equal(t, nethttp.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "not configured")
}

type fakeHistory struct {
	region string
	limit  int
	err    error
}

func (f *fakeHistory) History(_ context.Context, region string, limit int) ([]store.HistoryRow, error) {
	f.region, f.limit = region, limit
	if f.err != nil {
		return nil, f.err
	}
	return []store.HistoryRow{{ID: "a", Region: region, CompositeScore: 48.8}}, nil
}

func TestHistoryEndpoint(t *testing.T) {
	h := &fakeHistory{}
	r := chi.NewRouter()
	r.Get("/scores/*", HistoryHandler(h))

	rec := do(t, r, nethttp.MethodGet, "/scores/Bantul/Sewon?limit=3", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "bantul/sewon", h.region)
	assert.Equal(t, 3, h.limit)
	assert.Contains(t, rec.Body.String(), `"composite_score":48.8`)

	do(t, r, nethttp.MethodGet, "/scores/bali?limit=-1", "")
	assert.Equal(t, store.DefaultHistoryLimit, h.limit)

	h.err = errors.New("db gone")
	rec = do(t, r, nethttp.MethodGet, "/scores/bali", "")
	assert.Equal(t, nethttp.StatusInternalServerError, rec.Code)
}

func TestReportsEndpoints(t *testing.T) {
	fs, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)
	r := chi.NewRouter()
	r.Route("/reports", func(rr chi.Router) {
		MountReports(rr, testService(), report.NewArchiver(fs))
	})

	rec := do(t, r, nethttp.MethodGet, "/reports/bali", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Green investment score: Bali")
	key := rec.Header().Get("X-Report-Key")
	assert.True(t, strings.HasPrefix(key, "reports/bali/"))

	rec = do(t, r, nethttp.MethodGet, "/reports/bali/archive", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), key)

	rec = do(t, r, nethttp.MethodGet, "/reports/archive/"+strings.TrimPrefix(key, "reports/"), "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<table>")

	rec = do(t, r, nethttp.MethodGet, "/reports/atlantis", "")
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)
	rec = do(t, r, nethttp.MethodGet, "/reports/archive/bali/missing.html", "")
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)
}

func TestBatchEndpoints(t *testing.T) {
	b := jobs.NewBatch(testService())
	r := chi.NewRouter()
	r.Post("/admin/batch/run", BatchRunHandler(b))
	r.Get("/admin/batch/last", BatchLastHandler(b))

	rec := do(t, r, nethttp.MethodGet, "/admin/batch/last", "")
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)

	rec = do(t, r, nethttp.MethodPost, "/admin/batch/run", "")
	assert.Equal(t, nethttp.StatusAccepted, rec.Code)

	require.Eventually(t, func() bool {
		return do(t, r, nethttp.MethodGet, "/admin/batch/last", "").Code == nethttp.StatusOK
	}, 5*time.Second, 10*time.Millisecond)
}

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

func TestReadyHandler(t *testing.T) {
	rec := do(t, ReadyHandler(pinger{}), nethttp.MethodGet, "/readyz", "")
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	rec = do(t, ReadyHandler(pinger{err: errors.New("down")}), nethttp.MethodGet, "/readyz", "")
	assert.Equal(t, nethttp.StatusServiceUnavailable, rec.Code)
	rec = do(t, HealthHandler(), nethttp.MethodGet, "/healthz", "")
	assert.Equal(t, nethttp.StatusOK, rec.Code)
}
