package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AstroChart/internal/service/aspects"
	"AstroChart/internal/service/ephemeris"
	"AstroChart/internal/service/houses"
	"AstroChart/internal/service/ratelimit"
	"AstroChart/internal/service/transits"
	"AstroChart/internal/usecase"
	"AstroChart/pkg/cache"
	"AstroChart/pkg/logger"
)

type noopMetrics struct{}

func (noopMetrics) ObserveChartCalculation(string, time.Duration)   {}
func (noopMetrics) ObserveProviderCall(string, bool, time.Duration) {}
func (noopMetrics) ObserveTransitSearch(int, int, time.Duration)    {}
func (noopMetrics) IncCalculationError(string)                      {}
func (noopMetrics) IncCacheLookup(bool)                             {}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	log := logger.Nop()
	provider := ephemeris.NewBuiltin()
	charts := usecase.NewChartUsecase(provider, houses.NewCalculator(), aspects.NewEngine(), noopMetrics{}, log)
	transitsUC := usecase.NewTransitUsecase(
		charts,
		aspects.NewEngine(),
		transits.NewSearcher(provider, 4),
		nil,
		noopMetrics{},
		log,
		0,
	)
	batch := usecase.NewBatchUsecase(charts, transitsUC, 4)

	limiter := ratelimit.NewLimiter(100, 100)
	t.Cleanup(limiter.Close)

	store := cache.NewMemoryCache(128)
	t.Cleanup(func() { _ = store.Close() })

	h := NewHandler(charts, transitsUC, batch, limiter, store, time.Minute, noopMetrics{}, log)

	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

const natalBody = `{
	"birth_date": "1990-06-15T14:30:00",
	"latitude": 40.7128,
	"longitude": -74.0060,
	"timezone": "America/New_York"
}`

func TestCalculateNatalEndpoint(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/natal/calculate", natalBody)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Status int `json:"status"`
		Data   struct {
			Bodies []struct {
				Body  string `json:"body"`
				Sign  string `json:"sign"`
				House int    `json:"house"`
			} `json:"bodies"`
			Aspects []json.RawMessage `json:"aspects"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, http.StatusOK, envelope.Status)
	assert.NotEmpty(t, envelope.Data.Bodies)
	assert.NotEmpty(t, envelope.Data.Aspects)

	for _, b := range envelope.Data.Bodies {
		if b.Body == "sun" {
			assert.Equal(t, "Gemini", b.Sign)
		}
	}
}

func TestCalculateNatalCachedResponseIsIdentical(t *testing.T) {
	e := newTestServer(t)

	first := doJSON(e, http.MethodPost, "/api/v1/natal/calculate", natalBody)
	require.Equal(t, http.StatusOK, first.Code)

	second := doJSON(e, http.MethodPost, "/api/v1/natal/calculate", natalBody)
	require.Equal(t, http.StatusOK, second.Code)

	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestCalculateNatalInvalidLatitudeIs422(t *testing.T) {
	e := newTestServer(t)

	body := strings.Replace(natalBody, "40.7128", "100", 1)
	rec := doJSON(e, http.MethodPost, "/api/v1/natal/calculate", body)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_INVALID_COORDINATES")
}

func TestCalculateNatalMissingBirthDateIs400(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/natal/calculate", `{"latitude": 1, "longitude": 2}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBatchEndpointReportsPerItemFailures(t *testing.T) {
	e := newTestServer(t)

	body := `{"charts": [` + natalBody + `, ` + strings.Replace(natalBody, "40.7128", "100", 1) + `]}`
	rec := doJSON(e, http.MethodPost, "/api/v1/natal/calculate/batch", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data struct {
			Summary struct {
				Requested int `json:"requested"`
				Succeeded int `json:"succeeded"`
				Failed    int `json:"failed"`
			} `json:"summary"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, 2, envelope.Data.Summary.Requested)
	assert.Equal(t, 1, envelope.Data.Summary.Succeeded)
	assert.Equal(t, 1, envelope.Data.Summary.Failed)
}

func TestHouseSystemsEndpoint(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/api/v1/config/house-systems", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "placidus")
	assert.Contains(t, rec.Body.String(), "whole_sign")
}

func TestAspectsEndpoint(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/api/v1/config/aspects", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "conjunction")
	assert.Contains(t, rec.Body.String(), "opposition")
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
