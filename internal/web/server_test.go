package web

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalsfoundry/aquila-performance/core"
	"github.com/signalsfoundry/aquila-performance/internal/logging"
	"github.com/signalsfoundry/aquila-performance/internal/observability"
	"github.com/signalsfoundry/aquila-performance/internal/planner"
	"github.com/signalsfoundry/aquila-performance/model"
)

const tol = 1e-6

type testServer struct {
	*Server
	svc  *observability.ServiceCollector
	calc *observability.CalculationCollector
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	reg := prometheus.NewRegistry()
	svc, err := observability.NewServiceCollector(reg)
	require.NoError(t, err)
	calc, err := observability.NewCalculationCollector(reg)
	require.NoError(t, err)

	srv, err := NewServer(Options{Metrics: svc, Calculation: calc, CacheSize: 8})
	require.NoError(t, err)
	return &testServer{Server: srv, svc: svc, calc: calc}
}

func (s *testServer) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func formValues() url.Values {
	return url.Values{
		fieldCallsign:      {"PHDHB"},
		fieldPilot:         {"80"},
		fieldPilotSeat:     {"f"},
		fieldFuelType:      {"avgas"},
		fieldFuelUnit:      {"liter"},
		fieldTrip:          {"01:00"},
		fieldAlternate:     {"00:30"},
		fieldOAT:           {"15"},
		fieldPA:            {"1000"},
		fieldWind:          {"10"},
		fieldWindDirection: {"headwind"},
	}
}

func TestIndexRendersForm(t *testing.T) {
	s := newTestServer(t)
	rec := s.get(t, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, contentTypeHTML, rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, `action="/calculations"`)
	for _, cs := range Callsigns {
		assert.Contains(t, body, cs)
	}
}

func TestUnknownPathIsNotFound(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, s.get(t, "/nope").Code)
}

func TestCalculationsRendersResults(t *testing.T) {
	s := newTestServer(t)
	rec := s.get(t, "/calculations?"+formValues().Encode()+"&submit=Volgende")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := rec.Body.String()
	assert.Contains(t, body, "PHDHB")
	assert.Contains(t, body, "639.7")
	assert.Contains(t, body, "627.5")
	assert.Contains(t, body, "Within limits")
	assert.Contains(t, body, "180 m")
	assert.Contains(t, body, "335 m")
	assert.Contains(t, body, "/perf-tod?")
	assert.Contains(t, body, "/perf-ldr?")
	assert.Contains(t, body, "/wb-chart?")
	assert.Contains(t, body, `value="Vorige"`)
	assert.NotContains(t, body, `name="submit" value="Volgende"`)
}

func TestCalculationsBackKeepsValues(t *testing.T) {
	s := newTestServer(t)
	rec := s.get(t, "/calculations?"+formValues().Encode()+"&submit=Vorige")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `action="/calculations"`)
	assert.Contains(t, body, `value="80"`)
	assert.Contains(t, body, `value="01:00"`)
	assert.Contains(t, body, `<option value="PHDHB" selected>`)
	assert.Contains(t, body, `<option value="f" selected>`)
}

func TestCalculationsRejectsBadInput(t *testing.T) {
	cases := []struct {
		name  string
		edit  func(url.Values)
		code  int
		match string
	}{
		{"missing pilot", func(v url.Values) { v.Del(fieldPilot) }, http.StatusBadRequest, "pilot is required"},
		{"bad number", func(v url.Values) { v.Set(fieldOAT, "warm") }, http.StatusBadRequest, "not a number"},
		{"bad seat", func(v url.Values) { v.Set(fieldPilotSeat, "x") }, http.StatusBadRequest, "seat"},
		{"bad duration", func(v url.Values) { v.Set(fieldTrip, "1h") }, http.StatusBadRequest, "HH:MM"},
		{"too high", func(v url.Values) { v.Set(fieldPA, "9000") }, http.StatusUnprocessableEntity, "out of calibrated range"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := newTestServer(t)
			v := formValues()
			c.edit(v)
			rec := s.get(t, "/calculations?"+v.Encode())

			assert.Equal(t, c.code, rec.Code)
			assert.Contains(t, rec.Body.String(), c.match)
			assert.Contains(t, rec.Body.String(), `action="/calculations"`)
		})
	}
}

func TestChartOverlayIsSVGAndCached(t *testing.T) {
	s := newTestServer(t)
	target := "/perf-tod?oat=15&pressure_altitude=1000&mtow=650&wind=10&wind_direction=headwind"

	first := s.get(t, target)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	assert.Equal(t, contentTypeSVG, first.Header().Get("Content-Type"))
	assert.Contains(t, first.Body.String(), "<svg")
	assert.Contains(t, first.Body.String(), "Ground roll 180 m, over 50 ft 335 m")

	second := s.get(t, target+"&submit=x")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())

	assert.InDelta(t, 1, testutil.ToFloat64(s.calc.CacheLookups.WithLabelValues("chart", "miss")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(s.calc.CacheLookups.WithLabelValues("chart", "hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(s.calc.CacheEntries), 0)
}

func TestLandingChartOverlay(t *testing.T) {
	s := newTestServer(t)
	rec := s.get(t, "/perf-ldr?oat=15&pressure_altitude=1000&mtow=650&wind=10&wind_direction=headwind")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ground roll 180 m, over 50 ft 434 m")
}

func TestChartOverlayErrors(t *testing.T) {
	s := newTestServer(t)

	rec := s.get(t, "/perf-tod?oat=15&pressure_altitude=9000&mtow=650")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.get(t, "/perf-tod?oat=15&pressure_altitude=1000")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.get(t, "/perf-tod?oat=15&pressure_altitude=1000&mtow=650&wind=5&wind_direction=sideways")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Zero(t, s.cache.Len(), "failed renders are not cached")
}

func TestEnvelopeChart(t *testing.T) {
	s := newTestServer(t)
	rec := s.get(t, "/wb-chart?"+formValues().Encode())

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, contentTypeSVG, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Mass and balance PHDHB")
	assert.Contains(t, rec.Body.String(), "#2ca02c")
}

func TestPrintServesPDF(t *testing.T) {
	s := newTestServer(t)
	v := formValues()
	v.Set(fieldReference, "club flight")
	rec := s.get(t, "/print?"+v.Encode())

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, contentTypePDF, rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}

func TestPerformanceAPI(t *testing.T) {
	s := newTestServer(t)
	rec := s.get(t, "/api/v1/performance?oat=15&pressure_altitude=1000&mass=650&wind=10&wind_direction=headwind")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp struct {
		Input map[string]any `json:"input"`
		TOD   map[string]float64
		LDR   map[string]float64
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "headwind", resp.Input["wind_direction"])
	assert.InDelta(t, 650, resp.Input["mass"], 0)
	assert.InDelta(t, 179.947309793103, resp.TOD["ground_roll_m"], tol)
	assert.InDelta(t, 334.998480080608, resp.TOD["total_distance_m"], tol)
	assert.InDelta(t, 180.3169472903555, resp.LDR["ground_roll_m"], tol)
	assert.InDelta(t, 433.8039347644158, resp.LDR["total_distance_m"], tol)

	assert.InDelta(t, 1, testutil.ToFloat64(s.calc.Calculations.WithLabelValues("takeoff", observability.OutcomeOK)), 0)
}

func TestPerformanceAPIErrors(t *testing.T) {
	s := newTestServer(t)
	cases := []struct {
		query string
		code  int
	}{
		{"oat=15&pressure_altitude=1000&mass=650&wind=-3", http.StatusBadRequest},
		{"oat=15&pressure_altitude=-10&mass=650", http.StatusUnprocessableEntity},
		{"oat=15&pressure_altitude=1000", http.StatusBadRequest},
	}
	for _, c := range cases {
		rec := s.get(t, "/api/v1/performance?"+c.query)
		assert.Equal(t, c.code, rec.Code, c.query)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.NotEmpty(t, body["error"])
	}
}

func TestHealthAndReadiness(t *testing.T) {
	s := newTestServer(t)

	rec := s.get(t, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = s.get(t, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	s.SetReady(true)
	rec = s.get(t, "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ready", rec.Body.String())

	assert.InDelta(t, 1, testutil.ToFloat64(s.svc.HTTPRequests.WithLabelValues("/health", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(s.svc.HTTPRequests.WithLabelValues("/ready", "503")), 0)
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(logging.RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(logging.RequestIDHeader))

	rec = s.get(t, "/health")
	assert.NotEmpty(t, rec.Header().Get(logging.RequestIDHeader))
}

func TestMetricsRouteIsOptional(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, s.get(t, "/metrics").Code)

	srv, err := NewServer(Options{MetricsHandler: s.svc.Handler()})
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestToHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusOK, ToHTTPStatus(nil))
	assert.Equal(t, http.StatusBadRequest, ToHTTPStatus(ErrBadRequest))
	assert.Equal(t, http.StatusInternalServerError, ToHTTPStatus(assert.AnError))
}

func TestOverflowingMassIsUnprocessable(t *testing.T) {
	s := newTestServer(t)

	rec := s.get(t, "/api/v1/performance?oat=15&pressure_altitude=1000&mass=1e308&wind=5&wind_direction=headwind")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "out of calibrated range")

	rec = s.get(t, "/perf-tod?oat=15&pressure_altitude=1000&mtow=1e308&wind=5&wind_direction=headwind")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<svg")
}

func TestWriteJSONUnencodableValue(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/performance", nil)
	writeJSON(rec, req, logging.Noop(), http.StatusOK, map[string]float64{"x": math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), body["error"])
}

func TestChartRouteNamesChart(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, "/perf-ldr?mtow=600.000&oat=5&pressure_altitude=0&wind=0&wind_direction=headwind",
		chartURL(core.ChartLanding, planner.Conditions{OATCelsius: 5, WindDirection: model.Headwind}, 600))

	rec := httptest.NewRecorder()
	s.handleChart(rec, httptest.NewRequest(http.MethodGet, "/perf-climb?oat=15", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
