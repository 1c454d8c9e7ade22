package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestUnaryInterceptorRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewServiceCollector(reg)
	if err != nil {
		t.Fatalf("NewServiceCollector: %v", err)
	}

	interceptor := collector.UnaryServerInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

	_, err = interceptor(context.Background(), struct{}{}, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		time.Sleep(time.Millisecond)
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("interceptor handler returned error: %v", err)
	}

	if got := testutil.ToFloat64(collector.RPCRequests.WithLabelValues("Health", "Check", "OK")); got != 1 {
		t.Fatalf("grpc_requests_total = %v, want 1", got)
	}
	if count := histogramSampleCount(t, reg, "grpc_request_duration_seconds", map[string]string{
		"service": "Health",
		"method":  "Check",
	}); count != 1 {
		t.Fatalf("grpc_request_duration_seconds sample_count = %d, want 1", count)
	}
}

func TestUnaryInterceptorRecordsErrorCode(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewServiceCollector(reg)
	if err != nil {
		t.Fatalf("NewServiceCollector: %v", err)
	}

	interceptor := collector.UnaryServerInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	_, _ = interceptor(context.Background(), struct{}{}, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, status.Error(codes.NotFound, "unknown service")
	})

	if got := testutil.ToFloat64(collector.RPCRequests.WithLabelValues("Health", "Check", "NotFound")); got != 1 {
		t.Fatalf("grpc_requests_total error label = %v, want 1", got)
	}
}

func TestInstrumentHandlerRecordsRouteAndCode(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewServiceCollector(reg)
	if err != nil {
		t.Fatalf("NewServiceCollector: %v", err)
	}

	h := collector.InstrumentHandler("/perf-tod", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("oat") == "" {
			http.Error(w, "missing oat", http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte("<svg/>"))
	}))

	for _, target := range []string{"/perf-tod?oat=15", "/perf-tod?oat=20", "/perf-tod"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
	}

	if got := testutil.ToFloat64(collector.HTTPRequests.WithLabelValues("/perf-tod", "200")); got != 2 {
		t.Fatalf("http_requests_total{code=200} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.HTTPRequests.WithLabelValues("/perf-tod", "400")); got != 1 {
		t.Fatalf("http_requests_total{code=400} = %v, want 1", got)
	}
	if count := histogramSampleCount(t, reg, "http_request_duration_seconds", map[string]string{"route": "/perf-tod"}); count != 3 {
		t.Fatalf("http_request_duration_seconds sample_count = %d, want 3", count)
	}
}

func TestCollectorsAreIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewServiceCollector(reg)
	if err != nil {
		t.Fatalf("first NewServiceCollector: %v", err)
	}
	second, err := NewServiceCollector(reg)
	if err != nil {
		t.Fatalf("second NewServiceCollector: %v", err)
	}
	if first.HTTPRequests != second.HTTPRequests {
		t.Fatalf("second collector should reuse registered http_requests_total")
	}

	if _, err := NewCalculationCollector(reg); err != nil {
		t.Fatalf("first NewCalculationCollector: %v", err)
	}
	if _, err := NewCalculationCollector(reg); err != nil {
		t.Fatalf("second NewCalculationCollector: %v", err)
	}
}

func TestRegisterRejectsIncompatibleCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "http_requests_total", Help: "clash"})
	if err := reg.Register(gauge); err != nil {
		t.Fatalf("register gauge: %v", err)
	}
	if _, err := NewServiceCollector(reg); err == nil {
		t.Fatalf("NewServiceCollector should fail when a metric name is taken by another type")
	}
}

func TestCalculationCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCalculationCollector(reg)
	if err != nil {
		t.Fatalf("NewCalculationCollector: %v", err)
	}

	c.ObserveCalculation("tod", OutcomeOK, 180, 335)
	c.ObserveCalculation("tod", OutcomeOutOfRange, 0, 0)
	c.ObservePlan(2 * time.Millisecond)
	c.ObserveCacheLookup("svg", true)
	c.ObserveCacheLookup("svg", false)
	c.ObserveCacheLookup("svg", false)
	c.SetCacheEntries(4)

	if got := testutil.ToFloat64(c.Calculations.WithLabelValues("tod", OutcomeOK)); got != 1 {
		t.Fatalf("performance_calculations_total{ok} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.Calculations.WithLabelValues("tod", OutcomeOutOfRange)); got != 1 {
		t.Fatalf("performance_calculations_total{out_of_range} = %v, want 1", got)
	}
	if count := histogramSampleCount(t, reg, "performance_distance_meters", map[string]string{"chart": "tod", "kind": "total"}); count != 1 {
		t.Fatalf("performance_distance_meters sample_count = %d, want 1", count)
	}
	if got := testutil.ToFloat64(c.CacheLookups.WithLabelValues("svg", "miss")); got != 2 {
		t.Fatalf("render_cache_lookups_total{miss} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.CacheEntries); got != 4 {
		t.Fatalf("render_cache_entries = %v, want 4", got)
	}
	if count := histogramSampleCount(t, reg, "flight_plan_duration_seconds", nil); count != 1 {
		t.Fatalf("flight_plan_duration_seconds sample_count = %d, want 1", count)
	}

	var nilCollector *CalculationCollector
	nilCollector.ObserveCalculation("ldr", OutcomeOK, 1, 2)
	nilCollector.SetCacheEntries(1)
}

func TestMetricsHandlerExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewServiceCollector(reg)
	if err != nil {
		t.Fatalf("NewServiceCollector: %v", err)
	}
	calc, err := NewCalculationCollector(reg)
	if err != nil {
		t.Fatalf("NewCalculationCollector: %v", err)
	}
	collector.HTTPRequests.WithLabelValues("/", "200").Inc()
	collector.HTTPDurations.WithLabelValues("/").Observe(0.01)
	calc.ObserveCalculation("ldr", OutcomeOK, 200, 450)

	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"http_requests_total",
		"http_request_duration_seconds",
		"performance_calculations_total",
		"performance_distance_meters",
	} {
		if !strings.Contains(body, metric) {
			t.Fatalf("expected %q in /metrics output", metric)
		}
	}
}

func TestSplitMethod(t *testing.T) {
	cases := []struct {
		in            string
		service, meth string
	}{
		{"/grpc.health.v1.Health/Check", "Health", "Check"},
		{"Health/Watch", "Health", "Watch"},
		{"", "unknown", "unknown"},
		{"/nomethod", "unknown", "unknown"},
	}
	for _, c := range cases {
		s, m := SplitMethod(c.in)
		if s != c.service || m != c.meth {
			t.Fatalf("SplitMethod(%q) = %q, %q, want %q, %q", c.in, s, m, c.service, c.meth)
		}
	}
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string, labels map[string]string) uint64 {
	t.Helper()

	metrics, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if matchLabels(m.GetLabel(), labels) && m.GetHistogram() != nil {
				return m.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}

func matchLabels(got []*dto.LabelPair, want map[string]string) bool {
	if len(got) < len(want) {
		return false
	}
	matched := 0
	for _, lp := range got {
		if val, ok := want[lp.GetName()]; ok && val == lp.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
