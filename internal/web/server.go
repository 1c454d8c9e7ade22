// Package web serves the flight preparation pages, chart overlays, printable
// reports and a JSON API over HTTP.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/signalsfoundry/aquila-performance/internal/logging"
	"github.com/signalsfoundry/aquila-performance/internal/observability"
	"github.com/signalsfoundry/aquila-performance/internal/planner"
)

//go:embed templates
var templateFS embed.FS

// DefaultCacheSize is the number of rendered artefacts kept when Options
// leaves CacheSize unset.
const DefaultCacheSize = 256

// Callsigns lists the airframes offered on the form.
var Callsigns = []string{"PHDHA", "PHDHB", "PHDHC"}

// Options configures a Server. Zero values are usable.
type Options struct {
	Log         logging.Logger
	Metrics     *observability.ServiceCollector
	Calculation *observability.CalculationCollector
	CacheSize   int
	// MetricsHandler, when set, is mounted at /metrics on the main mux.
	MetricsHandler http.Handler
}

// Server holds the HTTP handlers and their shared state.
type Server struct {
	log       logging.Logger
	metrics   *observability.ServiceCollector
	calc      *observability.CalculationCollector
	planner   *planner.Planner
	templates *template.Template
	cache     *lru.Cache[string, []byte]
	ready     atomic.Bool

	metricsHandler http.Handler
}

// NewServer parses the embedded templates and builds the render cache.
func NewServer(opts Options) (*Server, error) {
	if opts.Log == nil {
		opts.Log = logging.Noop()
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}

	tmpl, err := template.ParseFS(templateFS, "templates/*.html", "templates/*.svg")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	cache, err := lru.New[string, []byte](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create render cache: %w", err)
	}

	return &Server{
		log:            opts.Log,
		metrics:        opts.Metrics,
		calc:           opts.Calculation,
		planner:        planner.New(opts.Log, opts.Calculation),
		templates:      tmpl,
		cache:          cache,
		metricsHandler: opts.MetricsHandler,
	}, nil
}

// SetReady sets what /ready reports.
func (s *Server) SetReady(ready bool) { s.ready.Store(ready) }

// Handler returns the routed and instrumented HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	routes := []struct {
		pattern string
		route   string
		h       http.HandlerFunc
	}{
		{"GET /{$}", "/", s.handleIndex},
		{"GET /calculations", "/calculations", s.handleCalculations},
		{"GET /perf-tod", "/perf-tod", s.handleChart},
		{"GET /perf-ldr", "/perf-ldr", s.handleChart},
		{"GET /wb-chart", "/wb-chart", s.handleEnvelope},
		{"GET /print", "/print", s.handlePrint},
		{"GET /api/v1/performance", "/api/v1/performance", s.handlePerformanceAPI},
		{"GET /health", "/health", s.handleHealth},
		{"GET /ready", "/ready", s.handleReady},
	}
	for _, r := range routes {
		mux.Handle(r.pattern, s.instrument(r.route, r.h))
	}
	if s.metricsHandler != nil {
		mux.Handle("GET /metrics", s.metricsHandler)
	}
	return mux
}

func (s *Server) instrument(route string, h http.Handler) http.Handler {
	h = withTracing(route, h)
	h = withRequestLogger(s.log, h)
	return s.metrics.InstrumentHandler(route, h)
}

// cached serves body from the render cache under key, rendering it with fn on
// a miss. Failed renders are not cached.
func (s *Server) cached(kind, key string, fn func() ([]byte, error)) ([]byte, error) {
	if body, ok := s.cache.Get(key); ok {
		s.calc.ObserveCacheLookup(kind, true)
		return body, nil
	}
	s.calc.ObserveCacheLookup(kind, false)

	body, err := fn()
	if err != nil {
		return nil, err
	}
	s.cache.Add(key, body)
	s.calc.SetCacheEntries(s.cache.Len())
	return body, nil
}
