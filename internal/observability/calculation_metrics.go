package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Calculation outcomes.
const (
	OutcomeOK         = "ok"
	OutcomeOutOfRange = "out_of_range"
	OutcomeInvalid    = "invalid"
	OutcomeError      = "error"
)

// CalculationCollector exposes chart-reading and report metrics.
type CalculationCollector struct {
	gatherer prometheus.Gatherer

	Calculations *prometheus.CounterVec
	Distances    *prometheus.HistogramVec
	PlanDuration prometheus.Histogram
	CacheLookups *prometheus.CounterVec
	CacheEntries prometheus.Gauge
}

// NewCalculationCollector registers calculation metrics against reg.
func NewCalculationCollector(reg prometheus.Registerer) (*CalculationCollector, error) {
	reg, gatherer := registryPair(reg)

	calculations, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "performance_calculations_total",
		Help: "Chart readings performed, labeled by chart and outcome.",
	}, []string{"chart", "outcome"}), "performance_calculations_total")
	if err != nil {
		return nil, err
	}

	distances, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "performance_distance_meters",
		Help:    "Distances read off the performance charts.",
		Buckets: prometheus.LinearBuckets(100, 100, 10),
	}, []string{"chart", "kind"}), "performance_distance_meters")
	if err != nil {
		return nil, err
	}

	planDuration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "flight_plan_duration_seconds",
		Help:    "Time to build a complete flight report (mass and balance, fuel and both charts).",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	}), "flight_plan_duration_seconds")
	if err != nil {
		return nil, err
	}

	lookups, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "render_cache_lookups_total",
		Help: "Rendered artefact cache lookups, labeled by artefact kind and hit or miss.",
	}, []string{"kind", "result"}), "render_cache_lookups_total")
	if err != nil {
		return nil, err
	}

	entries, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "render_cache_entries",
		Help: "Number of rendered artefacts currently cached.",
	}), "render_cache_entries")
	if err != nil {
		return nil, err
	}

	return &CalculationCollector{
		gatherer:     gatherer,
		Calculations: calculations,
		Distances:    distances,
		PlanDuration: planDuration,
		CacheLookups: lookups,
		CacheEntries: entries,
	}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *CalculationCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// ObserveCalculation records one chart reading. Distances are only observed
// for successful readings.
func (c *CalculationCollector) ObserveCalculation(chart, outcome string, groundRollM, totalM float64) {
	if c == nil {
		return
	}
	if c.Calculations != nil {
		c.Calculations.WithLabelValues(chart, outcome).Inc()
	}
	if outcome != OutcomeOK || c.Distances == nil {
		return
	}
	c.Distances.WithLabelValues(chart, "ground_roll").Observe(groundRollM)
	c.Distances.WithLabelValues(chart, "total").Observe(totalM)
}

// ObservePlan records how long a flight report took to build.
func (c *CalculationCollector) ObservePlan(d time.Duration) {
	if c == nil || c.PlanDuration == nil {
		return
	}
	c.PlanDuration.Observe(d.Seconds())
}

// ObserveCacheLookup counts a cache hit or miss for kind.
func (c *CalculationCollector) ObserveCacheLookup(kind string, hit bool) {
	if c == nil || c.CacheLookups == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	c.CacheLookups.WithLabelValues(kind, result).Inc()
}

// SetCacheEntries updates the cache size gauge.
func (c *CalculationCollector) SetCacheEntries(n int) {
	if c == nil || c.CacheEntries == nil {
		return
	}
	c.CacheEntries.Set(float64(n))
}
