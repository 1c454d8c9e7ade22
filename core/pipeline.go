package core

import (
	"fmt"
	"math"

	"github.com/signalsfoundry/aquila-performance/model"
)

// Pipeline reads one performance chart: temperature/altitude, mass, wind and
// obstacle sections in that order. A Pipeline holds no mutable state and is
// safe for concurrent use.
type Pipeline struct {
	cal *Calibration
}

// NewPipeline returns a pipeline for the given chart calibration.
func NewPipeline(cal *Calibration) *Pipeline {
	return &Pipeline{cal: cal}
}

// Calibration returns the chart the pipeline reads.
func (p *Pipeline) Calibration() *Calibration {
	return p.cal
}

var (
	takeoffPipeline = NewPipeline(TakeoffDistance)
	landingPipeline = NewPipeline(LandingDistance)
)

// PipelineFor returns the shared pipeline for chart.
func PipelineFor(chart Chart) (*Pipeline, error) {
	switch chart {
	case ChartTakeoff:
		return takeoffPipeline, nil
	case ChartLanding:
		return landingPipeline, nil
	default:
		return nil, fmt.Errorf("%w: chart %d", ErrInvalidEnum, int(chart))
	}
}

// Compute reads chart for in.
func Compute(chart Chart, in model.PerformanceInput) (model.PerformanceResult, error) {
	p, err := PipelineFor(chart)
	if err != nil {
		return model.PerformanceResult{}, err
	}
	return p.Compute(in)
}

// Validate rejects inputs no chart can be read with.
func Validate(in model.PerformanceInput) error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"oat", in.OATCelsius},
		{"pressure altitude", in.PressureAltitudeFt},
		{"mass", in.MassKg},
		{"wind speed", in.WindSpeedKt},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s is not a finite number", ErrInvalidInput, f.name)
		}
	}
	if in.WindSpeedKt < 0 {
		return fmt.Errorf("%w: wind speed %.1f kt is negative", ErrInvalidInput, in.WindSpeedKt)
	}
	if in.WindDirection != model.Headwind && in.WindDirection != model.Tailwind {
		return fmt.Errorf("%w: wind direction %d", ErrInvalidEnum, int(in.WindDirection))
	}
	return nil
}

// Compute runs the four chart sections for in. The only chart section that
// can fail is the temperature/altitude entry.
func (p *Pipeline) Compute(in model.PerformanceInput) (model.PerformanceResult, error) {
	if err := Validate(in); err != nil {
		return model.PerformanceResult{}, err
	}

	oat, err := p.cal.OAT.Locate(in.OATCelsius, in.PressureAltitudeFt)
	if err != nil {
		return model.PerformanceResult{}, fmt.Errorf("%s chart: %w", p.cal.Chart, err)
	}
	mass := p.cal.Mass.Correct(in.MassKg, oat)
	wind := p.cal.Wind.Correct(in.SignedWind(), mass)
	dist := p.cal.Distance.Resolve(wind.Y)

	res := model.PerformanceResult{
		OATX:           oat.X,
		OATY:           oat.Y,
		MassX:          mass.X,
		MassY:          mass.Y,
		WindX:          wind.X,
		WindY:          wind.Y,
		ObstacleY:      dist.ObstacleY,
		GroundRollM:    dist.GroundRollM,
		TotalDistanceM: dist.TotalDistanceM,
	}
	if name, ok := nonFinite(res); ok {
		return model.PerformanceResult{}, fmt.Errorf("%s chart: %s overflows the chart: %w", p.cal.Chart, name, ErrOutOfRange)
	}
	return res, nil
}

// nonFinite names the first result field that is NaN or infinite. Finite
// inputs far outside the printed scales can overflow the chart arithmetic.
func nonFinite(r model.PerformanceResult) (string, bool) {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"oat x", r.OATX}, {"oat y", r.OATY},
		{"mass x", r.MassX}, {"mass y", r.MassY},
		{"wind x", r.WindX}, {"wind y", r.WindY},
		{"obstacle y", r.ObstacleY},
		{"ground roll", r.GroundRollM}, {"total distance", r.TotalDistanceM},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return f.name, true
		}
	}
	return "", false
}
