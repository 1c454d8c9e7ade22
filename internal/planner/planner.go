// Package planner turns a pilot's loading and the field conditions into a
// complete flight report: mass and balance, fuel plan, take-off and landing
// distances.
package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/signalsfoundry/aquila-performance/core"
	"github.com/signalsfoundry/aquila-performance/internal/logging"
	"github.com/signalsfoundry/aquila-performance/internal/observability"
	"github.com/signalsfoundry/aquila-performance/model"
	"github.com/signalsfoundry/aquila-performance/wb"
)

// Conditions are the field conditions both charts are read with.
type Conditions struct {
	OATCelsius         float64
	PressureAltitudeFt float64
	WindSpeedKt        float64
	WindDirection      model.WindDirection
}

// Input converts c into a chart input at massKg.
func (c Conditions) Input(massKg float64) model.PerformanceInput {
	return model.PerformanceInput{
		OATCelsius:         c.OATCelsius,
		PressureAltitudeFt: c.PressureAltitudeFt,
		MassKg:             massKg,
		WindSpeedKt:        c.WindSpeedKt,
		WindDirection:      c.WindDirection,
	}
}

// Request is one flight to plan.
type Request struct {
	Loading    wb.Loading
	Conditions Conditions
	Reference  string
}

// Report is the result of planning one flight.
type Report struct {
	Reference  string
	Conditions Conditions
	Flight     *wb.Flight

	Takeoff model.PerformanceResult
	Landing model.PerformanceResult
}

// Planner builds reports. The zero value is not usable; call New.
type Planner struct {
	log     logging.Logger
	metrics *observability.CalculationCollector
}

// New returns a planner. Both arguments may be nil.
func New(log logging.Logger, metrics *observability.CalculationCollector) *Planner {
	if log == nil {
		log = logging.Noop()
	}
	return &Planner{log: log, metrics: metrics}
}

// Plan loads the airplane, plans fuel and reads the take-off chart at
// take-off mass and the landing chart at landing mass. The two charts are
// read concurrently.
func (p *Planner) Plan(ctx context.Context, req Request) (*Report, error) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, "planner.Plan",
		attribute.String("callsign", req.Loading.Callsign))
	defer span.End()

	log := logging.FromContext(ctx, p.log)

	flight, err := wb.BuildAquila(req.Loading)
	if err != nil {
		observability.SpanError(span, err)
		return nil, err
	}

	report := &Report{
		Reference:  req.Reference,
		Conditions: req.Conditions,
		Flight:     flight,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := p.Compute(gctx, core.ChartTakeoff, req.Conditions.Input(flight.TakeoffMassKg()))
		report.Takeoff = r
		return err
	})
	g.Go(func() error {
		r, err := p.Compute(gctx, core.ChartLanding, req.Conditions.Input(flight.LandingMassKg()))
		report.Landing = r
		return err
	})
	if err := g.Wait(); err != nil {
		observability.SpanError(span, err)
		return nil, err
	}

	p.metrics.ObservePlan(time.Since(start))
	log.Debug(ctx, "flight planned",
		logging.String("callsign", flight.Takeoff.Callsign),
		logging.Float("takeoff_mass_kg", flight.TakeoffMassKg()),
		logging.Float("landing_mass_kg", flight.LandingMassKg()),
		logging.Bool("within_limits", flight.WithinLimits()),
		logging.Float("tod_total_m", report.Takeoff.TotalDistanceM),
		logging.Float("ldr_total_m", report.Landing.TotalDistanceM),
		logging.Millis("duration", time.Since(start)),
	)
	return report, nil
}

// Compute reads one chart under a span and records the outcome.
func (p *Planner) Compute(ctx context.Context, chart core.Chart, in model.PerformanceInput) (model.PerformanceResult, error) {
	_, span := observability.StartSpan(ctx, "chart."+chart.String(),
		attribute.Float64("oat_c", in.OATCelsius),
		attribute.Float64("pressure_altitude_ft", in.PressureAltitudeFt),
		attribute.Float64("mass_kg", in.MassKg),
		attribute.Float64("wind_kt", in.SignedWind()),
	)
	defer span.End()

	res, err := core.Compute(chart, in)
	if err != nil {
		observability.SpanError(span, err)
		p.metrics.ObserveCalculation(chart.String(), Outcome(err), 0, 0)
		logging.FromContext(ctx, p.log).Warn(ctx, "chart reading failed",
			logging.String("chart", chart.String()), logging.Err(err))
		return model.PerformanceResult{}, err
	}

	span.SetAttributes(
		attribute.Float64("ground_roll_m", res.GroundRollM),
		attribute.Float64("total_distance_m", res.TotalDistanceM),
	)
	p.metrics.ObserveCalculation(chart.String(), observability.OutcomeOK, res.GroundRollM, res.TotalDistanceM)
	return res, nil
}

// Outcome classifies err for metrics labels.
func Outcome(err error) string {
	switch {
	case err == nil:
		return observability.OutcomeOK
	case errors.Is(err, core.ErrOutOfRange):
		return observability.OutcomeOutOfRange
	case errors.Is(err, core.ErrInvalidInput), errors.Is(err, core.ErrInvalidEnum), errors.Is(err, wb.ErrInvalidLoading):
		return observability.OutcomeInvalid
	default:
		return observability.OutcomeError
	}
}

// SweepRow is one line of an altitude sweep.
type SweepRow struct {
	PressureAltitudeFt float64
	Takeoff            model.PerformanceResult
	Landing            model.PerformanceResult
}

// Sweep reads both charts at every step of pressure altitude from 0 up to
// the highest printed curve, holding the other conditions fixed.
func (p *Planner) Sweep(ctx context.Context, c Conditions, takeoffKg, landingKg, stepFt float64) ([]SweepRow, error) {
	if stepFt <= 0 {
		return nil, fmt.Errorf("%w: sweep step %.0f ft", core.ErrInvalidInput, stepFt)
	}
	rows := core.TakeoffDistance.OAT.Rows
	top := rows[len(rows)-1].AltitudeFt

	var out []SweepRow
	for pa := rows[0].AltitudeFt; pa <= top; pa += stepFt {
		c.PressureAltitudeFt = pa
		tod, err := p.Compute(ctx, core.ChartTakeoff, c.Input(takeoffKg))
		if err != nil {
			return nil, err
		}
		ldr, err := p.Compute(ctx, core.ChartLanding, c.Input(landingKg))
		if err != nil {
			return nil, err
		}
		out = append(out, SweepRow{PressureAltitudeFt: pa, Takeoff: tod, Landing: ldr})
	}
	return out, nil
}
