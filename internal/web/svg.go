package web

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/signalsfoundry/aquila-performance/core"
	"github.com/signalsfoundry/aquila-performance/model"
	"github.com/signalsfoundry/aquila-performance/wb"
)

type point struct{ X, Y float64 }

func points(ps []point) string {
	var b strings.Builder
	for i, p := range ps {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%.1f,%.1f", p.X, p.Y)
	}
	return b.String()
}

// chartOverlay is the construction drawn over a scanned performance chart,
// in the scan's pixel space.
type chartOverlay struct {
	Title          string
	Width, Height  float64
	Path           string
	Marks          []point
	ObstacleY      float64
	ScaleX         float64
	Ticks          []tick
	GroundRollM    float64
	TotalDistanceM float64
}

type tick struct {
	Y     float64
	Label string
}

func newChartOverlay(cal *core.Calibration, in model.PerformanceInput, res model.PerformanceResult) chartOverlay {
	bottom := cal.OAT.Rows[len(cal.OAT.Rows)-1].Y[0]
	for _, r := range cal.OAT.Rows {
		for _, y := range r.Y {
			bottom = max(bottom, y)
		}
	}
	width := cal.Wind.XEnd + 400
	path := []point{
		{res.OATX, bottom + 80},
		{res.OATX, res.OATY},
		{cal.Mass.XStart, res.OATY},
		{res.MassX, res.MassY},
		{cal.Wind.XStart, res.MassY},
		{res.WindX, res.WindY},
		{width - 200, res.WindY},
	}

	d := cal.Distance
	var ticks []tick
	for m := 0.0; m <= d.FullScaleM; m += 100 {
		ticks = append(ticks, tick{Y: d.YStart + m/d.FullScaleM*(d.YEnd-d.YStart), Label: fmt.Sprintf("%.0f", m)})
	}

	return chartOverlay{
		Title: fmt.Sprintf("%s: %.0f °C, %.0f ft, %.0f kg, %.0f kt %s",
			cal.Name, in.OATCelsius, in.PressureAltitudeFt, in.MassKg, in.WindSpeedKt, in.WindDirection),
		Width:          width,
		Height:         d.YEnd + 150,
		Path:           points(path),
		Marks:          path[1:6],
		ObstacleY:      res.ObstacleY,
		ScaleX:         width - 200,
		Ticks:          ticks,
		GroundRollM:    res.GroundRollM,
		TotalDistanceM: res.TotalDistanceM,
	}
}

// envelopeChart is the CG envelope with the takeoff and landing points.
type envelopeChart struct {
	Callsign     string
	Size         float64
	Envelope     string
	Takeoff      point
	Landing      point
	Grid         []gridLine
	WithinLimits bool
}

type gridLine struct {
	X1, Y1, X2, Y2 float64
	Label          string
	LX, LY         float64
}

const (
	envelopeSize   = 500.0
	envelopeMargin = 50.0
	envelopeMinCG  = 400.0
	envelopeMaxCG  = 550.0
	envelopeMinKg  = 500.0
	envelopeMaxKg  = 800.0
)

func envelopePoint(cgMM, massKg float64) point {
	span := envelopeSize - 2*envelopeMargin
	return point{
		X: envelopeMargin + (cgMM-envelopeMinCG)/(envelopeMaxCG-envelopeMinCG)*span,
		Y: envelopeSize - envelopeMargin - (massKg-envelopeMinKg)/(envelopeMaxKg-envelopeMinKg)*span,
	}
}

func newEnvelopeChart(f *wb.Flight) envelopeChart {
	lim := f.Takeoff.Limits
	corners := []point{
		envelopePoint(lim.MinCGMM, lim.MinMassKg),
		envelopePoint(lim.MinCGMM, lim.MaxMassKg),
		envelopePoint(lim.MaxCGMM, lim.MaxMassKg),
		envelopePoint(lim.MaxCGMM, lim.MinMassKg),
		envelopePoint(lim.MinCGMM, lim.MinMassKg),
	}

	var grid []gridLine
	for cg := envelopeMinCG; cg <= envelopeMaxCG; cg += 25 {
		a, b := envelopePoint(cg, envelopeMinKg), envelopePoint(cg, envelopeMaxKg)
		grid = append(grid, gridLine{X1: a.X, Y1: a.Y, X2: b.X, Y2: b.Y, Label: fmt.Sprintf("%.0f", cg), LX: a.X - 10, LY: a.Y + 15})
	}
	for kg := envelopeMinKg; kg <= envelopeMaxKg; kg += 50 {
		a, b := envelopePoint(envelopeMinCG, kg), envelopePoint(envelopeMaxCG, kg)
		grid = append(grid, gridLine{X1: a.X, Y1: a.Y, X2: b.X, Y2: b.Y, Label: fmt.Sprintf("%.0f", kg), LX: a.X - 40, LY: a.Y + 4})
	}

	return envelopeChart{
		Callsign:     f.Takeoff.Callsign,
		Size:         envelopeSize,
		Envelope:     points(corners),
		Takeoff:      envelopePoint(f.Takeoff.CenterOfGravityMM(), f.TakeoffMassKg()),
		Landing:      envelopePoint(f.Landing.CenterOfGravityMM(), f.LandingMassKg()),
		Grid:         grid,
		WithinLimits: f.WithinLimits(),
	}
}

func render(t *template.Template, name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
