package core

import (
	"fmt"
	"strings"

	"github.com/signalsfoundry/aquila-performance/model"
)

// Chart identifies which performance chart a calibration digitises.
type Chart int

const (
	ChartTakeoff Chart = iota
	ChartLanding
)

func (c Chart) String() string {
	switch c {
	case ChartTakeoff:
		return "tod"
	case ChartLanding:
		return "ldr"
	default:
		return "unknown"
	}
}

// ParseChart accepts "tod" or "ldr".
func ParseChart(s string) (Chart, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tod":
		return ChartTakeoff, nil
	case "ldr":
		return ChartLanding, nil
	default:
		return 0, fmt.Errorf("%w: chart %q", model.ErrInvalidEnum, s)
	}
}

// Segment is a straight line read off the chart: between X0 and X1 the chart
// coordinate runs linearly from Y0 to Y1.
type Segment struct {
	X0, X1 float64
	Y0, Y1 float64
}

// Map returns the y coordinate of the line at x. x outside [X0,X1]
// extrapolates.
func (s Segment) Map(x float64) float64 {
	return Interpolate(s.Y0, s.Y1, (x-s.X0)/(s.X1-s.X0))
}

// At returns the y coordinate offset units along the line from X0.
func (s Segment) At(offset float64) float64 {
	return s.Map(s.X0 + offset)
}

// Band is a pair of neighbouring correction lines. Points between the two
// lines are corrected in proportion to where they start between them.
type Band struct {
	Low, High Segment
}

// Position returns where y sits between the starting values of the two
// lines: 0 on Low, 1 on High.
func (b Band) Position(y float64) float64 {
	return (y - b.Low.Y0) / (b.High.Y0 - b.Low.Y0)
}

// KeyedBand applies to chart y values up to and including UpTo.
type KeyedBand struct {
	UpTo float64
	Band Band
}

// BandSet is an ascending list of bands keyed on chart y. The last entry
// catches everything above the previous thresholds.
type BandSet []KeyedBand

// Select returns the first band whose threshold is >= y, or the last band.
// A BandSet must hold at least one entry.
func (s BandSet) Select(y float64) Band {
	for _, kb := range s {
		if y <= kb.UpTo {
			return kb.Band
		}
	}
	return s[len(s)-1].Band
}

// oatColumns is the number of temperature lines printed on each chart.
const oatColumns = 8

// AltitudeRow holds the chart y of every temperature line for one pressure
// altitude curve.
type AltitudeRow struct {
	AltitudeFt float64
	Y          [oatColumns]float64
}

// OATGrid is the temperature/pressure-altitude entry section of a chart.
type OATGrid struct {
	MinOAT       float64 // °C at the first column
	BracketWidth float64 // °C between columns
	XStart, XEnd float64 // chart x at the first and last column
	Rows         []AltitudeRow
}

// MassCalibration is the take-off/landing mass section of a chart. The mass
// axis runs from MaxKg at XStart to MinKg at XEnd.
type MassCalibration struct {
	MaxKg, MinKg float64
	XStart, XEnd float64
	Bands        BandSet
}

// WindCalibration is the wind section of a chart. The wind axis runs from
// calm at XStart to FullScaleKt at XEnd.
type WindCalibration struct {
	XStart, XEnd float64
	FullScaleKt  float64

	Headwind       Band    // 0 to 10 kt
	StrongHeadwind Band    // above 10 up to 15 kt
	BeyondHeadwind Band    // above 15 kt, and tailwind beyond 10 kt
	Tailwind       BandSet // below 0 down to -10 kt, keyed on the mass-stage y
}

// DistanceKind names the distance a bracket scale reads.
type DistanceKind int

const (
	GroundRoll DistanceKind = iota
	TotalDistance
)

func (k DistanceKind) String() string {
	if k == TotalDistance {
		return "total"
	}
	return "ground_roll"
}

// BracketScale is the ascending list of printed distance lines that a chart
// y coordinate snaps up to.
type BracketScale struct {
	Kind     DistanceKind
	Brackets []float64
}

// DistanceCalibration is the obstacle section and the distance axis of a
// chart. AtWind is read with the wind-stage y, AtObstacle with the y after
// the obstacle correction.
type DistanceCalibration struct {
	Obstacle   Segment
	AtWind     BracketScale
	AtObstacle BracketScale

	YStart, YEnd float64 // chart y at 0 m and FullScaleM
	FullScaleM   float64
}

// Calibration is the complete digitisation of one performance chart.
type Calibration struct {
	Chart    Chart
	Name     string
	OAT      OATGrid
	Mass     MassCalibration
	Wind     WindCalibration
	Distance DistanceCalibration
}
