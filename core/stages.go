package core

import (
	"fmt"
	"math"
)

const (
	headwindBandKt       = 10.0
	strongHeadwindBandKt = 15.0
)

// OATPoint is the operating point after the temperature/altitude section.
// Low and High are the chart y of the bracketing temperature lines at the
// requested altitude; Offset is how far (°C) the temperature lies past the
// Low line.
type OATPoint struct {
	X, Y      float64
	Bracket   int
	Low, High float64
	Offset    float64
}

// Bracket returns the index of the temperature column at or below oat,
// limited to the printed columns.
func (g OATGrid) Bracket(oat float64) int {
	i := int(math.Floor((oat - g.MinOAT) / g.BracketWidth))
	if i < 0 {
		return 0
	}
	if i > oatColumns-1 {
		return oatColumns - 1
	}
	return i
}

// Locate enters the chart at oat and pressure altitude. Altitudes outside the
// printed curves fail with ErrOutOfRange.
func (g OATGrid) Locate(oat, pressureAltitude float64) (OATPoint, error) {
	if len(g.Rows) < 2 {
		return OATPoint{}, fmt.Errorf("%w: grid has %d altitude rows", ErrOutOfRange, len(g.Rows))
	}
	if math.IsNaN(oat) || math.IsNaN(pressureAltitude) {
		return OATPoint{}, fmt.Errorf("%w: oat and pressure altitude must be numbers", ErrInvalidInput)
	}
	lowest, highest := g.Rows[0].AltitudeFt, g.Rows[len(g.Rows)-1].AltitudeFt
	if pressureAltitude < lowest || pressureAltitude > highest {
		return OATPoint{}, fmt.Errorf("%w: pressure altitude %.0f ft outside %.0f to %.0f ft",
			ErrOutOfRange, pressureAltitude, lowest, highest)
	}

	// An altitude on a curve belongs to the pair below it.
	i := 0
	for i < len(g.Rows)-2 && pressureAltitude > g.Rows[i+1].AltitudeFt {
		i++
	}
	below, above := g.Rows[i], g.Rows[i+1]
	factor := (pressureAltitude - below.AltitudeFt) / (above.AltitudeFt - below.AltitudeFt)

	b := g.Bracket(oat)
	next := b + 1
	if next > oatColumns-1 {
		next = b
	}

	p := OATPoint{
		Bracket: b,
		Low:     Interpolate(below.Y[b], above.Y[b], factor),
		High:    Interpolate(below.Y[next], above.Y[next], factor),
		Offset:  math.Mod(oat-g.MinOAT, g.BracketWidth),
	}
	p.Y = p.Low + (p.High-p.Low)/g.BracketWidth*p.Offset
	p.X = g.XStart + (g.XEnd-g.XStart)/(g.BracketWidth*(oatColumns-1))*(oat-g.MinOAT)
	return p, nil
}

// MassPoint is the operating point after the mass section.
type MassPoint struct {
	X, Y float64
}

// X returns the chart x of mass on the mass axis. Heavier masses sit closer
// to XStart.
func (m MassCalibration) X(mass float64) float64 {
	return (m.MaxKg-mass)*((m.XEnd-m.XStart)/(m.MaxKg-m.MinKg)) + m.XStart
}

// Correct carries the temperature/altitude point across the mass section.
// The band is chosen once from the incoming y before any interpolation.
func (m MassCalibration) Correct(mass float64, p OATPoint) MassPoint {
	band := m.Bands.Select(p.Y)
	offset := m.MaxKg - mass
	return MassPoint{
		X: m.X(mass),
		Y: Interpolate(band.Low.At(offset), band.High.At(offset), band.Position(p.Y)),
	}
}

// WindPoint is the operating point after the wind section.
type WindPoint struct {
	X, Y float64
}

// Select returns the wind band for a signed wind (tailwind negative) and the
// offset to read it at. Tailwind bands are keyed on the mass-stage y rather
// than on the wind speed.
func (w WindCalibration) Select(wind, massY float64) (Band, float64) {
	switch {
	case wind >= 0 && wind <= headwindBandKt:
		return w.Headwind, wind
	case wind > headwindBandKt && wind <= strongHeadwindBandKt:
		return w.StrongHeadwind, math.Mod(wind, headwindBandKt)
	case wind >= -headwindBandKt && wind < 0:
		return w.Tailwind.Select(massY), wind
	default:
		return w.BeyondHeadwind, math.Mod(wind, strongHeadwindBandKt)
	}
}

// X returns the chart x of a wind speed on the wind axis.
func (w WindCalibration) X(wind float64) float64 {
	return math.Abs(math.Abs(wind)*((w.XEnd-w.XStart)/w.FullScaleKt) + w.XStart)
}

// Correct carries the mass point across the wind section. Calm wind leaves
// the point untouched.
func (w WindCalibration) Correct(wind float64, p MassPoint) WindPoint {
	if wind == 0 {
		return WindPoint{X: p.X, Y: p.Y}
	}

	band, offset := w.Select(wind, p.Y)
	offset = math.Abs(offset)
	low := band.Low.At(offset)
	high := band.High.At(offset)

	// Headwind lines fan out from the 0-10 kt band.
	position := w.Headwind.Position(p.Y)
	if wind < 0 {
		position = band.Position(p.Y)
	}

	return WindPoint{
		X: w.X(wind),
		Y: Interpolate(low, high, position),
	}
}

// Distances are the obstacle-corrected y and both distances in metres.
type Distances struct {
	ObstacleY      float64
	GroundRollM    float64
	TotalDistanceM float64
}

// Meters converts a chart y on the distance axis to metres.
func (d DistanceCalibration) Meters(y float64) float64 {
	return (y - d.YStart) / (d.YEnd - d.YStart) * d.FullScaleM
}

// Read snaps y up to the next printed line of scale and converts it to
// metres. Past the last line the axis end is used.
func (d DistanceCalibration) Read(scale BracketScale, y float64) float64 {
	return d.Meters(Ceiling(scale.Brackets, y, d.YEnd))
}

// Resolve applies the obstacle correction to the wind-stage y and reads both
// distances.
func (d DistanceCalibration) Resolve(windY float64) Distances {
	out := Distances{ObstacleY: d.Obstacle.Map(windY)}
	for _, r := range []struct {
		scale BracketScale
		y     float64
	}{
		{d.AtWind, windY},
		{d.AtObstacle, out.ObstacleY},
	} {
		switch r.scale.Kind {
		case GroundRoll:
			out.GroundRollM = d.Read(r.scale, r.y)
		case TotalDistance:
			out.TotalDistanceM = d.Read(r.scale, r.y)
		}
	}
	return out
}
