package model

import (
	"fmt"
	"strings"
)

// WindDirection tells whether the reported wind component blows against
// (headwind) or along (tailwind) the takeoff/landing direction.
type WindDirection int

const (
	WindUnknown WindDirection = iota
	Headwind
	Tailwind
)

// String returns the form value used by the web layer.
func (d WindDirection) String() string {
	switch d {
	case Headwind:
		return "headwind"
	case Tailwind:
		return "tailwind"
	default:
		return "unknown"
	}
}

// ParseWindDirection accepts "headwind" or "tailwind" (case-insensitive).
func ParseWindDirection(s string) (WindDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "headwind":
		return Headwind, nil
	case "tailwind":
		return Tailwind, nil
	default:
		return WindUnknown, fmt.Errorf("%w: wind direction %q", ErrInvalidEnum, s)
	}
}

// PerformanceInput is the record the web layer hands to a performance chart.
type PerformanceInput struct {
	OATCelsius         float64       `json:"oat"`
	PressureAltitudeFt float64       `json:"pressure_altitude"`
	MassKg             float64       `json:"mass"`
	WindSpeedKt        float64       `json:"wind_speed"`
	WindDirection      WindDirection `json:"-"`
}

// SignedWind returns the wind speed with tailwind expressed as a negative
// value, which is how the charts are read.
func (in PerformanceInput) SignedWind() float64 {
	if in.WindDirection == Tailwind {
		return -in.WindSpeedKt
	}
	return in.WindSpeedKt
}

// PerformanceResult carries the chart construction coordinates together with
// the distances read off the chart. Coordinates are in the digitised chart's
// own space and only make sense drawn over that chart.
type PerformanceResult struct {
	OATX      float64 `json:"oat_x"`
	OATY      float64 `json:"oat_y"`
	MassX     float64 `json:"mass_x"`
	MassY     float64 `json:"mass_y"`
	WindX     float64 `json:"wind_x"`
	WindY     float64 `json:"wind_y"`
	ObstacleY float64 `json:"obstacle_y"`

	GroundRollM    float64 `json:"ground_roll_m"`
	TotalDistanceM float64 `json:"total_distance_m"`
}
