package wb

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/signalsfoundry/aquila-performance/model"
)

const (
	LitersPerGallon = 3.785411784

	avgasKgPerL = 0.72
	mogasKgPerL = 0.75
)

// Density returns the mass of one litre of fuel t in kg.
func Density(t model.FuelType) float64 {
	if t == model.FuelMogas {
		return mogasKgPerL
	}
	return avgasKgPerL
}

// ToLiters converts a quantity in unit u to litres.
func ToLiters(q float64, u model.VolumeUnit) float64 {
	if u == model.Gallon {
		return q * LitersPerGallon
	}
	return q
}

// FromLiters converts litres to unit u.
func FromLiters(l float64, u model.VolumeUnit) float64 {
	if u == model.Gallon {
		return l / LitersPerGallon
	}
	return l
}

// Burn describes how an airframe consumes fuel for planning.
type Burn struct {
	LitersPerHour     float64
	TaxiL             float64
	FinalReserve      time.Duration
	ContingencyFactor float64
}

// Plan is a fuel plan in litres.
type Plan struct {
	TaxiL        float64       `json:"taxi_l"`
	TripL        float64       `json:"trip_l"`
	AlternateL   float64       `json:"alternate_l"`
	ReserveL     float64       `json:"reserve_l"`
	ContingencyL float64       `json:"contingency_l"`
	ExtraL       float64       `json:"extra_l"`
	TotalL       float64       `json:"total_l"`
	Endurance    time.Duration `json:"endurance"`
}

// RequiredL returns the fuel needed before any extra.
func (p Plan) RequiredL() float64 {
	return p.TaxiL + p.TripL + p.AlternateL + p.ReserveL + p.ContingencyL
}

// Sufficient reports whether the fuel on board covers the required fuel.
func (p Plan) Sufficient() bool {
	return p.ExtraL >= 0
}

// Required builds the plan's fixed items for a trip and alternate leg.
// TotalL, ExtraL and Endurance are left for Settle.
func (b Burn) Required(trip, alternate time.Duration) Plan {
	tripL := b.LitersPerHour * trip.Hours()
	return Plan{
		TaxiL:        b.TaxiL,
		TripL:        tripL,
		AlternateL:   b.LitersPerHour * alternate.Hours(),
		ReserveL:     b.LitersPerHour * b.FinalReserve.Hours(),
		ContingencyL: tripL * b.ContingencyFactor,
	}
}

// Settle completes p for totalL litres on board.
func (b Burn) Settle(p Plan, totalL float64) Plan {
	p.TotalL = totalL
	p.ExtraL = totalL - p.RequiredL()
	if b.LitersPerHour > 0 {
		p.Endurance = time.Duration(totalL / b.LitersPerHour * float64(time.Hour)).Truncate(time.Second)
	}
	return p
}

// ParseHHMM parses a planning duration written as HH:MM.
func ParseHHMM(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("%w: duration %q, want HH:MM", ErrInvalidLoading, s)
	}
	hours, err := strconv.ParseUint(h, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: duration %q hours: %v", ErrInvalidLoading, s, err)
	}
	minutes, err := strconv.ParseUint(m, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: duration %q minutes: %v", ErrInvalidLoading, s, err)
	}
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, nil
}

// FormatHHMM renders d as zero-padded HH:MM, dropping seconds.
func FormatHHMM(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Minute)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// FormatVolume renders litres in unit u with one decimal, e.g. "12.5 L".
func FormatVolume(l float64, u model.VolumeUnit) string {
	v := FromLiters(l, u)
	if math.Abs(v) < 0.05 {
		v = 0
	}
	if u == model.Gallon {
		return fmt.Sprintf("%.1f gal", v)
	}
	return fmt.Sprintf("%.1f L", v)
}
