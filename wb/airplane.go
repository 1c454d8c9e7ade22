// Package wb computes mass and balance for a light aircraft: moments about
// the datum, centre of gravity, envelope limits and fuel planning.
package wb

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidLoading is returned for negative masses, unknown loading tags and
// malformed planning durations.
var ErrInvalidLoading = errors.New("invalid loading")

// Moment is one mass item at a lever arm aft of the datum.
type Moment struct {
	Name   string  `json:"name"`
	ArmM   float64 `json:"arm_m"`
	MassKg float64 `json:"mass_kg"`
}

// KgM returns the moment about the datum in kg·m.
func (m Moment) KgM() float64 {
	return m.ArmM * m.MassKg
}

// Limits is the certified mass and centre-of-gravity envelope.
type Limits struct {
	MinMassKg float64 `json:"min_mass_kg"`
	MaxMassKg float64 `json:"max_mass_kg"`
	MinCGMM   float64 `json:"min_cg_mm"`
	MaxCGMM   float64 `json:"max_cg_mm"`
}

// Airplane is a loaded airframe.
type Airplane struct {
	Callsign string   `json:"callsign"`
	Moments  []Moment `json:"moments"`
	Limits   Limits   `json:"limits"`
}

// AddMoment appends m to the loading.
func (a *Airplane) AddMoment(m Moment) error {
	if m.MassKg < 0 || math.IsNaN(m.MassKg) || math.IsInf(m.MassKg, 0) {
		return fmt.Errorf("%w: %s mass %.1f kg", ErrInvalidLoading, m.Name, m.MassKg)
	}
	a.Moments = append(a.Moments, m)
	return nil
}

// Moment returns the loading item called name.
func (a *Airplane) Moment(name string) (Moment, bool) {
	for _, m := range a.Moments {
		if m.Name == name {
			return m, true
		}
	}
	return Moment{}, false
}

// TotalMass returns the sum of all item masses in kg.
func (a *Airplane) TotalMass() float64 {
	var total float64
	for _, m := range a.Moments {
		total += m.MassKg
	}
	return total
}

// TotalMoment returns the sum of all moments in kg·m.
func (a *Airplane) TotalMoment() float64 {
	var total float64
	for _, m := range a.Moments {
		total += m.KgM()
	}
	return total
}

// CenterOfGravityMM returns the centre of gravity in millimetres aft of the
// datum. An empty airplane has its CG at the datum.
func (a *Airplane) CenterOfGravityMM() float64 {
	mass := a.TotalMass()
	if mass == 0 {
		return 0
	}
	return a.TotalMoment() / mass * 1000
}

// WithinLimits reports whether both mass and CG lie inside the envelope,
// limits inclusive.
func (a *Airplane) WithinLimits() bool {
	mass, cg := a.TotalMass(), a.CenterOfGravityMM()
	return mass >= a.Limits.MinMassKg && mass <= a.Limits.MaxMassKg &&
		cg >= a.Limits.MinCGMM && cg <= a.Limits.MaxCGMM
}

// WithoutMass returns a copy of a with kg taken off the item called name,
// which is how fuel burn moves the loading from takeoff to landing.
func (a *Airplane) WithoutMass(name string, kg float64) *Airplane {
	out := &Airplane{
		Callsign: a.Callsign,
		Moments:  make([]Moment, len(a.Moments)),
		Limits:   a.Limits,
	}
	copy(out.Moments, a.Moments)
	for i := range out.Moments {
		if out.Moments[i].Name == name {
			out.Moments[i].MassKg = math.Max(0, out.Moments[i].MassKg-kg)
		}
	}
	return out
}

// AddMaxFuelWithinLimits loads the largest fuel volume (litres), capped at
// capacityL, that keeps total mass and CG inside the envelope, and returns
// the moment it added. When no volume satisfies every limit the tank is
// filled to whatever the mass limit and CG bounds still allow, never below
// zero, and WithinLimits reports the violation.
func (a *Airplane) AddMaxFuelWithinLimits(name string, armM, densityKgPerL, capacityL float64) (Moment, error) {
	if densityKgPerL <= 0 || capacityL < 0 {
		return Moment{}, fmt.Errorf("%w: fuel density %.3f kg/L, capacity %.1f L", ErrInvalidLoading, densityKgPerL, capacityL)
	}

	mass, moment := a.TotalMass(), a.TotalMoment()
	minCG, maxCG := a.Limits.MinCGMM/1000, a.Limits.MaxCGMM/1000

	// Each limit is linear in the added volume v: k*v >= c.
	hi := capacityL
	for _, l := range []struct{ k, c float64 }{
		{-densityKgPerL, mass - a.Limits.MaxMassKg},
		{densityKgPerL * (armM - minCG), minCG*mass - moment},
		{densityKgPerL * (maxCG - armM), moment - maxCG*mass},
	} {
		if l.k < 0 {
			hi = math.Min(hi, l.c/l.k)
		}
	}
	if hi < 0 {
		hi = 0
	}

	m := Moment{Name: name, ArmM: armM, MassKg: hi * densityKgPerL}
	if err := a.AddMoment(m); err != nil {
		return Moment{}, err
	}
	return m, nil
}
