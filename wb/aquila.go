package wb

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/signalsfoundry/aquila-performance/model"
)

// Aquila A210 loading data.
const (
	emptyArmM       = 0.4294
	emptyMassKg     = 529.5
	emptyMassDHAKg  = 517.0
	baggageArmM     = 1.3
	fuelArmM        = 0.325
	usableFuelL     = 110.0
	aquilaMinMassKg = 558.0
	aquilaMaxMassKg = 750.0
	aquilaMinCGMM   = 427.0
	aquilaMaxCGMM   = 523.0
)

// Loading item names.
const (
	ItemEmpty     = "Empty mass"
	ItemPilot     = "Pilot"
	ItemPassenger = "Passenger"
	ItemBaggage   = "Baggage"
	ItemFuel      = "Fuel"
)

// AquilaBurn is the planning burn used for every Aquila flight.
var AquilaBurn = Burn{
	LitersPerHour:     17,
	TaxiL:             2,
	FinalReserve:      45 * time.Minute,
	ContingencyFactor: 0.1,
}

// AquilaLimits is the certified Aquila A210 envelope.
var AquilaLimits = Limits{
	MinMassKg: aquilaMinMassKg,
	MaxMassKg: aquilaMaxMassKg,
	MinCGMM:   aquilaMinCGMM,
	MaxCGMM:   aquilaMaxCGMM,
}

// SeatArm returns the lever arm of seat in metres.
func SeatArm(s model.Seat) float64 {
	switch s {
	case model.SeatFront:
		return 5.0 / 11.0
	case model.SeatBack:
		return 13.0 / 22.0
	default:
		return 23.0 / 44.0
	}
}

// EmptyMass returns the weighed empty mass of the airframe with callsign.
func EmptyMass(callsign string) float64 {
	if normalizeCallsign(callsign) == "PHDHA" {
		return emptyMassDHAKg
	}
	return emptyMassKg
}

func normalizeCallsign(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", ""))
}

// Loading is what the pilot enters for one flight.
type Loading struct {
	Callsign      string
	PilotKg       float64
	PilotSeat     model.Seat
	PassengerKg   float64
	PassengerSeat model.Seat
	BaggageKg     float64

	FuelType model.FuelType
	FuelUnit model.VolumeUnit
	// FuelExtra is fuel on top of the required fuel, in FuelUnit. Ignored
	// when FuelMax is set.
	FuelExtra float64
	// FuelMax loads as much fuel as the envelope and tank allow.
	FuelMax bool

	Trip      time.Duration
	Alternate time.Duration
}

// Validate rejects loadings that cannot describe a real flight.
func (l Loading) Validate() error {
	if strings.TrimSpace(l.Callsign) == "" {
		return fmt.Errorf("%w: callsign is required", ErrInvalidLoading)
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"pilot", l.PilotKg},
		{"passenger", l.PassengerKg},
		{"baggage", l.BaggageKg},
		{"extra fuel", l.FuelExtra},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value < 0 {
			return fmt.Errorf("%w: %s %.1f", ErrInvalidLoading, f.name, f.value)
		}
	}
	if l.Trip < 0 || l.Alternate < 0 {
		return fmt.Errorf("%w: negative planning duration", ErrInvalidLoading)
	}
	return nil
}

// Flight is a loaded Aquila at takeoff together with its fuel plan and the
// landing loading after trip fuel has burned.
type Flight struct {
	Loading  Loading
	Takeoff  *Airplane
	Landing  *Airplane
	FuelPlan Plan
}

// TakeoffMassKg is the mass the takeoff chart is read with.
func (f *Flight) TakeoffMassKg() float64 { return f.Takeoff.TotalMass() }

// LandingMassKg is the mass the landing chart is read with.
func (f *Flight) LandingMassKg() float64 { return f.Landing.TotalMass() }

// WithinLimits reports whether both takeoff and landing loadings are inside
// the envelope.
func (f *Flight) WithinLimits() bool {
	return f.Takeoff.WithinLimits() && f.Landing.WithinLimits()
}

// FuelWithinCapacity reports whether the planned fuel fits the usable tank
// capacity.
func (f *Flight) FuelWithinCapacity() bool {
	return f.FuelPlan.TotalL <= usableFuelL
}

// BuildAquila loads an Aquila A210 from l and plans its fuel.
func BuildAquila(l Loading) (*Flight, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	a := &Airplane{Callsign: normalizeCallsign(l.Callsign), Limits: AquilaLimits}
	for _, m := range []Moment{
		{Name: ItemEmpty, ArmM: emptyArmM, MassKg: EmptyMass(l.Callsign)},
		{Name: ItemPilot, ArmM: SeatArm(l.PilotSeat), MassKg: l.PilotKg},
		{Name: ItemPassenger, ArmM: SeatArm(l.PassengerSeat), MassKg: l.PassengerKg},
		{Name: ItemBaggage, ArmM: baggageArmM, MassKg: l.BaggageKg},
	} {
		if err := a.AddMoment(m); err != nil {
			return nil, err
		}
	}

	density := Density(l.FuelType)
	plan := AquilaBurn.Required(l.Trip, l.Alternate)

	var fuelL float64
	if l.FuelMax {
		m, err := a.AddMaxFuelWithinLimits(ItemFuel, fuelArmM, density, usableFuelL)
		if err != nil {
			return nil, err
		}
		fuelL = m.MassKg / density
	} else {
		fuelL = plan.RequiredL() + ToLiters(l.FuelExtra, l.FuelUnit)
		if err := a.AddMoment(Moment{Name: ItemFuel, ArmM: fuelArmM, MassKg: fuelL * density}); err != nil {
			return nil, err
		}
	}
	plan = AquilaBurn.Settle(plan, fuelL)

	return &Flight{
		Loading:  l,
		Takeoff:  a,
		Landing:  a.WithoutMass(ItemFuel, plan.TripL*density),
		FuelPlan: plan,
	}, nil
}
