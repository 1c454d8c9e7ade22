package web

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/signalsfoundry/aquila-performance/internal/planner"
	"github.com/signalsfoundry/aquila-performance/model"
	"github.com/signalsfoundry/aquila-performance/wb"
)

// Form field names.
const (
	fieldCallsign      = "callsign"
	fieldPilot         = "pilot"
	fieldPilotSeat     = "pilot_seat"
	fieldPassenger     = "passenger"
	fieldPassengerSeat = "passenger_seat"
	fieldBaggage       = "baggage"
	fieldFuelType      = "fuel_type"
	fieldFuelUnit      = "fuel_unit"
	fieldFuelExtra     = "fuel_extra"
	fieldFuelMax       = "fuel_max"
	fieldTrip          = "trip_duration"
	fieldAlternate     = "alternate_duration"
	fieldOAT           = "oat"
	fieldPA            = "pressure_altitude"
	fieldWind          = "wind"
	fieldWindDirection = "wind_direction"
	fieldMTOW          = "mtow"
	fieldMass          = "mass"
	fieldReference     = "reference"
	fieldSubmit        = "submit"
)

// submitBack is the value of the back button on the results page.
const submitBack = "Vorige"

// number reads key as a float. A blank optional field yields 0.
func number(q url.Values, key string, required bool) (float64, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		if required {
			return 0, fmt.Errorf("%w: %s is required", ErrBadRequest, key)
		}
		return 0, nil
	}
	// Dutch browsers submit decimal commas.
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s %q is not a number", ErrBadRequest, key, raw)
	}
	return v, nil
}

func parseLoading(q url.Values) (wb.Loading, error) {
	var (
		l   wb.Loading
		err error
	)
	l.Callsign = strings.TrimSpace(q.Get(fieldCallsign))
	if l.Callsign == "" {
		return l, fmt.Errorf("%w: %s is required", ErrBadRequest, fieldCallsign)
	}
	if l.PilotKg, err = number(q, fieldPilot, true); err != nil {
		return l, err
	}
	if l.PassengerKg, err = number(q, fieldPassenger, false); err != nil {
		return l, err
	}
	if l.BaggageKg, err = number(q, fieldBaggage, false); err != nil {
		return l, err
	}
	if l.FuelExtra, err = number(q, fieldFuelExtra, false); err != nil {
		return l, err
	}
	if l.PilotSeat, err = model.ParseSeat(q.Get(fieldPilotSeat)); err != nil {
		return l, err
	}
	if l.PassengerSeat, err = model.ParseSeat(q.Get(fieldPassengerSeat)); err != nil {
		return l, err
	}
	if l.FuelType, err = model.ParseFuelType(withDefault(q.Get(fieldFuelType), "avgas")); err != nil {
		return l, err
	}
	if l.FuelUnit, err = model.ParseVolumeUnit(withDefault(q.Get(fieldFuelUnit), "liter")); err != nil {
		return l, err
	}
	l.FuelMax = q.Get(fieldFuelMax) == "max"
	if l.Trip, err = wb.ParseHHMM(q.Get(fieldTrip)); err != nil {
		return l, err
	}
	if l.Alternate, err = wb.ParseHHMM(q.Get(fieldAlternate)); err != nil {
		return l, err
	}
	return l, nil
}

func parseConditions(q url.Values) (planner.Conditions, error) {
	var (
		c   planner.Conditions
		err error
	)
	if c.OATCelsius, err = number(q, fieldOAT, true); err != nil {
		return c, err
	}
	if c.PressureAltitudeFt, err = number(q, fieldPA, true); err != nil {
		return c, err
	}
	if c.WindSpeedKt, err = number(q, fieldWind, false); err != nil {
		return c, err
	}
	if c.WindDirection, err = model.ParseWindDirection(withDefault(q.Get(fieldWindDirection), "headwind")); err != nil {
		return c, err
	}
	return c, nil
}

func parseRequest(q url.Values) (planner.Request, error) {
	l, err := parseLoading(q)
	if err != nil {
		return planner.Request{}, err
	}
	c, err := parseConditions(q)
	if err != nil {
		return planner.Request{}, err
	}
	return planner.Request{Loading: l, Conditions: c, Reference: strings.TrimSpace(q.Get(fieldReference))}, nil
}

// parseChartInput reads a single chart input; the mass comes from massKey.
func parseChartInput(q url.Values, massKey string) (model.PerformanceInput, error) {
	c, err := parseConditions(q)
	if err != nil {
		return model.PerformanceInput{}, err
	}
	mass, err := number(q, massKey, true)
	if err != nil {
		return model.PerformanceInput{}, err
	}
	return c.Input(mass), nil
}

func withDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// chartQuery builds the query string of a chart overlay link.
func chartQuery(c planner.Conditions, massKg float64) string {
	v := url.Values{}
	v.Set(fieldOAT, strconv.FormatFloat(c.OATCelsius, 'f', -1, 64))
	v.Set(fieldPA, strconv.FormatFloat(c.PressureAltitudeFt, 'f', -1, 64))
	v.Set(fieldMTOW, strconv.FormatFloat(massKg, 'f', 3, 64))
	v.Set(fieldWind, strconv.FormatFloat(c.WindSpeedKt, 'f', -1, 64))
	v.Set(fieldWindDirection, c.WindDirection.String())
	return v.Encode()
}

// cacheKey canonicalises q under route so equivalent requests share an entry.
func cacheKey(route string, q url.Values) string {
	clean := url.Values{}
	for k, vs := range q {
		if k == fieldSubmit {
			continue
		}
		for _, v := range vs {
			clean.Add(k, strings.TrimSpace(v))
		}
	}
	return route + "?" + clean.Encode()
}
