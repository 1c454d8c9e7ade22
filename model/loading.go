package model

import (
	"fmt"
	"strings"
)

// Seat identifies the longitudinal seat position, which sets the lever arm.
type Seat int

const (
	SeatMiddle Seat = iota
	SeatFront
	SeatBack
)

// String returns the single-letter form value.
func (s Seat) String() string {
	switch s {
	case SeatFront:
		return "f"
	case SeatBack:
		return "b"
	default:
		return "m"
	}
}

// ParseSeat accepts the form values f, m and b. An empty string selects the
// middle position.
func ParseSeat(s string) (Seat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "m":
		return SeatMiddle, nil
	case "f":
		return SeatFront, nil
	case "b":
		return SeatBack, nil
	default:
		return SeatMiddle, fmt.Errorf("%w: seat %q", ErrInvalidEnum, s)
	}
}

// FuelType is the fuel grade loaded, which sets its density.
type FuelType int

const (
	FuelAvgas FuelType = iota
	FuelMogas
)

func (f FuelType) String() string {
	if f == FuelMogas {
		return "mogas"
	}
	return "avgas"
}

// ParseFuelType accepts "avgas" or "mogas".
func ParseFuelType(s string) (FuelType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "avgas":
		return FuelAvgas, nil
	case "mogas":
		return FuelMogas, nil
	default:
		return FuelAvgas, fmt.Errorf("%w: fuel type %q", ErrInvalidEnum, s)
	}
}

// VolumeUnit is the unit fuel quantities are entered and displayed in.
type VolumeUnit int

const (
	Liter VolumeUnit = iota
	Gallon
)

func (u VolumeUnit) String() string {
	if u == Gallon {
		return "gallon"
	}
	return "liter"
}

// ParseVolumeUnit accepts "liter" or "gallon".
func ParseVolumeUnit(s string) (VolumeUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "liter":
		return Liter, nil
	case "gallon":
		return Gallon, nil
	default:
		return Liter, fmt.Errorf("%w: volume unit %q", ErrInvalidEnum, s)
	}
}
