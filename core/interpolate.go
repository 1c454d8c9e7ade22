package core

import "golang.org/x/exp/constraints"

// Interpolate returns start + (end-start)*factor. The factor is not clamped,
// so values outside [0,1] extrapolate along the same line.
func Interpolate[T constraints.Float](start, end, factor T) T {
	return start + (end-start)*factor
}

// Ceiling returns the first bracket that is >= query, scanning brackets in
// order. When query exceeds every bracket the fallback is returned; reading
// past the printed edge of a chart is not an error.
func Ceiling[T constraints.Ordered](brackets []T, query, fallback T) T {
	for _, b := range brackets {
		if b >= query {
			return b
		}
	}
	return fallback
}
