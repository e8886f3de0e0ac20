package render

import "math"

func clamp(t, min, max float64) float64 {
	min, max = math.Min(min, max), math.Max(min, max)
	return math.Max(math.Min(t, max), min)
}

// mapRange linearly maps t from [rMin,rMax] onto [tMin,tMax] without clamping.
func mapRange(t, rMin, rMax, tMin, tMax float64) float64 {
	if rMax == rMin {
		return tMax
	}
	return tMin + (t-rMin)/(rMax-rMin)*(tMax-tMin)
}

// Clamp returns a function that scales a number from the interval [rMin,rMax] to [tMin,tMax], clamping
// the result to the target interval.
func Clamp(rMin, rMax, tMin, tMax float64) func(m float64) float64 {
	return func(m float64) float64 {
		return clamp(mapRange(m, rMin, rMax, tMin, tMax), tMin, tMax)
	}
}

// ToUnitClamp returns a function that scales a number from the interval [rMin,rMax]
// to the unit interval ([0,1]), if the result falls outside [0,1], it is clamped
// to 0 or 1.
func ToUnitClamp(rMin, rMax float64) func(m float64) float64 {
	return Clamp(rMin, rMax, 0, 1)
}
