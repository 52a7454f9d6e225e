package solar

import "math"

// RelativeAirmass returns the relative optical airmass for the given
// apparent zenith angle in degrees, using the Kasten and Young (1989)
// formula. Returns +Inf for the sun at or below the horizon.
func RelativeAirmass(apparentZenith float64) float64 {
	if apparentZenith >= 90 {
		return math.Inf(1)
	}

	return 1 / (math.Cos(radians(apparentZenith)) +
		0.50572*math.Pow(96.07995-apparentZenith, -1.6364))
}

// AbsoluteAirmass corrects relative airmass for station pressure
// derived from altitude in meters (scale height approximation)
func AbsoluteAirmass(amRelative, altitude float64) float64 {
	return amRelative * math.Exp(-altitude/8434.5)
}
