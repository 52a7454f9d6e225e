package solar

import (
	"math"
	"time"
)

// ClearskyGHI returns clear sky global horizontal irradiance in W/m^2
// using the Ineichen-Perez model with a Linke turbidity input.
// Altitude is site elevation above sea level in meters.
func ClearskyGHI(t time.Time, pos Position, altitude, turbidity float64) float64 {
	if pos.ApparentZenith >= 90 {
		return 0
	}

	cosZenith := math.Cos(radians(pos.ApparentZenith))
	if cosZenith <= 0 {
		return 0
	}

	am := AbsoluteAirmass(RelativeAirmass(pos.ApparentZenith), altitude)

	fh1 := math.Exp(-altitude / 8000)
	fh2 := math.Exp(-altitude / 1250)
	cg1 := 5.09e-5*altitude + 0.868
	cg2 := 3.92e-5*altitude + 0.0387

	ghi := cg1 * ExtraRadiation(t) * cosZenith *
		math.Exp(-cg2*am*(fh1+fh2*(turbidity-1))) *
		math.Exp(0.01*math.Pow(am, 1.8))

	if ghi < 0 {
		return 0
	}

	return ghi
}
