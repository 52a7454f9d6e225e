package solar

import (
	"math"
	"time"
)

// SolarConstant is the extraterrestrial irradiance at mean earth-sun
// distance in W/m^2
const SolarConstant = 1366.1

// Position describes where the sun is in the sky for an observer
type Position struct {
	// Zenith angle in degrees (0 = directly overhead)
	Zenith float64

	// ApparentZenith is Zenith corrected for atmospheric refraction
	ApparentZenith float64

	// Elevation above the horizon in degrees
	Elevation float64

	// Azimuth in degrees clockwise from north (180 = south)
	Azimuth float64
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }

// dayAngle returns the fractional year angle in radians for the
// given time
func dayAngle(t time.Time) float64 {
	doy := float64(t.YearDay())
	hour := float64(t.Hour()) + float64(t.Minute())/60
	return 2 * math.Pi / 365 * (doy - 1 + (hour-12)/24)
}

// Declination returns the solar declination in degrees using the
// Spencer (1971) Fourier series
func Declination(t time.Time) float64 {
	b := dayAngle(t)
	dec := 0.006918 -
		0.399912*math.Cos(b) + 0.070257*math.Sin(b) -
		0.006758*math.Cos(2*b) + 0.000907*math.Sin(2*b) -
		0.002697*math.Cos(3*b) + 0.00148*math.Sin(3*b)
	return degrees(dec)
}

// EquationOfTime returns the equation of time in minutes (Spencer 1971)
func EquationOfTime(t time.Time) float64 {
	b := dayAngle(t)
	return 229.18 * (0.000075 +
		0.001868*math.Cos(b) - 0.032077*math.Sin(b) -
		0.014615*math.Cos(2*b) - 0.040849*math.Sin(2*b))
}

// HourAngle returns the solar hour angle in degrees for the given UTC
// time and longitude (east positive). 0 at local solar noon, negative
// in the morning.
func HourAngle(t time.Time, lon float64) float64 {
	utc := t.UTC()
	hours := float64(utc.Hour()) +
		float64(utc.Minute())/60 +
		float64(utc.Second())/3600

	// true solar time in hours
	tst := hours + lon/15 + EquationOfTime(utc)/60

	return 15 * (tst - 12)
}

// ExtraRadiation returns extraterrestrial irradiance in W/m^2 for the
// given day, using the Spencer eccentricity correction
func ExtraRadiation(t time.Time) float64 {
	b := dayAngle(t)
	e0 := 1.00011 +
		0.034221*math.Cos(b) + 0.00128*math.Sin(b) +
		0.000719*math.Cos(2*b) + 0.000077*math.Sin(2*b)
	return SolarConstant * e0
}

// refraction returns the Bennett atmospheric refraction correction in
// degrees for the given true elevation
func refraction(elevation float64) float64 {
	if elevation < -1 {
		return 0
	}

	// Bennett (1982), argument in degrees, result in arc minutes
	r := 1.02 / math.Tan(radians(elevation+10.3/(elevation+5.11)))
	return r / 60
}

// SunPosition computes the position of the sun for a UTC time and
// observer latitude/longitude in degrees
func SunPosition(t time.Time, lat, lon float64) Position {
	dec := radians(Declination(t))
	ha := radians(HourAngle(t, lon))
	phi := radians(lat)

	cosZenith := math.Sin(phi)*math.Sin(dec) +
		math.Cos(phi)*math.Cos(dec)*math.Cos(ha)

	// guard rounding
	cosZenith = math.Max(-1, math.Min(1, cosZenith))

	zenith := degrees(math.Acos(cosZenith))
	elevation := 90 - zenith

	// azimuth clockwise from north
	az := degrees(math.Atan2(math.Sin(ha),
		math.Cos(ha)*math.Sin(phi)-math.Tan(dec)*math.Cos(phi))) + 180

	if az < 0 {
		az += 360
	} else if az >= 360 {
		az -= 360
	}

	return Position{
		Zenith:         zenith,
		ApparentZenith: zenith - refraction(elevation),
		Elevation:      elevation,
		Azimuth:        az,
	}
}
