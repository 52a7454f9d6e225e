package solar

import (
	"math"
	"testing"
	"time"
)

func TestDeclination(t *testing.T) {
	tests := []struct {
		name string
		time time.Time
		min  float64
		max  float64
	}{
		{"summer solstice", time.Date(2025, 6, 21, 12, 0, 0, 0, time.UTC), 23, 23.6},
		{"winter solstice", time.Date(2025, 12, 21, 12, 0, 0, 0, time.UTC), -23.6, -23},
		{"spring equinox", time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC), -1.5, 1.5},
		{"fall equinox", time.Date(2025, 9, 22, 12, 0, 0, 0, time.UTC), -1.5, 1.5},
	}

	for _, test := range tests {
		dec := Declination(test.time)
		if dec < test.min || dec > test.max {
			t.Errorf("%v: declination %.2f outside [%v, %v]",
				test.name, dec, test.min, test.max)
		}
	}
}

func TestEquationOfTime(t *testing.T) {
	// EoT stays within about +/- 17 minutes over the year
	for doy := 1; doy <= 365; doy += 5 {
		tm := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC).
			AddDate(0, 0, doy-1)
		eot := EquationOfTime(tm)
		if math.Abs(eot) > 17 {
			t.Errorf("day %v: equation of time %.1f min out of range", doy, eot)
		}
	}
}

func TestSunPositionNoonEquator(t *testing.T) {
	// near the equinox the sun should be close to overhead at the
	// equator around 12:00 UTC on the prime meridian
	pos := SunPosition(time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC), 0, 0)

	if pos.Zenith > 5 {
		t.Error("Expected sun near zenith, got zenith: ", pos.Zenith)
	}
}

func TestSunPositionNight(t *testing.T) {
	pos := SunPosition(time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), 0, 0)

	if pos.Elevation > 0 {
		t.Error("Expected sun below horizon at midnight, elevation: ",
			pos.Elevation)
	}
}

func TestSunPositionAzimuth(t *testing.T) {
	// morning sun is in the east, evening sun in the west
	morning := SunPosition(time.Date(2025, 3, 20, 8, 0, 0, 0, time.UTC), 0, 0)
	if morning.Azimuth < 45 || morning.Azimuth > 135 {
		t.Error("Expected morning sun in the east, azimuth: ", morning.Azimuth)
	}

	evening := SunPosition(time.Date(2025, 3, 20, 16, 0, 0, 0, time.UTC), 0, 0)
	if evening.Azimuth < 225 || evening.Azimuth > 315 {
		t.Error("Expected evening sun in the west, azimuth: ", evening.Azimuth)
	}
}

func TestSunPositionNoonKyiv(t *testing.T) {
	// solar noon in Kyiv (lon 30.52) is near 10:00 UTC; zenith should
	// be close to lat - declination
	tm := time.Date(2025, 6, 21, 10, 0, 0, 0, time.UTC)
	pos := SunPosition(tm, 50.45, 30.52)

	expected := 50.45 - Declination(tm)
	if math.Abs(pos.Zenith-expected) > 2 {
		t.Errorf("Expected noon zenith near %.1f, got %.1f", expected, pos.Zenith)
	}

	// sun should be roughly south
	if pos.Azimuth < 150 || pos.Azimuth > 210 {
		t.Error("Expected noon sun in the south, azimuth: ", pos.Azimuth)
	}
}

func TestExtraRadiation(t *testing.T) {
	// earth is closest to the sun in early January
	jan := ExtraRadiation(time.Date(2025, 1, 3, 12, 0, 0, 0, time.UTC))
	jul := ExtraRadiation(time.Date(2025, 7, 3, 12, 0, 0, 0, time.UTC))

	if jan <= jul {
		t.Errorf("Expected January extra radiation (%.0f) > July (%.0f)", jan, jul)
	}

	if jan < 1360 || jan > 1420 {
		t.Error("January extra radiation out of range: ", jan)
	}
}

func TestRefraction(t *testing.T) {
	// refraction at the horizon is roughly 0.5 degrees and falls to
	// near zero overhead
	horizon := refraction(0)
	if horizon < 0.4 || horizon > 0.6 {
		t.Error("Unexpected refraction at horizon: ", horizon)
	}

	overhead := refraction(90)
	if overhead > 0.01 {
		t.Error("Unexpected refraction overhead: ", overhead)
	}
}
