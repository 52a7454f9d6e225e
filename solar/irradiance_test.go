package solar

import (
	"math"
	"testing"
	"time"
)

func TestCosAOIFlat(t *testing.T) {
	// a horizontal panel sees the sun at the apparent zenith angle
	tm := time.Date(2025, 6, 21, 10, 0, 0, 0, time.UTC)
	pos := SunPosition(tm, 50.45, 30.52)

	got := CosAOI(0, 180, pos)
	want := math.Cos(radians(pos.ApparentZenith))

	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Expected cosAOI %v, got %v", want, got)
	}
}

func TestCosAOINight(t *testing.T) {
	tm := time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC)
	pos := SunPosition(tm, 50.45, 30.52)

	if got := CosAOI(30, 180, pos); got != 0 {
		t.Error("Expected 0 cosAOI at night, got: ", got)
	}
}

func TestCosAOIBehindPanel(t *testing.T) {
	// sun in the east, panel facing west and tilted steeply
	tm := time.Date(2025, 3, 20, 8, 0, 0, 0, time.UTC)
	pos := SunPosition(tm, 0, 0)

	if got := CosAOI(80, 270, pos); got != 0 {
		t.Error("Expected clipped cosAOI behind panel, got: ", got)
	}
}

func TestCosAOIWinterTilt(t *testing.T) {
	// at high latitude in winter a south tilt beats horizontal
	tm := time.Date(2025, 12, 21, 10, 0, 0, 0, time.UTC)
	pos := SunPosition(tm, 50.45, 30.52)

	flat := CosAOI(0, 180, pos)
	tilted := CosAOI(60, 180, pos)

	if tilted <= flat {
		t.Errorf("Expected tilted cosAOI (%v) > flat (%v)", tilted, flat)
	}
}

func TestAOI(t *testing.T) {
	tm := time.Date(2025, 6, 21, 10, 0, 0, 0, time.UTC)
	pos := SunPosition(tm, 50.45, 30.52)

	// tilting the panel to the apparent zenith points it at the sun
	aoi := AOI(pos.ApparentZenith, pos.Azimuth, pos)
	if aoi > 0.1 {
		t.Error("Expected near-zero AOI for a sun-pointed panel, got: ", aoi)
	}
}

func TestPOAPowerKW(t *testing.T) {
	// 1000 W/m^2 head-on with no losses is exactly 1 kW per kW installed
	if got := POAPowerKW(1000, 1, 0); got != 1 {
		t.Error("Expected 1 kW, got: ", got)
	}

	if got := POAPowerKW(1000, 1, 0.20); got != 0.8 {
		t.Error("Expected 0.8 kW with 20% losses, got: ", got)
	}

	if got := POAPowerKW(0, 1, 0); got != 0 {
		t.Error("Expected 0 kW with no irradiance, got: ", got)
	}
}
