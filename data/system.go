package data

import "fmt"

// DefaultAzimuth is south facing (degrees from north)
const DefaultAzimuth = 180.0

// DefaultLosses is the overall system loss fraction (wiring, inverter,
// soiling) applied to plane-of-array output.
const DefaultLosses = 0.20

// System describes the PV system being evaluated at a site.
type System struct {
	// PowerKW is the rated DC system power
	PowerKW float64 `json:"powerKW" yaml:"powerKW"`

	// Tilt of the panel surface from horizontal in degrees
	Tilt float64 `json:"tilt" yaml:"tilt"`

	// Azimuth of the panel surface in degrees from north (180 = south)
	Azimuth float64 `json:"azimuth" yaml:"azimuth"`

	// Losses is the fractional system loss (0..1)
	Losses float64 `json:"losses" yaml:"losses"`
}

// SetDefaults populates zero-value optional fields
func (s *System) SetDefaults() {
	if s.Azimuth == 0 {
		s.Azimuth = DefaultAzimuth
	}

	if s.Losses == 0 {
		s.Losses = DefaultLosses
	}
}

// Validate checks system fields are in range
func (s *System) Validate() error {
	if s.PowerKW <= 0 {
		return fmt.Errorf("system power must be > 0, got %v", s.PowerKW)
	}

	if s.Tilt < 0 || s.Tilt > 90 {
		return fmt.Errorf("system tilt out of range: %v", s.Tilt)
	}

	if s.Azimuth < 0 || s.Azimuth > 360 {
		return fmt.Errorf("system azimuth out of range: %v", s.Azimuth)
	}

	if s.Losses < 0 || s.Losses >= 1 {
		return fmt.Errorf("system losses out of range: %v", s.Losses)
	}

	return nil
}
