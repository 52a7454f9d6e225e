package data

import (
	"fmt"
	"time"
)

// DefaultTurbidity is the Linke turbidity used when a site does not
// carry its own monthly climatology.
const DefaultTurbidity = 3.0

// Site describes a physical location a PV system can be evaluated at.
type Site struct {
	ID          string    `json:"id" yaml:"id"`
	Description string    `json:"description" yaml:"description"`
	Lat         float64   `json:"lat" yaml:"lat"`
	Lon         float64   `json:"lon" yaml:"lon"`
	// Altitude above sea level in meters, used by the clearsky model
	Altitude float64   `json:"altitude" yaml:"altitude"`
	Created  time.Time `json:"created" yaml:"-"`

	// TurbidityMonthly optionally gives Linke turbidity per month
	// (Jan..Dec). Empty means DefaultTurbidity year round.
	TurbidityMonthly []float64 `json:"turbidityMonthly,omitempty" yaml:"turbidityMonthly,omitempty"`
}

// Validate checks site fields are in range
func (s *Site) Validate() error {
	if s.Lat < -90 || s.Lat > 90 {
		return fmt.Errorf("site lat out of range: %v", s.Lat)
	}

	if s.Lon < -180 || s.Lon > 180 {
		return fmt.Errorf("site lon out of range: %v", s.Lon)
	}

	if len(s.TurbidityMonthly) != 0 && len(s.TurbidityMonthly) != 12 {
		return fmt.Errorf("site turbidity must have 12 entries, got %v",
			len(s.TurbidityMonthly))
	}

	return nil
}

// Turbidity returns the Linke turbidity for the given month (1..12)
func (s *Site) Turbidity(month time.Month) float64 {
	if len(s.TurbidityMonthly) == 12 {
		return s.TurbidityMonthly[int(month)-1]
	}
	return DefaultTurbidity
}
