package data

import (
	"fmt"
	"time"
)

// DefaultYear is the simulation year used when a request does not set one
const DefaultYear = 2025

// EstimateRequest is sent to run a new production estimate for a site
type EstimateRequest struct {
	SiteID string `json:"siteID"`
	System System `json:"system"`

	// Year to simulate
	Year int `json:"year"`

	// Tariff overrides the stored default tariff when set
	Tariff *Tariff `json:"tariff,omitempty"`

	// CapexPerKW is the installed cost per kW used for ROI/payback
	CapexPerKW float64 `json:"capexPerKW"`

	// WeatherFile optionally names an hourly GHI CSV in the server
	// weather directory to use instead of the clearsky model
	WeatherFile string `json:"weatherFile,omitempty"`
}

// SetDefaults populates zero-value optional fields
func (r *EstimateRequest) SetDefaults() {
	if r.Year == 0 {
		r.Year = DefaultYear
	}
	r.System.SetDefaults()
}

// Validate checks request fields are in range
func (r *EstimateRequest) Validate() error {
	if r.SiteID == "" {
		return fmt.Errorf("estimate request must have a site ID")
	}

	if r.Year < 1950 || r.Year > 2100 {
		return fmt.Errorf("estimate year out of range: %v", r.Year)
	}

	if r.CapexPerKW < 0 {
		return fmt.Errorf("capex per kW must be >= 0, got %v", r.CapexPerKW)
	}

	if r.Tariff != nil {
		if err := r.Tariff.Validate(); err != nil {
			return err
		}
	}

	return r.System.Validate()
}

// MonthEnergy is one row of the monthly production table
type MonthEnergy struct {
	Month time.Month `json:"month"`
	KWh   float64    `json:"kWh"`

	// BestTilt is the analytic optimal tilt for this month in degrees
	BestTilt int `json:"bestTilt"`
}

// Estimate is the result of a production simulation for a site
type Estimate struct {
	ID      string    `json:"id"`
	SiteID  string    `json:"siteID"`
	Created time.Time `json:"created"`

	System System `json:"system"`
	Year   int    `json:"year"`

	// AnnualKWh is annual production at the requested tilt
	AnnualKWh float64 `json:"annualKWh"`

	// OptimalTilt maximizes annual production (integer degrees)
	OptimalTilt int `json:"optimalTilt"`

	// OptimalKWh is annual production at OptimalTilt
	OptimalKWh float64 `json:"optimalKWh"`

	Monthly []MonthEnergy `json:"monthly"`

	Financial Financial `json:"financial"`

	// WeatherSource describes the irradiance input ("clearsky" or the
	// weather file name)
	WeatherSource string `json:"weatherSource"`
}
