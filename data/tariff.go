package data

import "fmt"

// Tariff describes a feed-in tariff (for example the Ukrainian green
// tariff) used to value generated energy.
type Tariff struct {
	// RatePerKWh is the feed-in rate in Currency per kWh
	RatePerKWh float64 `json:"ratePerKWh" yaml:"ratePerKWh"`
	Currency   string  `json:"currency" yaml:"currency"`

	// DegradationPctYr is annual panel degradation in percent
	DegradationPctYr float64 `json:"degradationPctYr" yaml:"degradationPctYr"`

	// LifetimeYears is the system lifetime used for ROI
	LifetimeYears int `json:"lifetimeYears" yaml:"lifetimeYears"`
}

// SetDefaults populates zero-value optional fields
func (t *Tariff) SetDefaults() {
	if t.Currency == "" {
		t.Currency = "EUR"
	}

	if t.DegradationPctYr == 0 {
		t.DegradationPctYr = 0.5
	}

	if t.LifetimeYears == 0 {
		t.LifetimeYears = 25
	}
}

// Validate checks tariff fields are in range
func (t *Tariff) Validate() error {
	if t.RatePerKWh < 0 {
		return fmt.Errorf("tariff rate must be >= 0, got %v", t.RatePerKWh)
	}

	if t.DegradationPctYr < 0 || t.DegradationPctYr >= 100 {
		return fmt.Errorf("tariff degradation out of range: %v", t.DegradationPctYr)
	}

	if t.LifetimeYears < 0 {
		return fmt.Errorf("tariff lifetime must be >= 0, got %v", t.LifetimeYears)
	}

	return nil
}

// Financial is the economic summary of an estimate
type Financial struct {
	Capex         float64 `json:"capex"`
	Currency      string  `json:"currency"`
	AnnualRevenue float64 `json:"annualRevenue"`

	// PaybackYears is -1 when capex is not recovered within the
	// system lifetime
	PaybackYears    float64 `json:"paybackYears"`
	ROIPct          float64 `json:"roiPct"`
	LifetimeRevenue float64 `json:"lifetimeRevenue"`
}
