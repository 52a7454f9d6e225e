/*
Package finance values estimated production under a feed-in tariff and
computes the usual investment numbers: annual revenue, payback period,
and return on investment over the system lifetime.
*/
package finance

import (
	"math"

	"github.com/solarninja/solarninja/data"
)

// Evaluate computes the economics of an estimate. annualKWh is first
// year production; capex is total installed cost. Panel degradation is
// applied per year of the tariff lifetime. PaybackYears is -1 when
// capex is not recovered within the lifetime.
func Evaluate(tariff data.Tariff, annualKWh, capex float64) data.Financial {
	tariff.SetDefaults()

	ret := data.Financial{
		Capex:         capex,
		Currency:      tariff.Currency,
		AnnualRevenue: annualKWh * tariff.RatePerKWh,
		PaybackYears:  -1,
	}

	keep := 1 - tariff.DegradationPctYr/100

	cumulative := 0.0
	for year := 0; year < tariff.LifetimeYears; year++ {
		revenue := ret.AnnualRevenue * math.Pow(keep, float64(year))
		prev := cumulative
		cumulative += revenue

		if ret.PaybackYears < 0 && cumulative >= capex && revenue > 0 {
			// linear interpolation within the year
			ret.PaybackYears = float64(year) + (capex-prev)/revenue
		}
	}

	ret.LifetimeRevenue = cumulative

	if capex > 0 {
		ret.ROIPct = (cumulative - capex) / capex * 100
	}

	return ret
}
