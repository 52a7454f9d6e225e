package finance

import (
	"testing"

	"github.com/solarninja/solarninja/data"
)

func TestEvaluate(t *testing.T) {
	tariff := data.Tariff{
		RatePerKWh:       0.15,
		Currency:         "EUR",
		DegradationPctYr: 0.5,
		LifetimeYears:    25,
	}

	fin := Evaluate(tariff, 10000, 9000)

	if fin.AnnualRevenue != 1500 {
		t.Error("Expected 1500 annual revenue, got: ", fin.AnnualRevenue)
	}

	// 9000 / 1500 is 6 years before degradation, slightly more after
	if fin.PaybackYears < 6 || fin.PaybackYears > 7 {
		t.Error("Payback out of range: ", fin.PaybackYears)
	}

	// 25 years of slowly degrading 1500/yr revenue
	if fin.LifetimeRevenue < 33000 || fin.LifetimeRevenue > 37500 {
		t.Error("Lifetime revenue out of range: ", fin.LifetimeRevenue)
	}

	if fin.ROIPct <= 0 {
		t.Error("Expected positive ROI, got: ", fin.ROIPct)
	}

	if fin.Currency != "EUR" {
		t.Error("Expected EUR, got: ", fin.Currency)
	}
}

func TestEvaluateNeverPaysBack(t *testing.T) {
	tariff := data.Tariff{RatePerKWh: 0.01, LifetimeYears: 25}

	fin := Evaluate(tariff, 1000, 100000)

	if fin.PaybackYears != -1 {
		t.Error("Expected -1 payback, got: ", fin.PaybackYears)
	}

	if fin.ROIPct >= 0 {
		t.Error("Expected negative ROI, got: ", fin.ROIPct)
	}
}

func TestEvaluateZeroRate(t *testing.T) {
	// a store with no tariff configured yet values energy at zero;
	// the result must still be representable
	fin := Evaluate(data.Tariff{}, 10000, 0)

	if fin.AnnualRevenue != 0 {
		t.Error("Expected zero revenue, got: ", fin.AnnualRevenue)
	}

	if fin.PaybackYears != -1 {
		t.Error("Expected -1 payback, got: ", fin.PaybackYears)
	}
}

func TestEvaluateNoCapex(t *testing.T) {
	tariff := data.Tariff{RatePerKWh: 0.15}

	fin := Evaluate(tariff, 10000, 0)

	// zero cost means instant payback; ROI is left at zero
	if fin.PaybackYears != 0 {
		t.Error("Expected zero payback with no capex, got: ", fin.PaybackYears)
	}

	if fin.ROIPct != 0 {
		t.Error("Expected zero ROI with no capex, got: ", fin.ROIPct)
	}
}

func TestEvaluateDefaults(t *testing.T) {
	fin := Evaluate(data.Tariff{RatePerKWh: 0.2}, 1000, 0)

	if fin.Currency != "EUR" {
		t.Error("Expected default currency EUR, got: ", fin.Currency)
	}

	if fin.LifetimeRevenue <= 0 {
		t.Error("Expected lifetime revenue with default lifetime, got: ",
			fin.LifetimeRevenue)
	}
}

func TestEvaluateDegradation(t *testing.T) {
	low := Evaluate(data.Tariff{RatePerKWh: 0.15, DegradationPctYr: 0.5,
		LifetimeYears: 25}, 10000, 0)
	high := Evaluate(data.Tariff{RatePerKWh: 0.15, DegradationPctYr: 2,
		LifetimeYears: 25}, 10000, 0)

	if high.LifetimeRevenue >= low.LifetimeRevenue {
		t.Errorf("Expected faster degradation to lower revenue: %v >= %v",
			high.LifetimeRevenue, low.LifetimeRevenue)
	}
}
