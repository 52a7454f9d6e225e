package client_test

import (
	"testing"

	"github.com/solarninja/solarninja/client"
	"github.com/solarninja/solarninja/data"
	"github.com/solarninja/solarninja/server"
)

func TestEstimateRun(t *testing.T) {
	nc, stop, err := server.TestServer()
	if err != nil {
		t.Fatal("Error starting test server: ", err)
	}
	defer stop()

	site, err := client.SiteSet(nc, data.Site{
		Description: "Kyiv rooftop",
		Lat:         50.45,
		Lon:         30.52,
	})
	if err != nil {
		t.Fatal("Error setting site: ", err)
	}

	est, err := client.EstimateRun(nc, data.EstimateRequest{
		SiteID:     site.ID,
		System:     data.System{PowerKW: 5, Tilt: 30},
		CapexPerKW: 1000,
		Tariff:     &data.Tariff{RatePerKWh: 0.15},
	})
	if err != nil {
		t.Fatal("Error running estimate: ", err)
	}

	if est.ID == "" {
		t.Fatal("Expected estimate ID to be assigned")
	}

	if est.Year != data.DefaultYear {
		t.Error("Expected default year, got: ", est.Year)
	}

	if est.AnnualKWh <= 0 {
		t.Error("Expected positive annual energy, got: ", est.AnnualKWh)
	}

	if est.OptimalTilt < 0 || est.OptimalTilt > 90 {
		t.Error("Optimal tilt out of range: ", est.OptimalTilt)
	}

	if est.OptimalKWh < est.AnnualKWh {
		t.Error("Optimal energy below requested-tilt energy")
	}

	if len(est.Monthly) != 12 {
		t.Fatal("Expected 12 monthly rows, got: ", len(est.Monthly))
	}

	if est.WeatherSource != "clearsky" {
		t.Error("Expected clearsky source, got: ", est.WeatherSource)
	}

	if est.Financial.Capex != 5000 {
		t.Error("Expected 5000 capex, got: ", est.Financial.Capex)
	}

	if est.Financial.AnnualRevenue <= 0 {
		t.Error("Expected positive revenue, got: ", est.Financial.AnnualRevenue)
	}

	// stored estimate round trip
	got, err := client.EstimateGet(nc, est.ID)
	if err != nil {
		t.Fatal("Error getting estimate: ", err)
	}

	if got.ID != est.ID || got.AnnualKWh != est.AnnualKWh {
		t.Error("Stored estimate does not match run result")
	}

	all, err := client.EstimateList(nc, "")
	if err != nil {
		t.Fatal("Error listing estimates: ", err)
	}

	if len(all) != 1 {
		t.Error("Expected 1 estimate, got: ", len(all))
	}

	filtered, err := client.EstimateList(nc, site.ID)
	if err != nil {
		t.Fatal("Error listing estimates for site: ", err)
	}

	if len(filtered) != 1 {
		t.Error("Expected 1 estimate for site, got: ", len(filtered))
	}

	none, err := client.EstimateList(nc, "other-site")
	if err != nil {
		t.Fatal("Error listing estimates: ", err)
	}

	if len(none) != 0 {
		t.Error("Expected no estimates for other site, got: ", len(none))
	}
}

func TestEstimateRunDefaultTariff(t *testing.T) {
	nc, stop, err := server.TestServer()
	if err != nil {
		t.Fatal("Error starting test server: ", err)
	}
	defer stop()

	site, err := client.SiteSet(nc, data.Site{
		Description: "test",
		Lat:         50.45,
		Lon:         30.52,
	})
	if err != nil {
		t.Fatal("Error setting site: ", err)
	}

	// no tariff configured and no capex, the state of a fresh server
	est, err := client.EstimateRun(nc, data.EstimateRequest{
		SiteID: site.ID,
		System: data.System{PowerKW: 5, Tilt: 30},
	})
	if err != nil {
		t.Fatal("Error running estimate without tariff: ", err)
	}

	if est.AnnualKWh <= 0 {
		t.Error("Expected positive annual energy, got: ", est.AnnualKWh)
	}

	if est.Financial.AnnualRevenue != 0 {
		t.Error("Expected zero revenue, got: ", est.Financial.AnnualRevenue)
	}

	if est.Financial.PaybackYears != -1 {
		t.Error("Expected -1 payback, got: ", est.Financial.PaybackYears)
	}

	// the stored copy must round trip too
	got, err := client.EstimateGet(nc, est.ID)
	if err != nil {
		t.Fatal("Error getting estimate: ", err)
	}

	if got.Financial.PaybackYears != -1 {
		t.Error("Expected -1 payback after reload, got: ",
			got.Financial.PaybackYears)
	}
}

func TestEstimateRunNoSite(t *testing.T) {
	nc, stop, err := server.TestServer()
	if err != nil {
		t.Fatal("Error starting test server: ", err)
	}
	defer stop()

	_, err = client.EstimateRun(nc, data.EstimateRequest{
		SiteID: "no-such-site",
		System: data.System{PowerKW: 5},
	})

	if err != data.ErrSiteNotFound {
		t.Error("Expected ErrSiteNotFound, got: ", err)
	}
}

func TestEstimateRunInvalid(t *testing.T) {
	nc, stop, err := server.TestServer()
	if err != nil {
		t.Fatal("Error starting test server: ", err)
	}
	defer stop()

	site, err := client.SiteSet(nc, data.Site{Description: "test"})
	if err != nil {
		t.Fatal("Error setting site: ", err)
	}

	// zero power system
	_, err = client.EstimateRun(nc, data.EstimateRequest{SiteID: site.ID})
	if err == nil {
		t.Error("Expected error for zero power system")
	}
}

func TestEstimateGetNotFound(t *testing.T) {
	nc, stop, err := server.TestServer()
	if err != nil {
		t.Fatal("Error starting test server: ", err)
	}
	defer stop()

	_, err = client.EstimateGet(nc, "no-such-estimate")
	if err != data.ErrEstimateNotFound {
		t.Error("Expected ErrEstimateNotFound, got: ", err)
	}
}
