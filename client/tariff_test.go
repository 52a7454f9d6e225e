package client_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/solarninja/solarninja/client"
	"github.com/solarninja/solarninja/data"
	"github.com/solarninja/solarninja/server"
)

func TestTariff(t *testing.T) {
	nc, stop, err := server.TestServer()
	if err != nil {
		t.Fatal("Error starting test server: ", err)
	}
	defer stop()

	// defaults before anything is stored
	tariff, err := client.TariffGet(nc)
	if err != nil {
		t.Fatal("Error getting tariff: ", err)
	}

	if tariff.Currency != "EUR" {
		t.Error("Expected default currency, got: ", tariff.Currency)
	}

	set := data.Tariff{RatePerKWh: 0.18, Currency: "UAH"}

	if err := client.TariffSet(nc, set); err != nil {
		t.Fatal("Error setting tariff: ", err)
	}

	tariff, err = client.TariffGet(nc)
	if err != nil {
		t.Fatal("Error getting tariff: ", err)
	}

	if tariff.RatePerKWh != 0.18 || tariff.Currency != "UAH" {
		t.Error("Unexpected tariff: ", tariff)
	}

	// defaults are filled in on set
	if tariff.LifetimeYears != 25 {
		t.Error("Expected default lifetime, got: ", tariff.LifetimeYears)
	}
}

func TestTariffSetInvalid(t *testing.T) {
	nc, stop, err := server.TestServer()
	if err != nil {
		t.Fatal("Error starting test server: ", err)
	}
	defer stop()

	err = client.TariffSet(nc, data.Tariff{RatePerKWh: -1})
	if err == nil {
		t.Error("Expected error for negative rate")
	}
}

func TestTariffWatcher(t *testing.T) {
	nc, stop, err := server.TestServer()
	if err != nil {
		t.Fatal("Error starting test server: ", err)
	}
	defer stop()

	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")

	write := func(rate string) {
		t.Helper()
		err := os.WriteFile(file, []byte("tariff:\n  ratePerKWh: "+rate+"\n"), 0644)
		if err != nil {
			t.Fatal("Error writing config: ", err)
		}
	}

	write("0.15")

	tw := client.NewTariffWatcher(nc, file)

	done := make(chan struct{})
	go func() {
		if err := tw.Run(); err != nil {
			t.Error("Error running tariff watcher: ", err)
		}
		close(done)
	}()
	defer func() {
		tw.Stop(nil)
		<-done
	}()

	waitRate := func(rate float64) bool {
		for i := 0; i < 100; i++ {
			tariff, err := client.TariffGet(nc)
			if err == nil && tariff.RatePerKWh == rate {
				return true
			}
			time.Sleep(50 * time.Millisecond)
		}
		return false
	}

	// initial push on start
	if !waitRate(0.15) {
		t.Fatal("Expected initial tariff push")
	}

	// rewrite triggers a push
	write("0.21")

	if !waitRate(0.21) {
		t.Fatal("Expected tariff update after file change")
	}
}
