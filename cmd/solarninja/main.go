package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/oklog/run"

	"github.com/solarninja/solarninja/client"
	"github.com/solarninja/solarninja/data"
	"github.com/solarninja/solarninja/finance"
	"github.com/solarninja/solarninja/report"
	"github.com/solarninja/solarninja/server"
	"github.com/solarninja/solarninja/sim"
	"github.com/solarninja/solarninja/weather"
)

// goreleaser will replace version with Git version. You can also pass version
// into the go build:
//   go build -ldflags="-X main.version=1.2.3"
var version = "Development"

func main() {
	// global options
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flagVersion := flags.Bool("version", false, "Print app version")
	flags.Usage = func() {
		fmt.Println("usage: solarninja [OPTION]... COMMAND [OPTION]...")
		fmt.Println("Global options:")
		flags.PrintDefaults()
		fmt.Println()
		fmt.Println("Available commands:")
		fmt.Println("  - serve (start the Solar Ninja server)")
		fmt.Println("  - estimate (run a one-shot production estimate)")
		fmt.Println("  - fetch (download a weather dataset)")
		fmt.Println("  - store (store maint, requires server to be running)")
	}

	flags.Parse(os.Args[1:])

	if *flagVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	log.Printf("Solar Ninja %v\n", version)

	// extract sub command and its arguments
	args := flags.Args()

	if len(args) < 1 {
		// run serve command by default
		args = []string{"serve"}
	}

	switch args[0] {
	case "serve":
		if err := runServer(args[1:], version); err != nil {
			log.Println("Solar Ninja stopped, reason: ", err)
		}
	case "estimate":
		runEstimate(args[1:])
	case "fetch":
		runFetch(args[1:])
	case "store":
		runStore(args[1:])
	default:
		log.Fatal("Unknown command; options: serve, estimate, fetch, store")
	}
}

func runServer(args []string, version string) error {
	options, err := server.Args(args, nil)
	if err != nil {
		return err
	}

	options.AppVersion = version

	var g run.Group

	sn, _, err := server.NewServer(options)

	if err != nil {
		sn.Stop(nil)
		return fmt.Errorf("Error starting server: %v", err)
	}

	g.Add(sn.Run, sn.Stop)

	g.Add(run.SignalHandler(context.Background(),
		syscall.SIGINT, syscall.SIGTERM))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*9)

	// add check to make sure server started
	chStartCheck := make(chan struct{})
	g.Add(func() error {
		err := sn.WaitStart(ctx)
		if err != nil {
			return errors.New("Timeout waiting for server to start")
		}
		log.Println("Solar Ninja started")
		<-chStartCheck
		return nil
	}, func(err error) {
		cancel()
		close(chStartCheck)
	})

	return g.Run()
}

// runEstimate runs the production model locally without a server and
// writes reports next to the output flags
func runEstimate(args []string) {
	flags := flag.NewFlagSet("estimate", flag.ExitOnError)
	flagLat := flags.Float64("lat", 50.45, "site latitude (deg)")
	flagLon := flags.Float64("lon", 30.52, "site longitude (deg)")
	flagAlt := flags.Float64("alt", 0, "site altitude (m)")
	flagPower := flags.Float64("power", 10, "system power (kW)")
	flagTilt := flags.Float64("tilt", 45, "panel tilt (deg)")
	flagAzimuth := flags.Float64("azimuth", data.DefaultAzimuth, "panel azimuth (deg from north)")
	flagLosses := flags.Float64("losses", data.DefaultLosses, "system losses (fraction)")
	flagYear := flags.Int("year", data.DefaultYear, "simulation year")
	flagRate := flags.Float64("rate", 0, "feed-in tariff rate per kWh")
	flagCapexPerKW := flags.Float64("capexPerKW", 0, "installed cost per kW")
	flagWeather := flags.String("weather", "", "hourly GHI CSV file (default clearsky)")
	flagPDF := flags.String("pdf", "", "write PDF report to file")
	flagCSV := flags.String("csv", "", "write CSV report to file")

	if err := flags.Parse(args); err != nil {
		log.Fatal("error: ", err)
	}

	site := data.Site{
		ID:          "local",
		Description: "command line estimate",
		Lat:         *flagLat,
		Lon:         *flagLon,
		Altitude:    *flagAlt,
	}

	sys := data.System{
		PowerKW: *flagPower,
		Tilt:    *flagTilt,
		Azimuth: *flagAzimuth,
		Losses:  *flagLosses,
	}

	var series *weather.Series
	weatherSource := "clearsky"

	if *flagWeather != "" {
		var err error
		series, err = weather.LoadFile(*flagWeather)
		if err != nil {
			log.Fatal("Error loading weather file: ", err)
		}
		weatherSource = path.Base(*flagWeather)
	}

	s, err := sim.NewSimulator(site, sys, *flagYear, series)
	if err != nil {
		log.Fatal("Error setting up simulation: ", err)
	}

	result := s.Run()
	optTilt, optKWh := s.OptimalTilt()
	bestTilts := s.MonthlyBestTilts()

	tariff := data.Tariff{RatePerKWh: *flagRate}
	tariff.SetDefaults()

	est := data.Estimate{
		ID:            "local",
		SiteID:        site.ID,
		Created:       time.Now().UTC(),
		System:        sys,
		Year:          *flagYear,
		AnnualKWh:     result.AnnualKWh,
		OptimalTilt:   optTilt,
		OptimalKWh:    optKWh,
		WeatherSource: weatherSource,
		Financial: finance.Evaluate(tariff, result.AnnualKWh,
			*flagCapexPerKW**flagPower),
	}

	for m := 0; m < 12; m++ {
		est.Monthly = append(est.Monthly, data.MonthEnergy{
			Month:    time.Month(m + 1),
			KWh:      result.MonthlyKWh[m],
			BestTilt: bestTilts[m],
		})
	}

	fmt.Printf("Annual energy (tilt %.1f): %.0f kWh\n", sys.Tilt, est.AnnualKWh)
	fmt.Printf("Annual optimal tilt: %v deg (%.0f kWh)\n", optTilt, optKWh)
	fmt.Println("Monthly energy:")
	for _, m := range est.Monthly {
		fmt.Printf("  %-10v %8.1f kWh  (best tilt %v)\n",
			m.Month, m.KWh, m.BestTilt)
	}

	if est.Financial.Capex > 0 {
		f := est.Financial
		payback := "no payback within lifetime"
		if f.PaybackYears >= 0 {
			payback = fmt.Sprintf("payback %.1f years", f.PaybackYears)
		}
		fmt.Printf("Capex: %.0f %v, annual revenue: %.0f %v, %v, ROI: %.0f%%\n",
			f.Capex, f.Currency, f.AnnualRevenue, f.Currency,
			payback, f.ROIPct)
	}

	if *flagPDF != "" {
		f, err := os.Create(*flagPDF)
		if err != nil {
			log.Fatal("Error creating PDF file: ", err)
		}
		defer f.Close()

		if err := report.PDF(f, site, est); err != nil {
			log.Fatal("Error writing PDF report: ", err)
		}

		log.Println("Wrote PDF report: ", *flagPDF)
	}

	if *flagCSV != "" {
		f, err := os.Create(*flagCSV)
		if err != nil {
			log.Fatal("Error creating CSV file: ", err)
		}
		defer f.Close()

		if err := report.CSV(f, est); err != nil {
			log.Fatal("Error writing CSV report: ", err)
		}

		log.Println("Wrote CSV report: ", *flagCSV)
	}
}

func runFetch(args []string) {
	flags := flag.NewFlagSet("fetch", flag.ExitOnError)
	flagURL := flags.String("url", "", "URL of weather dataset to download")
	flagOut := flags.String("out", "", "destination file (default: weather dir)")

	if err := flags.Parse(args); err != nil {
		log.Fatal("error: ", err)
	}

	if *flagURL == "" {
		log.Fatal("Must set -url")
	}

	dest := *flagOut
	if dest == "" {
		dataDir := os.Getenv("SN_DATA")
		if dataDir == "" {
			dataDir = "./"
		}
		dest = path.Join(dataDir, "weather")
	}

	if err := weather.Download(*flagURL, dest); err != nil {
		log.Fatal("Error downloading weather data: ", err)
	}
}

func runStore(args []string) {
	defaultNatsServer := "nats://localhost:4222"
	flags := flag.NewFlagSet("store", flag.ExitOnError)
	flagNatsServer := flags.String("natsServer", defaultNatsServer, "NATS Server")
	flagAuthToken := flags.String("token", "", "Auth token")
	flagCheck := flags.Bool("check", false, "Check store")

	if err := flags.Parse(args); err != nil {
		log.Fatal("error: ", err)
	}

	// only consider env if command line option is something different
	// than default
	natsServer := *flagNatsServer
	if natsServer == defaultNatsServer {
		natsServerE := os.Getenv("SN_NATS_SERVER")
		if natsServerE != "" {
			natsServer = natsServerE
		}
	}

	nc, err := nats.Connect(natsServer, nats.Token(*flagAuthToken))
	if err != nil {
		log.Println("Error connecting to NATS server: ", err)
		os.Exit(-1)
	}
	defer nc.Close()

	switch {
	case *flagCheck:
		err := client.AdminStoreVerify(nc)
		if err != nil {
			log.Println("Store verify failed: ", err)
		} else {
			log.Println("Store verified :-)")
		}

	default:
		log.Println("Store command requires an action, options: -check")
	}
}
