package server

import (
	"flag"
	"log"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/solarninja/solarninja/store"
)

// Args parses common Solar Ninja command line options
func Args(args []string, flags *flag.FlagSet) (Options, error) {
	defaultNatsServer := "nats://127.0.0.1:4222"

	// =============================================
	// Command line options
	// =============================================
	if flags == nil {
		flags = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	}

	flagDebugHTTP := flags.Bool("debugHttp", false, "dump http requests")
	flagDebugLifecycle := flags.Bool("debugLifecycle", false, "debug program lifecycle")
	flagNatsServer := flags.String("natsServer", defaultNatsServer, "NATS Server")
	flagNatsDisableServer := flags.Bool("natsDisableServer", false,
		"disable NATS server (if you want to run NATS separately)")
	flagStore := flags.String("store", "solarninja.sqlite",
		"store file, default solarninja.sqlite")
	flagResetStore := flags.Bool("resetStore", false,
		"permanently wipe data in store at start-up")
	flagAuthToken := flags.String("token", "", "auth token")
	flagDisableAuth := flags.Bool("disableAuth", false,
		"disable API authentication (development only)")
	flagHTTPPort := flags.String("httpPort", "8080", "HTTP API port")
	flagSiteConfig := flags.String("siteConfig", "",
		"YAML file with sites/tariff to import at startup")
	flagTariffFile := flags.String("tariffFile", "",
		"YAML tariff file to watch for changes")
	flagMetricsPeriod := flags.Int("metricsPeriod", 0,
		"period in seconds to publish system metrics, 0 disables")

	if err := flags.Parse(args); err != nil {
		return Options{}, err
	}

	// =============================================
	// General Setup
	// =============================================

	dataDir := os.Getenv("SN_DATA")
	if dataDir == "" {
		dataDir = "./"
	}

	storeFilePath := path.Join(dataDir, *flagStore)
	weatherDir := path.Join(dataDir, "weather")

	if err := os.MkdirAll(weatherDir, 0755); err != nil {
		log.Println("Error creating weather dir:", err)
		os.Exit(-1)
	}

	// =============================================
	// NATS stuff
	// =============================================

	natsPort := 4222

	natsPortE := os.Getenv("SN_NATS_PORT")
	if natsPortE != "" {
		n, err := strconv.Atoi(natsPortE)
		if err != nil {
			log.Println("Error parsing SN_NATS_PORT:", err)
			os.Exit(-1)
		}
		natsPort = n
	}

	natsHTTPPort := 8222

	natsHTTPPortE := os.Getenv("SN_NATS_HTTP_PORT")
	if natsHTTPPortE != "" {
		n, err := strconv.Atoi(natsHTTPPortE)
		if err != nil {
			log.Println("Error parsing SN_NATS_HTTP_PORT:", err)
			os.Exit(-1)
		}
		natsHTTPPort = n
	}

	natsServer := *flagNatsServer
	// only consider env if command line option is something different
	// than default
	if natsServer == defaultNatsServer {
		natsServerE := os.Getenv("SN_NATS_SERVER")
		if natsServerE != "" {
			natsServer = natsServerE
		}
	}

	natsTLSCert := os.Getenv("SN_NATS_TLS_CERT")
	natsTLSKey := os.Getenv("SN_NATS_TLS_KEY")
	natsTLSTimeoutS := os.Getenv("SN_NATS_TLS_TIMEOUT")

	natsTLSTimeout := 0.5

	if natsTLSTimeoutS != "" {
		var err error
		natsTLSTimeout, err = strconv.ParseFloat(natsTLSTimeoutS, 64)
		if err != nil {
			log.Println("Error parsing SN_NATS_TLS_TIMEOUT:", err)
			os.Exit(-1)
		}
	}

	authToken := *flagAuthToken
	if authToken == "" {
		authToken = os.Getenv("SN_AUTH_TOKEN")
	}

	httpPort := *flagHTTPPort
	if httpPort == "8080" {
		httpPortE := os.Getenv("SN_HTTP_PORT")
		if httpPortE != "" {
			httpPort = httpPortE
		}
	}

	return Options{
		StoreFile:         storeFilePath,
		ResetStore:        *flagResetStore,
		DataDir:           dataDir,
		HTTPPort:          httpPort,
		DebugHTTP:         *flagDebugHTTP,
		DebugLifecycle:    *flagDebugLifecycle,
		DisableAuth:       *flagDisableAuth,
		NatsServer:        natsServer,
		NatsDisableServer: *flagNatsDisableServer,
		NatsPort:          natsPort,
		NatsHTTPPort:      natsHTTPPort,
		NatsTLSCert:       natsTLSCert,
		NatsTLSKey:        natsTLSKey,
		NatsTLSTimeout:    natsTLSTimeout,
		AuthToken:         authToken,
		SiteConfig:        *flagSiteConfig,
		TariffFile:        *flagTariffFile,
		WeatherDir:        weatherDir,
		MetricsPeriod:     time.Duration(*flagMetricsPeriod) * time.Second,
		Influx:            store.InfluxConfigFromEnv(),
	}, nil
}
