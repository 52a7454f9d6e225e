package store

import (
	"log"
	"os"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxapi "github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/solarninja/solarninja/data"
	"github.com/solarninja/solarninja/sim"
)

// InfluxConfig represents an influxdb config
type InfluxConfig struct {
	URL    string
	Token  string
	Org    string
	Bucket string
}

// InfluxConfigFromEnv builds an influx config from SN_INFLUX_*
// environment variables. Returns nil if no URL is set.
func InfluxConfigFromEnv() *InfluxConfig {
	url := os.Getenv("SN_INFLUX_URL")
	if url == "" {
		return nil
	}

	return &InfluxConfig{
		URL:    url,
		Token:  os.Getenv("SN_INFLUX_TOKEN"),
		Org:    os.Getenv("SN_INFLUX_ORG"),
		Bucket: os.Getenv("SN_INFLUX_BUCKET"),
	}
}

// Influx represents an influxdb that we can write time series to
type Influx struct {
	config   InfluxConfig
	client   influxdb2.Client
	writeAPI influxapi.WriteAPI
}

// NewInflux creates an influx helper client
func NewInflux(config *InfluxConfig) *Influx {
	log.Println("Setting up influxdb client:", config.URL)

	client := influxdb2.NewClient(config.URL, config.Token)

	return &Influx{
		config:   *config,
		client:   client,
		writeAPI: client.WriteAPI(config.Org, config.Bucket),
	}
}

// WriteEstimate exports the hourly energy series of an estimate run.
// Writes are buffered and flushed in the background by the write API.
func (i *Influx) WriteEstimate(est data.Estimate, result *sim.Result) {
	for j, t := range result.Times {
		p := influxdb2.NewPoint("energy",
			map[string]string{
				"siteID":     est.SiteID,
				"estimateID": est.ID,
				"source":     est.WeatherSource,
			},
			map[string]interface{}{
				"kwh": result.HourlyKWh[j],
			},
			t)
		i.writeAPI.WritePoint(p)
	}

	log.Printf("INFLUX: queued %v points for estimate %v\n",
		len(result.Times), est.ID)
}

// Close influx client
func (i *Influx) Close() {
	i.writeAPI.Flush()
	i.client.Close()
}
