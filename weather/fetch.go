package weather

import (
	"log"
	"time"

	"github.com/cavaliercoder/grab"
	"github.com/pkg/errors"
)

// Download fetches a weather dataset over HTTP to the given destination
// file. Progress is logged once a second -- datasets can be large and
// connections slow.
func Download(url, dest string) error {
	client := grab.NewClient()

	req, err := grab.NewRequest(dest, url)
	if err != nil {
		return errors.Wrap(err, "error creating download request")
	}

	resp := client.Do(req)

	t := time.NewTicker(time.Second)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			log.Printf("Weather download: %.02f%% complete, %.02f B/sec\n",
				resp.Progress()*100,
				resp.BytesPerSecond())

		case <-resp.Done:
			if err := resp.Err(); err != nil {
				return errors.Wrap(err, "error downloading weather data")
			}

			log.Println("Weather download finished:", resp.Filename)
			return nil
		}
	}
}
