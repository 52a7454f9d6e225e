package client

import (
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/nats-io/nats.go"
	"github.com/solarninja/solarninja/data"
)

// TariffGet fetches the default tariff used when estimate requests do
// not carry one
func TariffGet(nc *nats.Conn) (data.Tariff, error) {
	var ret data.Tariff
	err := request(nc, SubjectTariffGet, nil, requestTimeout, &ret)
	return ret, err
}

// TariffSet stores the default tariff
func TariffSet(nc *nats.Conn, tariff data.Tariff) error {
	return request(nc, SubjectTariffSet, tariff, requestTimeout, nil)
}

// TariffWatcher watches a YAML config file and pushes the tariff it
// contains to the store whenever the file changes. Feed-in rates get
// adjusted by regulators, so operators edit the file in place.
type TariffWatcher struct {
	nc   *nats.Conn
	file string
	stop chan struct{}
}

// NewTariffWatcher creates a watcher for the given config file
func NewTariffWatcher(nc *nats.Conn, file string) *TariffWatcher {
	return &TariffWatcher{
		nc:   nc,
		file: file,
		stop: make(chan struct{}),
	}
}

func (tw *TariffWatcher) push() {
	config, err := data.LoadConfig(tw.file)
	if err != nil {
		log.Println("TariffWatcher: error loading config: ", err)
		return
	}

	if config.Tariff == nil {
		log.Println("TariffWatcher: config has no tariff: ", tw.file)
		return
	}

	err = TariffSet(tw.nc, *config.Tariff)
	if err != nil {
		log.Println("TariffWatcher: error setting tariff: ", err)
		return
	}

	log.Printf("TariffWatcher: tariff updated, rate %v %v/kWh\n",
		config.Tariff.RatePerKWh, config.Tariff.Currency)
}

// Run the watcher until stopped
func (tw *TariffWatcher) Run() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// watch the directory -- editors typically rename over the file,
	// which drops a watch on the file itself
	err = watcher.Add(filepath.Dir(tw.file))
	if err != nil {
		return err
	}

	// push initial state
	tw.push()

	for {
		select {
		case <-tw.stop:
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != filepath.Clean(tw.file) {
				continue
			}

			if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) {
				tw.push()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Println("TariffWatcher: watch error: ", err)
		}
	}
}

// Stop the watcher
func (tw *TariffWatcher) Stop(_ error) {
	close(tw.stop)
}
