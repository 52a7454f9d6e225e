/*
Package server wires the pieces of a Solar Ninja instance together: an
embedded NATS server, the store, the HTTP API, and any attached
clients, all managed as one run group.
*/
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/oklog/run"

	"github.com/solarninja/solarninja/api"
	"github.com/solarninja/solarninja/client"
	"github.com/solarninja/solarninja/data"
	"github.com/solarninja/solarninja/store"
)

// ErrServerStopped is returned when the server is stopped
var ErrServerStopped = errors.New("Server stopped")

// Options used for starting Solar Ninja
type Options struct {
	StoreFile         string
	ResetStore        bool
	DataDir           string
	HTTPPort          string
	DebugHTTP         bool
	DebugLifecycle    bool
	DisableAuth       bool
	NatsServer        string
	NatsDisableServer bool
	NatsPort          int
	NatsHTTPPort      int
	NatsTLSCert       string
	NatsTLSKey        string
	NatsTLSTimeout    float64
	AuthToken         string
	AppVersion        string

	// SiteConfig is an optional YAML file with sites and a default
	// tariff imported after the store starts
	SiteConfig string

	// TariffFile is an optional YAML file watched for tariff changes
	TariffFile string

	// WeatherDir is where downloaded weather datasets live
	WeatherDir string

	// MetricsPeriod is how often system metrics are published; 0
	// disables the metrics client
	MetricsPeriod time.Duration

	// Influx enables time-series export when set
	Influx *store.InfluxConfig
}

// Server represents a Solar Ninja server process
type Server struct {
	nc                 *nats.Conn
	options            Options
	natsServer         *server.Server
	clients            *client.RunGroup
	chNatsClientClosed chan struct{}
	chStop             chan struct{}
	chWaitStart        chan struct{}
}

// NewServer creates a new server
func NewServer(o Options) (*Server, *nats.Conn, error) {
	chNatsClientClosed := make(chan struct{})

	// start the server side nats client
	nc, err := nats.Connect(o.NatsServer,
		nats.Timeout(10*time.Second),
		nats.PingInterval(60*5*time.Second),
		nats.MaxPingsOutstanding(5),
		nats.ReconnectBufSize(5*1024*1024),
		nats.SetCustomDialer(&net.Dialer{
			KeepAlive: -1,
		}),
		nats.Token(o.AuthToken),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ErrorHandler(func(_ *nats.Conn,
			sub *nats.Subscription, err error) {
			var subject string
			if sub != nil {
				subject = sub.Subject
			}
			log.Printf("Server NATS client error, sub: %v, err: %s\n", subject, err)
		}),
		nats.CustomReconnectDelay(func(attempts int) time.Duration {
			log.Println("Server NATS client reconnect attempt #", attempts)
			return time.Millisecond * 250
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Println("Server NATS client: reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			log.Println("Server NATS client: closed")
			close(chNatsClientClosed)
		}),
		nats.ConnectHandler(func(_ *nats.Conn) {
			log.Println("Server NATS client: connected")
		}),
	)

	return &Server{
		nc:                 nc,
		options:            o,
		chNatsClientClosed: chNatsClientClosed,
		chStop:             make(chan struct{}),
		chWaitStart:        make(chan struct{}),
		clients:            client.NewRunGroup("Server clients"),
	}, nc, err
}

// AddClient can be used to add clients to the server.
// Clients must be added before start is called. The
// Server makes sure all clients are shut down before
// shutting down the server. This makes for a cleaner
// shutdown.
func (s *Server) AddClient(client client.RunStop) {
	s.clients.Add(client)
}

// Run the server -- only returns if there is an error
func (s *Server) Run() error {
	var g run.Group

	logLS := func(m ...any) {}

	if s.options.DebugLifecycle {
		logLS = func(m ...any) {
			log.Println(m...)
		}
	}

	o := s.options

	var err error

	// anything that needs to use the store or nats server should add to this
	// wait group. The store will wait on this before shutting down
	var storeWg sync.WaitGroup

	// ====================================
	// Nats server
	// ====================================
	natsOptions := natsServerOptions{
		Port:       o.NatsPort,
		HTTPPort:   o.NatsHTTPPort,
		Auth:       o.AuthToken,
		TLSCert:    o.NatsTLSCert,
		TLSKey:     o.NatsTLSKey,
		TLSTimeout: o.NatsTLSTimeout,
	}

	if !o.NatsDisableServer {
		s.natsServer, err = newNatsServer(natsOptions)
		if err != nil {
			return fmt.Errorf("Error setting up nats server: %v", err)
		}

		g.Add(func() error {
			s.natsServer.Start()
			s.natsServer.WaitForShutdown()
			logLS("LS: Exited: nats server")
			return fmt.Errorf("NATS server stopped")
		}, func(err error) {
			go func() {
				storeWg.Wait()
				s.natsServer.Shutdown()
				logLS("LS: Shutdown: nats server")
			}()
		})
	}

	// ====================================
	// Store
	// ====================================

	storeParams := store.Params{
		File:       o.StoreFile,
		Nc:         s.nc,
		WeatherDir: o.WeatherDir,
		Influx:     o.Influx,
	}

	snStore, err := store.NewStore(storeParams)

	if err != nil {
		log.Fatal("Error creating store: ", err)
	}

	if o.ResetStore {
		if err := snStore.Reset(); err != nil {
			log.Fatal("Error resetting store:", err)
		}
	}

	storeWaitCtx, storeWaitCancel := context.WithTimeout(context.Background(), time.Second*10)

	g.Add(func() error {
		err := snStore.Run()
		logLS("LS: Exited: store")
		return err
	}, func(err error) {
		// run in a goroutine else this Stop blocking will block everything else
		go func() {
			storeWg.Wait()
			storeWaitCancel()
			snStore.Stop(err)
			logLS("LS: Shutdown: store")
		}()
	})

	// ====================================
	// Site config import
	// ====================================

	if o.SiteConfig != "" {
		chImportDone := make(chan struct{})
		storeWg.Add(1)
		g.Add(func() error {
			defer storeWg.Done()
			err := snStore.WaitStart(storeWaitCtx)
			if err != nil {
				logLS("LS: Exited: import timeout waiting for store")
				return err
			}

			if err := importSiteConfig(s.nc, o.SiteConfig); err != nil {
				logLS("LS: Exited: site config import")
				return fmt.Errorf("Error importing site config: %v", err)
			}

			<-chImportDone
			logLS("LS: Exited: site config import")
			return nil
		}, func(err error) {
			close(chImportDone)
			logLS("LS: Shutdown: site config import")
		})
	}

	// ====================================
	// Built in clients
	// ====================================

	if o.MetricsPeriod > 0 {
		s.AddClient(client.NewMetricsClient(s.nc, o.MetricsPeriod))
	}

	if o.TariffFile != "" {
		s.AddClient(client.NewTariffWatcher(s.nc, o.TariffFile))
	}

	storeWg.Add(1)
	g.Add(func() error {
		defer storeWg.Done()
		err := snStore.WaitStart(storeWaitCtx)
		if err != nil {
			logLS("LS: Exited: client manager timeout waiting for store")
			return err
		}

		err = s.clients.Run()
		logLS("LS: Exited: clients manager: ", err)
		return err
	}, func(err error) {
		s.clients.Stop(err)
		logLS("LS: Shutdown: clients manager")
	})

	// ====================================
	// HTTP API
	// ====================================

	var auth api.Authorizer = snStore.GetAuthorizer()
	if o.DisableAuth {
		auth = api.AlwaysValid{}
	}

	httpAPI := api.NewServer(api.ServerArgs{
		Port:    o.HTTPPort,
		Debug:   o.DebugHTTP,
		JwtAuth: auth,
		Nc:      s.nc,
	})

	g.Add(func() error {
		err := httpAPI.Start()
		logLS("LS: Exited: http api")
		return err
	}, func(err error) {
		httpAPI.Stop(err)
		logLS("LS: Shutdown: http api")
	})

	// Give us a way to stop the server
	// and signal to waiters we have started
	chShutdown := make(chan struct{})
	g.Add(func() error {
		err := snStore.WaitStart(storeWaitCtx)
		if err != nil {
			logLS("LS: Exited: server stopper, timeout waiting for store")
			return err
		}

		select {
		case <-s.chStop:
			logLS("LS: Exited: stop handler")
			return ErrServerStopped
		case <-chShutdown:
			logLS("LS: Exited: stop handler")
			return nil
		}
	}, func(_ error) {
		close(chShutdown)
		logLS("LS: Shutdown: stop handler")
	})

	chRunError := make(chan error)

	go func() {
		chRunError <- g.Run()
	}()

	var retErr error

done:
	for {
		select {
		// unblock any waits
		case <-s.chWaitStart:
			// No-op, reading channel is enough to unblock wait
		case retErr = <-chRunError:
			break done
		}
	}

	s.nc.Close()

	return retErr
}

// Stop server
func (s *Server) Stop(_ error) {
	close(s.chStop)
}

// WaitStart waits for server to start. Clients should wait for this
// to complete before trying to fetch sites, etc.
func (s *Server) WaitStart(ctx context.Context) error {
	waitDone := make(chan struct{})

	go func() {
		s.chWaitStart <- struct{}{}
		close(waitDone)
	}()

	select {
	case <-ctx.Done():
		return errors.New("Server wait timeout or canceled")
	case <-waitDone:
		return nil
	}
}

// importSiteConfig seeds sites and the default tariff from a YAML
// file. Sites without an id are matched against existing sites by
// description, so re-running the import on restart updates instead of
// duplicating.
func importSiteConfig(nc *nats.Conn, file string) error {
	config, err := data.LoadConfig(file)
	if err != nil {
		return err
	}

	existing, err := client.SiteList(nc)
	if err != nil {
		return fmt.Errorf("error listing sites: %v", err)
	}

	byDescription := make(map[string]string)
	for _, s := range existing {
		byDescription[s.Description] = s.ID
	}

	for _, site := range config.Sites {
		if site.ID == "" {
			site.ID = byDescription[site.Description]
		}

		_, err := client.SiteSet(nc, site)
		if err != nil {
			return fmt.Errorf("error importing site %v: %v", site.Description, err)
		}
	}

	if config.Tariff != nil {
		if err := client.TariffSet(nc, *config.Tariff); err != nil {
			return fmt.Errorf("error importing tariff: %v", err)
		}
	}

	log.Printf("Imported %v site(s) from %v\n", len(config.Sites), file)

	return nil
}
