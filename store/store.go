/*
Package store implements the NATS API of the server backed by a SQLite
database: site and estimate persistence, the default tariff,
authentication, and the estimate run pipeline (simulation -> finance ->
persist -> time-series export).
*/
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/solarninja/solarninja/api"
	"github.com/solarninja/solarninja/client"
	"github.com/solarninja/solarninja/data"
	"github.com/solarninja/solarninja/finance"
	"github.com/solarninja/solarninja/sim"
	"github.com/solarninja/solarninja/weather"
)

// Params are used to configure a store
type Params struct {
	File string
	Nc   *nats.Conn

	// WeatherDir is where downloaded weather CSV files live. Estimate
	// requests reference files in this directory by name.
	WeatherDir string

	// Influx enables time-series export of estimate runs when set
	Influx *InfluxConfig
}

// Store implements the Solar Ninja NATS api
type Store struct {
	params        Params
	nc            *nats.Conn
	subscriptions map[string]*nats.Subscription
	db            *DbSqlite
	authorizer    api.Authorizer
	influx        *Influx

	chStop      chan struct{}
	chWaitStart chan struct{}
}

// NewStore creates a new NATS client for handling store requests
func NewStore(p Params) (*Store, error) {
	db, err := NewSqliteDb(p.File)
	if err != nil {
		return nil, fmt.Errorf("error opening db: %v", err)
	}

	authorizer, err := api.NewKey(db.JWTKey())
	if err != nil {
		return nil, fmt.Errorf("error creating authorizer: %v", err)
	}

	var influx *Influx
	if p.Influx != nil {
		influx = NewInflux(p.Influx)
	}

	return &Store{
		params:        p,
		nc:            p.Nc,
		db:            db,
		authorizer:    authorizer,
		influx:        influx,
		subscriptions: make(map[string]*nats.Subscription),
		chStop:        make(chan struct{}),
		chWaitStart:   make(chan struct{}),
	}, nil
}

// GetAuthorizer returns a type that can be used in JWT Auth mechanisms
func (st *Store) GetAuthorizer() api.Authorizer {
	return st.authorizer
}

// Run connects the store to NATS and blocks until stopped
func (st *Store) Run() error {
	nc := st.nc

	subscribe := func(subject string, handler nats.MsgHandler) error {
		var err error
		st.subscriptions[subject], err = nc.Subscribe(subject, handler)
		if err != nil {
			return fmt.Errorf("subscribe %v error: %w", subject, err)
		}
		return nil
	}

	handlers := []struct {
		subject string
		handler nats.MsgHandler
	}{
		{client.SubjectSitesGet, st.handleSiteGet},
		{client.SubjectSitesSet, st.handleSiteSet},
		{client.SubjectSitesList, st.handleSiteList},
		{client.SubjectSitesDelete, st.handleSiteDelete},
		{client.SubjectEstimatesRun, st.handleEstimateRun},
		{client.SubjectEstimatesGet, st.handleEstimateGet},
		{client.SubjectEstimatesList, st.handleEstimateList},
		{client.SubjectTariffGet, st.handleTariffGet},
		{client.SubjectTariffSet, st.handleTariffSet},
		{client.SubjectAuthUser, st.handleAuthUser},
		{client.SubjectAdminStoreVerify, st.handleStoreVerify},
	}

	for _, h := range handlers {
		if err := subscribe(h.subject, h.handler); err != nil {
			return err
		}
	}

done:
	for {
		select {
		case <-st.chWaitStart:
			// don't need to do anything as simply reading this
			// channel will unblock the caller
		case <-st.chStop:
			log.Println("Store stopped")
			break done
		}
	}

	// clean up
	for k := range st.subscriptions {
		err := st.subscriptions[k].Unsubscribe()
		if err != nil {
			log.Printf("Error unsubscribing from %v: %v\n", k, err)
		}
	}

	if st.influx != nil {
		st.influx.Close()
	}

	return st.db.Close()
}

// Stop the store
func (st *Store) Stop(_ error) {
	close(st.chStop)
}

// WaitStart waits for store to start
func (st *Store) WaitStart(ctx context.Context) error {
	waitDone := make(chan struct{})

	go func() {
		// the following will block until the main store select
		// loop starts
		st.chWaitStart <- struct{}{}
		close(waitDone)
	}()

	select {
	case <-ctx.Done():
		return errors.New("Store wait timeout or canceled")
	case <-waitDone:
		// all is well
		return nil
	}
}

// Reset the store by permanently wiping all data
func (st *Store) Reset() error {
	return st.db.reset()
}

func (st *Store) reply(subject string, result any, err error) {
	if subject == "" {
		// requester is not expecting a reply
		return
	}

	e := st.nc.Publish(subject, client.EncodeResponse(result, err))
	if e != nil {
		log.Println("Error sending reply:", e)
	}
}

func (st *Store) handleSiteGet(msg *nats.Msg) {
	var req client.IDRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		st.reply(msg.Reply, nil, fmt.Errorf("error decoding site get: %v", err))
		return
	}

	site, err := st.db.siteGet(req.ID)
	st.reply(msg.Reply, site, err)
}

func (st *Store) handleSiteSet(msg *nats.Msg) {
	var site data.Site
	if err := json.Unmarshal(msg.Data, &site); err != nil {
		st.reply(msg.Reply, nil, fmt.Errorf("error decoding site: %v", err))
		return
	}

	if err := site.Validate(); err != nil {
		st.reply(msg.Reply, nil, err)
		return
	}

	site, err := st.db.siteSet(site)
	if err != nil {
		log.Println("Error writing site to db:", err)
	}

	st.reply(msg.Reply, site, err)
}

func (st *Store) handleSiteList(msg *nats.Msg) {
	sites, err := st.db.siteList()
	st.reply(msg.Reply, sites, err)
}

func (st *Store) handleSiteDelete(msg *nats.Msg) {
	var req client.IDRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		st.reply(msg.Reply, nil, fmt.Errorf("error decoding site delete: %v", err))
		return
	}

	st.reply(msg.Reply, nil, st.db.siteDelete(req.ID))
}

// loadWeather resolves a weather file named by an estimate request.
// Names are restricted to the weather directory.
func (st *Store) loadWeather(name string) (*weather.Series, error) {
	if strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return nil, fmt.Errorf("invalid weather file name: %v", name)
	}

	if st.params.WeatherDir == "" {
		return nil, errors.New("server has no weather directory configured")
	}

	return weather.LoadFile(filepath.Join(st.params.WeatherDir, name))
}

func (st *Store) runEstimate(req data.EstimateRequest) (data.Estimate, *sim.Result, error) {
	var est data.Estimate

	req.SetDefaults()

	if err := req.Validate(); err != nil {
		return est, nil, err
	}

	site, err := st.db.siteGet(req.SiteID)
	if err != nil {
		return est, nil, err
	}

	weatherSource := "clearsky"
	var series *weather.Series

	if req.WeatherFile != "" {
		series, err = st.loadWeather(req.WeatherFile)
		if err != nil {
			return est, nil, err
		}
		weatherSource = req.WeatherFile
	}

	start := time.Now()

	s, err := sim.NewSimulator(site, req.System, req.Year, series)
	if err != nil {
		return est, nil, err
	}

	result := s.Run()
	optTilt, optKWh := s.OptimalTilt()
	bestTilts := s.MonthlyBestTilts()

	tariff := req.Tariff
	if tariff == nil {
		t, err := st.db.tariffGet()
		if err != nil {
			return est, nil, fmt.Errorf("error loading default tariff: %v", err)
		}
		tariff = &t
	}

	est = data.Estimate{
		ID:            uuid.New().String(),
		SiteID:        site.ID,
		Created:       time.Now().UTC(),
		System:        req.System,
		Year:          req.Year,
		AnnualKWh:     result.AnnualKWh,
		OptimalTilt:   optTilt,
		OptimalKWh:    optKWh,
		WeatherSource: weatherSource,
		Financial: finance.Evaluate(*tariff, result.AnnualKWh,
			req.CapexPerKW*req.System.PowerKW),
	}

	for m := 0; m < 12; m++ {
		est.Monthly = append(est.Monthly, data.MonthEnergy{
			Month:    time.Month(m + 1),
			KWh:      result.MonthlyKWh[m],
			BestTilt: bestTilts[m],
		})
	}

	if err := st.db.estimateSave(est); err != nil {
		return est, nil, err
	}

	log.Printf("ESTIMATE: site %v, year %v: %.0f kWh, optimal tilt %v (took %v)\n",
		site.ID, req.Year, est.AnnualKWh, optTilt, time.Since(start))

	return est, result, nil
}

func (st *Store) handleEstimateRun(msg *nats.Msg) {
	var req data.EstimateRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		st.reply(msg.Reply, nil, fmt.Errorf("error decoding estimate request: %v", err))
		return
	}

	est, result, err := st.runEstimate(req)
	st.reply(msg.Reply, est, err)

	if err == nil && st.influx != nil {
		// WriteAPI buffers and flushes in the background
		st.influx.WriteEstimate(est, result)
	}
}

func (st *Store) handleEstimateGet(msg *nats.Msg) {
	var req client.IDRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		st.reply(msg.Reply, nil, fmt.Errorf("error decoding estimate get: %v", err))
		return
	}

	est, err := st.db.estimateGet(req.ID)
	st.reply(msg.Reply, est, err)
}

func (st *Store) handleEstimateList(msg *nats.Msg) {
	var req client.EstimateListRequest
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			st.reply(msg.Reply, nil, fmt.Errorf("error decoding estimate list: %v", err))
			return
		}
	}

	ests, err := st.db.estimateList(req.SiteID)
	st.reply(msg.Reply, ests, err)
}

func (st *Store) handleTariffGet(msg *nats.Msg) {
	tariff, err := st.db.tariffGet()
	st.reply(msg.Reply, tariff, err)
}

func (st *Store) handleTariffSet(msg *nats.Msg) {
	var tariff data.Tariff
	if err := json.Unmarshal(msg.Data, &tariff); err != nil {
		st.reply(msg.Reply, nil, fmt.Errorf("error decoding tariff: %v", err))
		return
	}

	tariff.SetDefaults()

	if err := tariff.Validate(); err != nil {
		st.reply(msg.Reply, nil, err)
		return
	}

	st.reply(msg.Reply, nil, st.db.tariffSet(tariff))
}

func (st *Store) handleAuthUser(msg *nats.Msg) {
	var req client.UserAuthRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		st.reply(msg.Reply, nil, fmt.Errorf("error decoding auth request: %v", err))
		return
	}

	user, err := st.db.userCheck(req.Email, req.Pass)
	if err != nil {
		st.reply(msg.Reply, nil, err)
		return
	}

	if user == nil {
		st.reply(msg.Reply, nil, errors.New("invalid login"))
		return
	}

	token, err := st.authorizer.NewToken(user.ID)
	if err != nil {
		st.reply(msg.Reply, nil, err)
		return
	}

	st.reply(msg.Reply, data.Auth{Token: token, Email: user.Email}, nil)
}

func (st *Store) handleStoreVerify(msg *nats.Msg) {
	st.reply(msg.Reply, nil, st.db.verify())
}
