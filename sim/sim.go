/*
Package sim runs hourly PV production simulations: a year of clearsky
(or measured) irradiance projected onto a tilted panel, aggregated to
monthly and annual energy, plus tilt optimization.
*/
package sim

import (
	"fmt"
	"time"

	"github.com/solarninja/solarninja/data"
	"github.com/solarninja/solarninja/solar"
	"github.com/solarninja/solarninja/weather"
)

// Result holds the output of a production simulation
type Result struct {
	// Times of each simulation step (hourly, UTC)
	Times []time.Time

	// HourlyKWh is energy generated in each step
	HourlyKWh []float64

	// MonthlyKWh is energy per month (Jan..Dec)
	MonthlyKWh [12]float64

	AnnualKWh float64
}

// Simulator precomputes sun positions and horizontal irradiance for a
// site and year so repeated tilt evaluations (the optimizer sweep) only
// redo the surface projection.
type Simulator struct {
	site data.Site
	sys  data.System
	year int

	times []time.Time
	pos   []solar.Position
	ghi   []float64
}

// Times returns hourly UTC timestamps covering the given year
func Times(year int) []time.Time {
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year+1, 1, 1, 0, 0, 0, 0, time.UTC)

	ret := make([]time.Time, 0, 8784)
	for t := start; t.Before(end); t = t.Add(time.Hour) {
		ret = append(ret, t)
	}

	return ret
}

// NewSimulator creates a simulator for a site and system. If series is
// not nil, it replaces the clearsky model as the GHI input and must
// cover the simulation year hour for hour.
func NewSimulator(site data.Site, sys data.System, year int,
	series *weather.Series) (*Simulator, error) {

	sys.SetDefaults()

	if err := site.Validate(); err != nil {
		return nil, err
	}

	if err := sys.Validate(); err != nil {
		return nil, err
	}

	s := &Simulator{
		site:  site,
		sys:   sys,
		year:  year,
		times: Times(year),
	}

	if series != nil && series.Len() < len(s.times) {
		return nil, fmt.Errorf(
			"weather series too short: have %v samples, need %v",
			series.Len(), len(s.times))
	}

	s.pos = make([]solar.Position, len(s.times))
	s.ghi = make([]float64, len(s.times))

	for i, t := range s.times {
		s.pos[i] = solar.SunPosition(t, site.Lat, site.Lon)

		if series != nil {
			// index alignment is what attributes a GHI sample to a
			// sun position, so timestamps must match exactly
			if !series.Times[i].Equal(t) {
				return nil, fmt.Errorf(
					"weather series misaligned at sample %v: have %v, want %v",
					i, series.Times[i], t)
			}
			s.ghi[i] = series.GHI[i]
		} else {
			s.ghi[i] = solar.ClearskyGHI(t, s.pos[i],
				site.Altitude, site.Turbidity(t.Month()))
		}
	}

	return s, nil
}

// Run simulates production at the configured system tilt
func (s *Simulator) Run() *Result {
	return s.runTilt(s.sys.Tilt)
}

func (s *Simulator) runTilt(tilt float64) *Result {
	ret := &Result{
		Times:     s.times,
		HourlyKWh: make([]float64, len(s.times)),
	}

	for i, t := range s.times {
		cos := solar.CosAOI(tilt, s.sys.Azimuth, s.pos[i])
		poa := solar.POAPowerKW(s.ghi[i], cos, s.sys.Losses)

		// hourly steps, so power in kW == energy in kWh
		e := poa * s.sys.PowerKW

		ret.HourlyKWh[i] = e
		ret.MonthlyKWh[int(t.Month())-1] += e
		ret.AnnualKWh += e
	}

	return ret
}

func (s *Simulator) cosAOI(tilt float64, i int) float64 {
	return solar.CosAOI(tilt, s.sys.Azimuth, s.pos[i])
}

// annualKWh is a cheaper Run for the optimizer sweep
func (s *Simulator) annualKWh(tilt float64) float64 {
	var ret float64

	for i := range s.times {
		cos := solar.CosAOI(tilt, s.sys.Azimuth, s.pos[i])
		ret += solar.POAPowerKW(s.ghi[i], cos, s.sys.Losses) * s.sys.PowerKW
	}

	return ret
}
