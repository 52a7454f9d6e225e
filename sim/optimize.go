package sim

import (
	"runtime"
	"sync"
)

// tilt sweep range in integer degrees
const (
	tiltMin = 0
	tiltMax = 90
)

// OptimalTilt sweeps integer tilts and returns the tilt that maximizes
// annual energy, along with the energy at that tilt. The sweep is
// spread across worker goroutines -- each tilt is a full year of
// surface projections.
func (s *Simulator) OptimalTilt() (int, float64) {
	annual := make([]float64, tiltMax+1)

	tilts := make(chan int)
	var wg sync.WaitGroup

	workers := runtime.NumCPU()
	if workers > tiltMax {
		workers = tiltMax
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for tilt := range tilts {
				annual[tilt] = s.annualKWh(float64(tilt))
			}
		}()
	}

	for tilt := tiltMin; tilt <= tiltMax; tilt++ {
		tilts <- tilt
	}
	close(tilts)
	wg.Wait()

	best := tiltMin
	for tilt, e := range annual {
		if e > annual[best] {
			best = tilt
		}
	}

	return best, annual[best]
}

// MonthlyBestTilts returns the analytic optimal tilt per month: the
// tilt maximizing the monthly mean of cos(AOI), independent of
// irradiance magnitude.
func (s *Simulator) MonthlyBestTilts() [12]int {
	// mean cos(AOI) per month for each tilt
	var sums [tiltMax + 1][12]float64

	var wg sync.WaitGroup
	tilts := make(chan int)

	workers := runtime.NumCPU()
	if workers > tiltMax {
		workers = tiltMax
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for tilt := range tilts {
				for i, t := range s.times {
					sums[tilt][int(t.Month())-1] +=
						s.cosAOI(float64(tilt), i)
				}
			}
		}()
	}

	for tilt := tiltMin; tilt <= tiltMax; tilt++ {
		tilts <- tilt
	}
	close(tilts)
	wg.Wait()

	// month lengths are equal across tilts, so comparing sums is the
	// same as comparing means
	var ret [12]int
	for m := 0; m < 12; m++ {
		best := tiltMin
		for tilt := tiltMin; tilt <= tiltMax; tilt++ {
			if sums[tilt][m] > sums[best][m] {
				best = tilt
			}
		}
		ret[m] = best
	}

	return ret
}
