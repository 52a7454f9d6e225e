/*
Package weather loads measured hourly irradiance datasets that can be
used in place of the clearsky model, and can download them over HTTP.

The file format is a simple hourly CSV: a "time,ghi" header followed by
RFC3339 timestamps and GHI values in W/m^2.
*/
package weather

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Series is an hourly GHI time series
type Series struct {
	Times []time.Time
	GHI   []float64
}

// Len returns the number of samples in the series
func (s *Series) Len() int {
	return len(s.Times)
}

// ParseCSV reads an hourly GHI series from CSV data
func ParseCSV(r io.Reader) (*Series, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "error reading weather header")
	}

	if len(header) < 2 || header[0] != "time" || header[1] != "ghi" {
		return nil, errors.Errorf("unexpected weather header: %v", header)
	}

	ret := &Series{}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "error reading weather line %v", line)
		}

		t, err := time.Parse(time.RFC3339, rec[0])
		if err != nil {
			return nil, errors.Wrapf(err, "error parsing time on line %v", line)
		}

		ghi, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "error parsing ghi on line %v", line)
		}

		if ghi < 0 {
			ghi = 0
		}

		ret.Times = append(ret.Times, t.UTC())
		ret.GHI = append(ret.GHI, ghi)
	}

	if ret.Len() == 0 {
		return nil, errors.New("weather file has no samples")
	}

	return ret, nil
}

// LoadFile reads an hourly GHI series from a CSV file
func LoadFile(file string) (*Series, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, errors.Wrap(err, "error opening weather file")
	}
	defer f.Close()

	return ParseCSV(f)
}
