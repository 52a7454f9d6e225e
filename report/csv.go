package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/solarninja/solarninja/data"
)

// CSV writes the monthly energy table of an estimate
func CSV(w io.Writer, est data.Estimate) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"month", "kwh", "best_tilt"}); err != nil {
		return err
	}

	for _, m := range est.Monthly {
		rec := []string{
			m.Month.String(),
			strconv.FormatFloat(m.KWh, 'f', 2, 64),
			strconv.Itoa(m.BestTilt),
		}

		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
