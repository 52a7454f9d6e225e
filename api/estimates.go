package api

import (
	"fmt"
	"net/http"

	"github.com/nats-io/nats.go"
	"github.com/solarninja/solarninja/client"
	"github.com/solarninja/solarninja/data"
	"github.com/solarninja/solarninja/report"
)

// Estimates handles estimate requests
type Estimates struct {
	nc *nats.Conn
}

// NewEstimatesHandler returns a new handler for estimate requests
func NewEstimatesHandler(nc *nats.Conn) http.Handler {
	return &Estimates{nc: nc}
}

// ServeHTTP serves estimate requests
func (h *Estimates) ServeHTTP(res http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		http.Error(res, "invalid method", http.StatusMethodNotAllowed)
		return
	}

	var id string
	id, req.URL.Path = ShiftPath(req.URL.Path)

	if id == "" {
		ests, err := client.EstimateList(h.nc, req.URL.Query().Get("site"))
		if err != nil {
			http.Error(res, err.Error(), http.StatusInternalServerError)
			return
		}
		encode(res, ests)
		return
	}

	est, err := client.EstimateGet(h.nc, id)
	if err == data.ErrEstimateNotFound {
		http.Error(res, err.Error(), http.StatusNotFound)
		return
	}

	if err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
		return
	}

	var head string
	head, req.URL.Path = ShiftPath(req.URL.Path)

	switch head {
	case "":
		encode(res, est)

	case "report":
		site, err := client.SiteGet(h.nc, est.SiteID)
		if err != nil {
			http.Error(res, err.Error(), http.StatusInternalServerError)
			return
		}

		res.Header().Set("Content-Type", "application/pdf")
		res.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", "estimate-"+est.ID+".pdf"))

		if err := report.PDF(res, site, est); err != nil {
			http.Error(res, err.Error(), http.StatusInternalServerError)
		}

	case "report.csv":
		res.Header().Set("Content-Type", "text/csv")
		res.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", "estimate-"+est.ID+".csv"))

		if err := report.CSV(res, est); err != nil {
			http.Error(res, err.Error(), http.StatusInternalServerError)
		}

	default:
		http.Error(res, "Not Found", http.StatusNotFound)
	}
}
