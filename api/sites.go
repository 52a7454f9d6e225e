package api

import (
	"net/http"

	"github.com/nats-io/nats.go"
	"github.com/solarninja/solarninja/client"
	"github.com/solarninja/solarninja/data"
)

// Sites handles site requests
type Sites struct {
	nc *nats.Conn
}

// NewSitesHandler returns a new handler for site requests
func NewSitesHandler(nc *nats.Conn) http.Handler {
	return &Sites{nc: nc}
}

// ServeHTTP serves site requests
func (h *Sites) ServeHTTP(res http.ResponseWriter, req *http.Request) {
	var id string
	id, req.URL.Path = ShiftPath(req.URL.Path)

	if id == "" {
		switch req.Method {
		case http.MethodGet:
			h.list(res, req)
		case http.MethodPost:
			h.set(res, req, "")
		default:
			http.Error(res, "invalid method", http.StatusMethodNotAllowed)
		}
		return
	}

	var head string
	head, req.URL.Path = ShiftPath(req.URL.Path)

	if head == "estimates" {
		h.estimates(res, req, id)
		return
	}

	if head != "" {
		http.Error(res, "Not Found", http.StatusNotFound)
		return
	}

	switch req.Method {
	case http.MethodGet:
		h.get(res, req, id)
	case http.MethodPut:
		h.set(res, req, id)
	case http.MethodDelete:
		h.delete(res, req, id)
	default:
		http.Error(res, "invalid method", http.StatusMethodNotAllowed)
	}
}

func (h *Sites) list(res http.ResponseWriter, _ *http.Request) {
	sites, err := client.SiteList(h.nc)
	if err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
		return
	}

	encode(res, sites)
}

func (h *Sites) get(res http.ResponseWriter, _ *http.Request, id string) {
	site, err := client.SiteGet(h.nc, id)
	if err == data.ErrSiteNotFound {
		http.Error(res, err.Error(), http.StatusNotFound)
		return
	}

	if err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
		return
	}

	encode(res, site)
}

func (h *Sites) set(res http.ResponseWriter, req *http.Request, id string) {
	var site data.Site

	if err := decode(req.Body, &site); err != nil {
		http.Error(res, err.Error(), http.StatusBadRequest)
		return
	}

	if id != "" {
		site.ID = id
	}

	if err := site.Validate(); err != nil {
		http.Error(res, err.Error(), http.StatusBadRequest)
		return
	}

	site, err := client.SiteSet(h.nc, site)
	if err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
		return
	}

	encode(res, site)
}

func (h *Sites) delete(res http.ResponseWriter, _ *http.Request, id string) {
	err := client.SiteDelete(h.nc, id)
	if err == data.ErrSiteNotFound {
		http.Error(res, err.Error(), http.StatusNotFound)
		return
	}

	if err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
		return
	}

	encode(res, map[string]bool{"deleted": true})
}

// estimates handles /sites/{id}/estimates -- POST runs a new estimate,
// GET lists the site's estimates
func (h *Sites) estimates(res http.ResponseWriter, req *http.Request, siteID string) {
	switch req.Method {
	case http.MethodGet:
		ests, err := client.EstimateList(h.nc, siteID)
		if err != nil {
			http.Error(res, err.Error(), http.StatusInternalServerError)
			return
		}
		encode(res, ests)

	case http.MethodPost:
		var er data.EstimateRequest

		if err := decode(req.Body, &er); err != nil {
			http.Error(res, err.Error(), http.StatusBadRequest)
			return
		}

		er.SiteID = siteID
		er.SetDefaults()

		if err := er.Validate(); err != nil {
			http.Error(res, err.Error(), http.StatusBadRequest)
			return
		}

		est, err := client.EstimateRun(h.nc, er)
		if err == data.ErrSiteNotFound {
			http.Error(res, err.Error(), http.StatusNotFound)
			return
		}

		if err != nil {
			http.Error(res, err.Error(), http.StatusInternalServerError)
			return
		}

		encode(res, est)

	default:
		http.Error(res, "invalid method", http.StatusMethodNotAllowed)
	}
}
