package client

import (
	"github.com/nats-io/nats.go"
	"github.com/solarninja/solarninja/data"
)

// IDRequest is the payload for lookups by ID
type IDRequest struct {
	ID string `json:"id"`
}

// SiteGet fetches a site by ID
func SiteGet(nc *nats.Conn, id string) (data.Site, error) {
	var ret data.Site
	err := request(nc, SubjectSitesGet, IDRequest{ID: id}, requestTimeout, &ret)
	return ret, err
}

// SiteSet creates or updates a site. The returned site carries the
// assigned ID when creating.
func SiteSet(nc *nats.Conn, site data.Site) (data.Site, error) {
	var ret data.Site
	err := request(nc, SubjectSitesSet, site, requestTimeout, &ret)
	return ret, err
}

// SiteList returns all sites
func SiteList(nc *nats.Conn) ([]data.Site, error) {
	var ret []data.Site
	err := request(nc, SubjectSitesList, nil, requestTimeout, &ret)
	return ret, err
}

// SiteDelete removes a site and its estimates
func SiteDelete(nc *nats.Conn, id string) error {
	return request(nc, SubjectSitesDelete, IDRequest{ID: id}, requestTimeout, nil)
}
