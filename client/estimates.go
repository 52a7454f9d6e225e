package client

import (
	"github.com/nats-io/nats.go"
	"github.com/solarninja/solarninja/data"
)

// EstimateRun runs a new production estimate and returns the stored
// result
func EstimateRun(nc *nats.Conn, req data.EstimateRequest) (data.Estimate, error) {
	var ret data.Estimate
	err := request(nc, SubjectEstimatesRun, req, EstimateRunTimeout, &ret)
	return ret, err
}

// EstimateGet fetches an estimate by ID
func EstimateGet(nc *nats.Conn, id string) (data.Estimate, error) {
	var ret data.Estimate
	err := request(nc, SubjectEstimatesGet, IDRequest{ID: id}, requestTimeout, &ret)
	return ret, err
}

// EstimateListRequest filters estimate listings
type EstimateListRequest struct {
	// SiteID limits results to one site when set
	SiteID string `json:"siteID,omitempty"`
}

// EstimateList returns estimates, optionally filtered by site
func EstimateList(nc *nats.Conn, siteID string) ([]data.Estimate, error) {
	var ret []data.Estimate
	err := request(nc, SubjectEstimatesList,
		EstimateListRequest{SiteID: siteID}, requestTimeout, &ret)
	return ret, err
}
