package data

import "errors"

// ErrSiteNotFound is returned in APIs if a site is not found
var ErrSiteNotFound = errors.New("site not found")

// ErrEstimateNotFound is returned in APIs if an estimate is not found
var ErrEstimateNotFound = errors.New("estimate not found")
