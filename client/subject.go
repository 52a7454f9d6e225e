package client

// NATS subjects that make up the store API
const (
	SubjectSitesGet    = "sites.get"
	SubjectSitesSet    = "sites.set"
	SubjectSitesList   = "sites.list"
	SubjectSitesDelete = "sites.delete"

	SubjectEstimatesRun  = "estimates.run"
	SubjectEstimatesGet  = "estimates.get"
	SubjectEstimatesList = "estimates.list"

	SubjectTariffGet = "tariff.get"
	SubjectTariffSet = "tariff.set"

	SubjectAuthUser = "auth.user"

	SubjectAdminStoreVerify = "admin.storeVerify"

	// SubjectMetricsSys is where the metrics client publishes system
	// metrics samples
	SubjectMetricsSys = "metrics.sys"
)
