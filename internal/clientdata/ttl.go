package clientdata

import "time"

// TTL constants for different data types.
// They follow how often the dashboard polls each view (5-10 minutes).
const (
	// Market data the UI refreshes every 5 minutes
	TTLTickers      = 5 * time.Minute
	TTLCoinSnapshot = 5 * time.Minute

	// Charts and social data refreshed every 10 minutes
	TTLMarketChart = 10 * time.Minute
	TTLTimeSeries  = 10 * time.Minute
	TTLCreators    = 10 * time.Minute
	TTLPosts       = 10 * time.Minute
	TTLNews        = 10 * time.Minute

	// AI summaries are expensive upstream and change slowly
	TTLSummary = 30 * time.Minute
)
