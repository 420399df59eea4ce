package constants

import "time"

const (
	SearchCacheKeyPrefix = "search"
	SearchCacheTTL       = 24 * time.Hour
	ResultStatsKey       = "results_stats"
	ResultStatsTTL       = 10 * time.Minute
)
