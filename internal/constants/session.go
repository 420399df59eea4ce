package constants

import "time"

const (
	SessionIdleTTL       = 6 * time.Hour
	SessionPruneInterval = 10 * time.Minute
)
