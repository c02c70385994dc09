package domain

// Grouping keys accepted by the stats query.
const (
	GroupByNone      = ""
	GroupByPriceTier = "price_tier"
	GroupByCategory  = "main_category"
	GroupByTime      = "time"
)

type EventStats struct {
	EventType      string
	From           int64 // unix second
	To             int64 // unix second
	TotalCount     int64
	UniqueSessions int64
	UniqueUsers    int64

	GroupBy string
	Groups  []StatsGroup
}

type StatsGroup struct {
	Key            string // e.g. "Medium" or "2019-10-01T10:00:00Z"
	TotalCount     int64
	UniqueSessions int64
	UniqueUsers    int64
}
