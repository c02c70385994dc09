package sessions

import (
	"time"

	"clickstream-insights/internal/insights/core/domain"
)

// TimeOfDay buckets t by its hour in loc (UTC when nil):
// [5,12) Morning, [12,17) Afternoon, [17,22) Evening, otherwise Night.
func TimeOfDay(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	h := t.In(loc).Hour()
	switch {
	case h >= 5 && h < 12:
		return domain.Morning
	case h >= 12 && h < 17:
		return domain.Afternoon
	case h >= 17 && h < 22:
		return domain.Evening
	default:
		return domain.Night
	}
}
