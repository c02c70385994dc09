package postgres

import (
	"context"
	"fmt"
	"time"

	"clickstream-insights/internal/eventstats/core/domain"
	"clickstream-insights/internal/eventstats/core/ports"
)

// groupColumns maps a grouping onto a fixed SQL expression; user input never
// reaches the query text.
var groupColumns = map[string]string{
	domain.GroupByPriceTier: "price_tier",
	domain.GroupByCategory:  "main_category",
}

var truncUnits = map[string]string{
	"hour": "hour",
	"day":  "day",
}

type StatsRepository struct {
	db DB
}

func NewStatsRepository(db DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// QueryStats counts events, distinct sessions and distinct users. Totals are
// computed over the whole filter so that sessions spanning several groups are
// counted once.
func (r *StatsRepository) QueryStats(ctx context.Context, f ports.StatsFilter) (*domain.EventStats, error) {
	fromTime := time.Unix(f.From, 0).UTC()
	toTime := time.Unix(f.To, 0).UTC()

	where := "event_type = $1 AND event_time BETWEEN $2 AND $3"
	args := []any{f.EventType, fromTime, toTime}

	if f.PriceTier != nil {
		where += " AND price_tier = $4"
		args = append(args, *f.PriceTier)
	}

	result := &domain.EventStats{
		EventType: f.EventType,
		From:      f.From,
		To:        f.To,
		GroupBy:   f.GroupBy,
	}

	if err := r.queryTotals(ctx, where, args, result); err != nil {
		return nil, err
	}

	var err error
	switch f.GroupBy {
	case domain.GroupByNone:
	case domain.GroupByTime:
		unit, ok := truncUnits[f.Interval]
		if !ok {
			return nil, fmt.Errorf("unsupported interval: %s", f.Interval)
		}
		err = r.queryGroups(ctx, fmt.Sprintf("date_trunc('%s', event_time)", unit), where, args, result, true)
	default:
		col, ok := groupColumns[f.GroupBy]
		if !ok {
			return nil, fmt.Errorf("unsupported group_by: %s", f.GroupBy)
		}
		err = r.queryGroups(ctx, col, where, args, result, false)
	}
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *StatsRepository) queryTotals(ctx context.Context, where string, args []any, res *domain.EventStats) error {
	query := `
SELECT
    COUNT(*) AS total_count,
    COUNT(DISTINCT user_session) AS unique_sessions,
    COUNT(DISTINCT user_id) AS unique_users
FROM clickstream_events
WHERE ` + where

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query totals: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&res.TotalCount, &res.UniqueSessions, &res.UniqueUsers); err != nil {
			return fmt.Errorf("scan totals: %w", err)
		}
	}
	return rows.Err()
}

func (r *StatsRepository) queryGroups(
	ctx context.Context,
	expr string,
	where string,
	args []any,
	res *domain.EventStats,
	timeBucket bool,
) error {
	query := fmt.Sprintf(`
SELECT
    %s AS bucket,
    COUNT(*) AS total_count,
    COUNT(DISTINCT user_session) AS unique_sessions,
    COUNT(DISTINCT user_id) AS unique_users
FROM clickstream_events
WHERE %s
GROUP BY bucket
ORDER BY bucket
`, expr, where)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query groups: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			g   domain.StatsGroup
			key string
			ts  time.Time
		)
		dest := []any{&key, &g.TotalCount, &g.UniqueSessions, &g.UniqueUsers}
		if timeBucket {
			dest[0] = &ts
		}
		if err := rows.Scan(dest...); err != nil {
			return fmt.Errorf("scan group: %w", err)
		}
		if timeBucket {
			key = ts.UTC().Format(time.RFC3339)
		}
		g.Key = key
		res.Groups = append(res.Groups, g)
	}

	return rows.Err()
}
