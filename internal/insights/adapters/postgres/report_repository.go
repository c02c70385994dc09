package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"clickstream-insights/internal/insights/core/domain"

	"github.com/lib/pq"
)

// ReportRepository persists analysis runs into analysis_runs,
// pattern_report, funnel_report and pattern_summary.
type ReportRepository struct {
	db DB
}

func NewReportRepository(db DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) WriteReport(ctx context.Context, report *domain.Report, summary []domain.SummaryRow) error {
	dims := make([]string, len(report.Dimensions))
	for i, d := range report.Dimensions {
		dims[i] = string(d)
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO analysis_runs (run_id, created_at, sessions, dimensions)
VALUES ($1, $2, $3, $4)`,
		report.RunID, report.CreatedAt, report.Sessions, pq.Array(dims),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, p := range report.Patterns {
		_, err := r.db.ExecContext(ctx, `
INSERT INTO pattern_report (
    run_id, dimension, subgroup, pattern_type, pattern,
    support, mean_price, modal_time_of_day, mean_duration_sec
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			report.RunID,
			string(p.Dimension),
			p.Subgroup,
			string(p.Type),
			pq.Array(p.Pattern),
			p.Support,
			nullFloat(p.MeanPrice),
			p.ModalTimeOfDay,
			nullFloat(p.MeanDurationSec),
		)
		if err != nil {
			return fmt.Errorf("insert pattern row: %w", err)
		}
	}

	for _, f := range report.Funnels {
		_, err := r.db.ExecContext(ctx, `
INSERT INTO funnel_report (
    run_id, dimension, subgroup, cart_sessions,
    abandonment_rate_pct, removal_rate_pct, purchase_rate_pct,
    modal_time_of_day_purchase, modal_time_of_day_removal
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			report.RunID,
			string(f.Dimension),
			f.Subgroup,
			f.CartSessions,
			nullFloat(f.AbandonmentRatePct),
			nullFloat(f.RemovalRatePct),
			nullFloat(f.PurchaseRatePct),
			f.ModalTimeOfDayPurchase,
			f.ModalTimeOfDayRemoval,
		)
		if err != nil {
			return fmt.Errorf("insert funnel row: %w", err)
		}
	}

	for _, s := range summary {
		_, err := r.db.ExecContext(ctx, `
INSERT INTO pattern_summary (
    run_id, dimension, subgroup, pattern_type, pattern, support,
    support_pct, mean_price, mean_duration_sec, modal_time_of_day, rank
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			report.RunID,
			string(s.Dimension),
			s.Subgroup,
			string(s.Type),
			pq.Array(s.Pattern),
			s.Support,
			nullFloat(s.SupportPct),
			nullFloat(s.MeanPrice),
			nullFloat(s.MeanDurationSec),
			s.ModalTimeOfDay,
			s.Rank,
		)
		if err != nil {
			return fmt.Errorf("insert summary row: %w", err)
		}
	}

	return nil
}

func nullFloat(m domain.Metric) sql.NullFloat64 {
	return sql.NullFloat64{Float64: m.Value, Valid: m.Valid}
}
