// Package csv writes analysis reports as CSV files.
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"clickstream-insights/internal/insights/core/domain"
)

const (
	PatternsFile = "deep_dive_patterns.csv"
	FunnelFile   = "cart_behavior_metrics.csv"
	SummaryFile  = "pattern_summary.csv"
)

var (
	patternHeader = []string{
		"dimension", "subgroup", "pattern_type", "pattern", "support",
		"mean_price", "modal_time_of_day", "mean_duration_sec",
	}
	funnelHeader = []string{
		"dimension", "subgroup", "cart_sessions",
		"abandonment_rate_pct", "removal_rate_pct", "purchase_rate_pct",
		"modal_time_of_day_purchase", "modal_time_of_day_removal",
	}
	summaryHeader = []string{
		"dimension", "subgroup", "pattern_type", "pattern", "support", "support_pct",
		"mean_price", "mean_duration_sec", "modal_time_of_day", "rank",
	}
)

// ReportWriter writes the three report files into a directory, replacing
// earlier ones.
type ReportWriter struct {
	dir string
}

func NewReportWriter(dir string) *ReportWriter {
	return &ReportWriter{dir: dir}
}

func (w *ReportWriter) Dir() string { return w.dir }

func (w *ReportWriter) WriteReport(ctx context.Context, report *domain.Report, summary []domain.SummaryRow) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	patterns := make([][]string, 0, len(report.Patterns))
	for _, p := range report.Patterns {
		patterns = append(patterns, []string{
			string(p.Dimension),
			p.Subgroup,
			string(p.Type),
			domain.FormatPattern(p.Pattern),
			strconv.Itoa(p.Support),
			p.MeanPrice.String(),
			p.ModalTimeOfDay,
			p.MeanDurationSec.String(),
		})
	}

	funnels := make([][]string, 0, len(report.Funnels))
	for _, f := range report.Funnels {
		funnels = append(funnels, []string{
			string(f.Dimension),
			f.Subgroup,
			strconv.Itoa(f.CartSessions),
			f.AbandonmentRatePct.String(),
			f.RemovalRatePct.String(),
			f.PurchaseRatePct.String(),
			f.ModalTimeOfDayPurchase,
			f.ModalTimeOfDayRemoval,
		})
	}

	ranked := make([][]string, 0, len(summary))
	for _, s := range summary {
		ranked = append(ranked, []string{
			string(s.Dimension),
			s.Subgroup,
			string(s.Type),
			domain.FormatPattern(s.Pattern),
			strconv.Itoa(s.Support),
			s.SupportPct.String(),
			s.MeanPrice.String(),
			s.MeanDurationSec.String(),
			s.ModalTimeOfDay,
			strconv.Itoa(s.Rank),
		})
	}

	files := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{PatternsFile, patternHeader, patterns},
		{FunnelFile, funnelHeader, funnels},
		{SummaryFile, summaryHeader, ranked},
	}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeFile(filepath.Join(w.dir, f.name), f.header, f.rows); err != nil {
			return err
		}
	}
	return nil
}

// writeFile writes to a temporary file and renames it into place.
func writeFile(path string, header []string, rows [][]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	cw := csv.NewWriter(tmp)
	if err := cw.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := cw.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
