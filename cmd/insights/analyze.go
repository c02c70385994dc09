package main

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"text/tabwriter"

	insightsCsv "clickstream-insights/internal/insights/adapters/csv"
	insightsPg "clickstream-insights/internal/insights/adapters/postgres"
	"clickstream-insights/internal/insights/core/analysis"
	"clickstream-insights/internal/insights/core/domain"
	"clickstream-insights/internal/insights/core/sessions"
	"clickstream-insights/internal/insights/core/usecase"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Mine behavioural patterns and cart funnels per subgroup",
		Long: `Rebuild sessions from the event source, keep the ones with cart activity and
mine each price tier, category and time-of-day subgroup for its most frequent
whole-session patterns and subsequences.

Reports are written as CSV into --out and, with --save, into PostgreSQL.`,
		RunE: runAnalyze,
	}

	addSourceFlags(cmd)

	cmd.Flags().StringSlice("dimensions", nil, "dimensions to analyse (price_tier, category, time_of_day); default all")
	cmd.Flags().StringP("out", "o", "reports", "directory for the CSV reports (empty to skip)")
	cmd.Flags().Bool("save", false, "persist the report into PostgreSQL")
	cmd.Flags().Bool("no-progress", false, "disable the progress bar")

	// Tuning
	cmd.Flags().Int("top-k", 10, "patterns kept per subgroup and pattern type")
	cmd.Flags().Int("search-k", 500, "internal top-K of the pattern search")
	cmd.Flags().Int("max-len", 0, "maximum pattern length (0 for unbounded)")
	cmd.Flags().Int("workers", 1, "subgroups mined in parallel")
	cmd.Flags().Int("summary-top-n", 5, "rows per subgroup in the ranked summary")
	cmd.Flags().Bool("filter-before-top-k", false, "apply length/interaction filters inside the search")

	_ = viper.BindPFlag("analysis.top_k", cmd.Flags().Lookup("top-k"))
	_ = viper.BindPFlag("analysis.search_k", cmd.Flags().Lookup("search-k"))
	_ = viper.BindPFlag("analysis.max_pattern_length", cmd.Flags().Lookup("max-len"))
	_ = viper.BindPFlag("analysis.workers", cmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("analysis.summary_top_n", cmd.Flags().Lookup("summary-top-n"))
	_ = viper.BindPFlag("analysis.filter_before_top_k", cmd.Flags().Lookup("filter-before-top-k"))

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	res := &resources{cfg: cfg}
	defer res.Close()

	source, err := sourceFromFlags(cmd, args, res)
	if err != nil {
		return err
	}

	var opts []usecase.Option
	opts = append(opts, usecase.WithSummaryTopN(cfg.Analysis.SummaryTopN))

	outDir, _ := cmd.Flags().GetString("out")
	if outDir != "" {
		opts = append(opts, usecase.WithReportWriter(insightsCsv.NewReportWriter(outDir)))
	}
	if save, _ := cmd.Flags().GetBool("save"); save {
		db, err := res.postgres(ctx)
		if err != nil {
			return err
		}
		opts = append(opts, usecase.WithReportWriter(insightsPg.NewReportRepository(insightsPg.NewSQLDB(db))))
	}

	bar := &partitionBar{w: cmd.ErrOrStderr()}
	acfg := analysis.Config{
		Limit:            cfg.Analysis.TopK,
		SearchK:          cfg.Analysis.SearchK,
		MaxLen:           cfg.Analysis.MaxPatternLength,
		FilterBeforeTopK: cfg.Analysis.FilterBeforeTopK,
		Workers:          cfg.Analysis.Workers,
	}
	if quiet, _ := cmd.Flags().GetBool("no-progress"); !quiet {
		acfg.Progress = bar.update
	}

	uc := usecase.NewAnalyzeUseCase(
		source,
		sessions.NewBuilder(sessions.Options{Location: loc}),
		analysis.NewAggregator(acfg),
		opts...,
	)

	dims, _ := cmd.Flags().GetStringSlice("dimensions")
	from, _ := cmd.Flags().GetInt64("from")
	to, _ := cmd.Flags().GetInt64("to")

	result, err := uc.Execute(ctx, usecase.AnalyzeInput{
		Window:     usecase.Window{From: from, To: to},
		Dimensions: dims,
	})
	bar.finish()
	if err != nil {
		return err
	}

	slog.Info("analysis complete",
		"run_id", result.Report.RunID,
		"sessions", result.Build.Sessions,
		"analysed", result.Analysed,
		"pattern_rows", len(result.Report.Patterns),
		"funnel_rows", len(result.Report.Funnels),
	)
	if outDir != "" {
		slog.Info("reports written", "dir", outDir)
	}

	return printSummary(cmd.OutOrStdout(), result.Summary)
}

// partitionBar lazily creates a progress bar once the number of subgroups
// is known. update may be called from several goroutines.
type partitionBar struct {
	w    io.Writer
	once sync.Once
	bar  *progressbar.ProgressBar
}

func (p *partitionBar) update(_, total int) {
	p.once.Do(func() {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.w),
			progressbar.OptionShowCount(),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("Mining subgroups"),
		)
	})
	_ = p.bar.Add(1)
}

func (p *partitionBar) finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
		fmt.Fprintln(p.w)
	}
}

func printSummary(w io.Writer, rows []domain.SummaryRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DIMENSION\tSUBGROUP\tTYPE\tRANK\tSUPPORT\tSUPPORT %\tMEAN PRICE\tPATTERN")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
			r.Dimension, r.Subgroup, r.Type, r.Rank, r.Support,
			r.SupportPct, r.MeanPrice, domain.FormatPattern(r.Pattern))
	}
	return tw.Flush()
}
