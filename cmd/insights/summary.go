package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"clickstream-insights/internal/insights/core/domain"
	"clickstream-insights/internal/insights/core/sessions"
	"clickstream-insights/internal/insights/core/summary"
	"clickstream-insights/internal/insights/core/usecase"

	"github.com/spf13/cobra"
)

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary [files...]",
		Short: "Describe the event log and its sessions",
		Long: `Print event counts, the event type distribution and session statistics,
comparing browsing-only sessions with sessions that touched the cart.`,
		RunE: runSummary,
	}

	addSourceFlags(cmd)
	cmd.Flags().Int("top-n", 10, "most common whole-session patterns to list")
	cmd.Flags().Bool("json", false, "print JSON instead of text")

	return cmd
}

func runSummary(cmd *cobra.Command, args []string) error {
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

	topN, _ := cmd.Flags().GetInt("top-n")
	from, _ := cmd.Flags().GetInt64("from")
	to, _ := cmd.Flags().GetInt64("to")

	uc := usecase.NewOverviewUseCase(source, sessions.NewBuilder(sessions.Options{Location: loc}))
	result, err := uc.Execute(cmd.Context(), usecase.OverviewInput{
		Window: usecase.Window{From: from, To: to},
		TopN:   topN,
	})
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return printOverview(cmd.OutOrStdout(), result)
}

func printOverview(w io.Writer, r *usecase.OverviewResult) error {
	ds := r.Dataset
	fmt.Fprintln(w, "Dataset")
	fmt.Fprintf(w, "  events:        %d\n", ds.Events)
	fmt.Fprintf(w, "  unique users:  %d\n", ds.UniqueUsers)
	fmt.Fprintf(w, "  sessions:      %d\n", ds.Sessions)
	fmt.Fprintf(w, "  unique brands: %d\n", ds.UniqueBrands)
	if !ds.Start.IsZero() {
		fmt.Fprintf(w, "  period:        %s .. %s\n", ds.Start.Format("2006-01-02 15:04:05"), ds.End.Format("2006-01-02 15:04:05"))
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\nEVENT TYPE\tCOUNT\tPCT")
	for _, t := range ds.EventTypes {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\n", t.EventType, t.Count, t.Pct)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := r.Sessions
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\nGROUP\tSESSIONS\tMEAN DURATION (s)\tMEDIAN DURATION (s)\tMEAN PRODUCTS\tMEAN BRANDS")
	groupRow(tw, "all", s.All)
	groupRow(tw, "browsing only", s.BrowsingOnly)
	groupRow(tw, "with interaction", s.Interaction)
	if err := tw.Flush(); err != nil {
		return err
	}

	if err := patternTable(w, "\nTOP SESSION PATTERNS", s.TopPatterns); err != nil {
		return err
	}
	return patternTable(w, "\nTOP INTERACTION SESSION PATTERNS", s.TopInteractionPatterns)
}

func groupRow(w io.Writer, name string, g summary.GroupStats) {
	fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
		name, g.Sessions, g.MeanDurationSec, g.MedianDurationSec, g.MeanUniqueProducts, g.MeanUniqueBrands)
}

func patternTable(w io.Writer, title string, patterns []summary.PatternStats) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\tSESSIONS\tMEAN DURATION (s)\n", title)
	for _, p := range patterns {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", domain.FormatPattern(p.Pattern), p.Sessions, p.MeanDurationSec)
	}
	return tw.Flush()
}
