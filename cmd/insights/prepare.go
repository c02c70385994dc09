package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"clickstream-insights/internal/common"
	evcsv "clickstream-insights/internal/events/adapters/csv"
	evusecase "clickstream-insights/internal/events/core/usecase"

	"github.com/spf13/cobra"
)

func prepareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prepare [files...]",
		Short: "Label raw exports with price tier and main category",
		Long: `Read raw clickstream exports, estimate the Low/Medium/High price thresholds
over the whole batch, label every event with its tier and top-level category
and write the prepared CSV that analyze and summary read.`,
		RunE: runPrepare,
	}

	cmd.Flags().StringSlice("input", nil, "CSV input glob(s), in addition to positional paths")
	cmd.Flags().StringP("output", "o", "-", "prepared CSV path (- for stdout)")
	cmd.Flags().Bool("strict", false, "drop rows missing any column, not only the ones analysis needs")

	return cmd
}

func runPrepare(cmd *cobra.Command, args []string) error {
	patterns, _ := cmd.Flags().GetStringSlice("input")
	inputs, err := resolveInputs(args, patterns)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return common.NewUserError("No input files given; pass CSV paths or --input", nil)
	}

	events, stats, err := evcsv.ReadFiles(inputs)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	slog.Info("events read",
		"files", len(inputs),
		"rows", stats.Rows,
		"bad_time", stats.BadTime,
		"incomplete", stats.Incomplete,
	)

	strict, _ := cmd.Flags().GetBool("strict")
	res, err := evusecase.Prepare(evusecase.PrepareInput{Events: events, Strict: strict})
	if err != nil {
		return common.NewUserError("Cannot estimate price tiers", err)
	}

	output, _ := cmd.Flags().GetString("output")
	if err := writePrepared(cmd.OutOrStdout(), output, res); err != nil {
		return err
	}

	slog.Info("events prepared",
		"input", res.Input,
		"kept", len(res.Events),
		"dropped", res.Dropped,
		"thresholds", res.Thresholds.String(),
		"output", output,
	)
	return nil
}

func writePrepared(stdout io.Writer, output string, res evusecase.PrepareResult) (err error) {
	w := stdout
	if output != "-" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", output, err)
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w = f
	}

	cw := evcsv.NewWriter(w)
	for _, e := range res.Events {
		if err := cw.Write(e); err != nil {
			return fmt.Errorf("failed to write event: %w", err)
		}
	}
	return cw.Flush()
}
