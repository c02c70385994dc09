package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"

	"clickstream-insights/internal/common"
	"clickstream-insights/internal/config"
	evdomain "clickstream-insights/internal/events/core/domain"
	evusecase "clickstream-insights/internal/events/core/usecase"
	insightsCh "clickstream-insights/internal/insights/adapters/clickhouse"
	insightsCsv "clickstream-insights/internal/insights/adapters/csv"
	insightsPg "clickstream-insights/internal/insights/adapters/postgres"
	"clickstream-insights/internal/insights/core/ports"

	"github.com/ClickHouse/clickhouse-go/v2"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

const (
	sourceCSV        = "csv"
	sourcePostgres   = "postgres"
	sourceClickHouse = "clickhouse"
)

// resources holds the connections a command opened so they can be closed
// together.
type resources struct {
	cfg *config.Config
	pg  *sql.DB
	ch  clickhouse.Conn
}

func (r *resources) postgres(ctx context.Context) (*sql.DB, error) {
	if r.pg != nil {
		return r.pg, nil
	}
	if err := r.cfg.RequirePostgres(); err != nil {
		return nil, common.NewUserError("PostgreSQL is not configured", err)
	}

	db, err := sql.Open("postgres", r.cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	db.SetMaxOpenConns(r.cfg.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(r.cfg.Postgres.MaxIdleConns)
	db.SetConnMaxLifetime(r.cfg.Postgres.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	r.pg = db
	return db, nil
}

func (r *resources) clickhouse(ctx context.Context) (clickhouse.Conn, error) {
	if r.ch != nil {
		return r.ch, nil
	}
	if err := r.cfg.RequireClickHouse(); err != nil {
		return nil, common.NewUserError("ClickHouse is not configured", err)
	}

	conn, err := insightsCh.Open(ctx, insightsCh.Options{
		Addr:     r.cfg.ClickHouse.Addr,
		Database: r.cfg.ClickHouse.Database,
		Username: r.cfg.ClickHouse.Username,
		Password: r.cfg.ClickHouse.Password,
	})
	if err != nil {
		return nil, err
	}
	r.ch = conn
	return conn, nil
}

func (r *resources) Close() {
	if r.pg != nil {
		_ = r.pg.Close()
	}
	if r.ch != nil {
		_ = r.ch.Close()
	}
}

// eventSource resolves --source into a port. CSV inputs come from the
// positional args plus any --input globs.
func (r *resources) eventSource(ctx context.Context, kind string, inputs []string) (ports.EventSourcePort, error) {
	switch kind {
	case sourceCSV:
		src, err := insightsCsv.NewEventSource(inputs)
		if err != nil {
			return nil, common.NewUserError("No input files given; pass CSV paths or --input", err)
		}
		return src, nil
	case sourcePostgres:
		db, err := r.postgres(ctx)
		if err != nil {
			return nil, err
		}
		return insightsPg.NewEventSource(insightsPg.NewSQLDB(db)), nil
	case sourceClickHouse:
		conn, err := r.clickhouse(ctx)
		if err != nil {
			return nil, err
		}
		src, err := insightsCh.NewEventSource(insightsCh.NewQuerier(conn), r.cfg.ClickHouse.Table)
		if err != nil {
			return nil, common.NewUserError("Invalid clickhouse.table", err)
		}
		return src, nil
	default:
		return nil, common.NewUserError(
			fmt.Sprintf("Unknown source %q (want csv, postgres or clickhouse)", kind), nil)
	}
}

// resolveInputs expands globs and appends them to the explicit paths,
// keeping first occurrence order.
func resolveInputs(args, patterns []string) ([]string, error) {
	out := slices.Clone(args)
	for _, p := range patterns {
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, common.NewUserError(fmt.Sprintf("Invalid --input pattern %q", p), err)
		}
		slices.Sort(matches)
		out = append(out, matches...)
	}

	seen := make(map[string]bool, len(out))
	uniq := out[:0]
	for _, p := range out {
		if seen[p] {
			continue
		}
		seen[p] = true
		uniq = append(uniq, p)
	}
	return uniq, nil
}

// preparingSource labels raw events (price tier, main category) before
// handing them on, so raw exports can be analysed without a prepare step.
type preparingSource struct {
	next   ports.EventSourcePort
	strict bool
}

func (s preparingSource) ListEvents(ctx context.Context, f ports.EventFilter) ([]evdomain.Event, error) {
	events, err := s.next.ListEvents(ctx, f)
	if err != nil {
		return nil, err
	}
	res, err := evusecase.Prepare(evusecase.PrepareInput{Events: events, Strict: s.strict})
	if err != nil {
		return nil, err
	}
	slog.Info("events prepared",
		"input", res.Input,
		"dropped", res.Dropped,
		"thresholds", res.Thresholds.String(),
	)
	return res.Events, nil
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("source", sourceCSV, "event source (csv, postgres, clickhouse)")
	cmd.Flags().StringSlice("input", nil, "CSV input glob(s), in addition to positional paths")
	cmd.Flags().Int64("from", 0, "window start, unix seconds (requires --to)")
	cmd.Flags().Int64("to", 0, "window end, unix seconds (requires --from)")
	cmd.Flags().Bool("raw", false, "label raw events with price tier and category before analysis")
}

// sourceFromFlags opens the event source described by addSourceFlags.
func sourceFromFlags(cmd *cobra.Command, args []string, res *resources) (ports.EventSourcePort, error) {
	kind, _ := cmd.Flags().GetString("source")
	patterns, _ := cmd.Flags().GetStringSlice("input")
	raw, _ := cmd.Flags().GetBool("raw")

	var inputs []string
	if kind == sourceCSV {
		var err error
		if inputs, err = resolveInputs(args, patterns); err != nil {
			return nil, err
		}
	}

	src, err := res.eventSource(cmd.Context(), kind, inputs)
	if err != nil {
		return nil, err
	}
	if raw {
		src = preparingSource{next: src}
	}
	return src, nil
}
