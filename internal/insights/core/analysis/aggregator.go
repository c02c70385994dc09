// Package analysis partitions sessions into subgroups and mines each one.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"clickstream-insights/internal/insights/core/domain"
	"clickstream-insights/internal/insights/core/funnel"
	"clickstream-insights/internal/insights/core/mining"
	"clickstream-insights/internal/insights/core/sessions"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	// Limit is the number of patterns kept per subgroup and pattern type.
	Limit            int
	SearchK          int
	MaxLen           int
	FilterBeforeTopK bool

	// Workers bounds parallel subgroups; values below 1 mean 1.
	Workers int

	// Progress, when set, is called after each subgroup. It may be called
	// from several goroutines.
	Progress func(done, total int)

	Now func() time.Time
}

type preset struct {
	typ   domain.PatternType
	miner *mining.Miner
}

type Aggregator struct {
	cfg     Config
	presets []preset
}

func NewAggregator(cfg Config) *Aggregator {
	if cfg.Limit <= 0 {
		cfg.Limit = mining.DefaultLimit
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	mk := func(minLen int, interaction bool) *mining.Miner {
		return mining.NewMiner(mining.Options{
			SearchK:          cfg.SearchK,
			Limit:            cfg.Limit,
			MinLen:           minLen,
			InteractionOnly:  interaction,
			MaxLen:           cfg.MaxLen,
			FilterBeforeTopK: cfg.FilterBeforeTopK,
		})
	}

	return &Aggregator{
		cfg: cfg,
		presets: []preset{
			{domain.PatternSubsequenceGeneral, mk(2, false)},
			{domain.PatternInteractionMin2, mk(2, true)},
			{domain.PatternInteractionMin3, mk(3, true)},
		},
	}
}

// Partition is the set of sessions sharing one value of a dimension.
type Partition struct {
	Dimension domain.Dimension
	Value     string
	Sessions  []domain.Session
}

// Partitions splits sessions for each dimension in dims. Values appear in
// the order they are first met in sessions; empty values are skipped.
func Partitions(all []domain.Session, dims []domain.Dimension) []Partition {
	var out []Partition
	for _, d := range dims {
		index := make(map[string]int)
		start := len(out)
		for _, s := range all {
			v := s.Attribute(d)
			if v == "" {
				continue
			}
			i, ok := index[v]
			if !ok {
				i = len(out) - start
				index[v] = i
				out = append(out, Partition{Dimension: d, Value: v})
			}
			out[start+i].Sessions = append(out[start+i].Sessions, s)
		}
	}
	return out
}

// partitionResult is the output of one subgroup. Each worker owns one.
type partitionResult struct {
	patterns []domain.PatternRow
	funnel   domain.FunnelRow
}

// Run analyses every subgroup of sessions along dims (all dimensions when
// empty). The output does not depend on Workers.
func (a *Aggregator) Run(ctx context.Context, all []domain.Session, dims []domain.Dimension) (*domain.Report, error) {
	for _, s := range all {
		if len(s.Sequence) == 0 {
			runsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("%w: %s", sessions.ErrEmptySession, s.Key)
		}
	}
	if len(dims) == 0 {
		dims = domain.Dimensions
	}

	parts := Partitions(all, dims)
	results := make([]partitionResult, len(parts))

	slog.Info("analysis started",
		"sessions", len(all),
		"subgroups", len(parts),
		"workers", a.cfg.Workers,
	)

	var done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers)

	for i, p := range parts {
		if gctx.Err() != nil {
			break
		}
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = a.analyze(p)
			if a.cfg.Progress != nil {
				a.cfg.Progress(int(done.Add(1)), len(parts))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		runsTotal.WithLabelValues("canceled").Inc()
		return nil, err
	}
	// a cancel that landed after the last Go call
	if err := ctx.Err(); err != nil {
		runsTotal.WithLabelValues("canceled").Inc()
		return nil, err
	}

	report := &domain.Report{
		RunID:      uuid.New(),
		CreatedAt:  a.cfg.Now().UTC(),
		Sessions:   len(all),
		Dimensions: dims,
		Subgroups:  make([]domain.SubgroupInfo, 0, len(parts)),
		Patterns:   []domain.PatternRow{},
		Funnels:    make([]domain.FunnelRow, 0, len(parts)),
	}
	for i, p := range parts {
		report.Subgroups = append(report.Subgroups, domain.SubgroupInfo{
			Dimension: p.Dimension,
			Value:     p.Value,
			Sessions:  len(p.Sessions),
		})
		report.Patterns = append(report.Patterns, results[i].patterns...)
		report.Funnels = append(report.Funnels, results[i].funnel)
	}
	runsTotal.WithLabelValues("ok").Inc()

	slog.Info("analysis finished",
		"run_id", report.RunID,
		"pattern_rows", len(report.Patterns),
		"funnel_rows", len(report.Funnels),
	)

	return report, nil
}

func (a *Aggregator) analyze(p Partition) partitionResult {
	start := time.Now()
	defer func() {
		partitionsTotal.WithLabelValues(string(p.Dimension)).Inc()
		partitionDuration.WithLabelValues(string(p.Dimension)).Observe(time.Since(start).Seconds())
	}()

	seqs := make([][]string, len(p.Sessions))
	for i, s := range p.Sessions {
		seqs[i] = s.Sequence
	}

	var res partitionResult

	for _, c := range mining.CountExact(seqs).MostCommon(a.cfg.Limit) {
		res.patterns = append(res.patterns, a.row(p, domain.PatternFullSession, c.Sequence, c.N, mining.Equal))
	}

	for _, ps := range a.presets {
		patterns, stats := ps.miner.Run(seqs)
		minerNodes.WithLabelValues("explored").Add(float64(stats.Explored))
		minerNodes.WithLabelValues("pruned").Add(float64(stats.Pruned))
		for _, pat := range patterns {
			res.patterns = append(res.patterns, a.row(p, ps.typ, pat.Sequence, pat.Support, mining.Matches))
		}
	}

	res.funnel = funnel.Summarize(p.Dimension, p.Value, p.Sessions)

	slog.Debug("subgroup analysed",
		"dimension", p.Dimension,
		"subgroup", p.Value,
		"sessions", len(p.Sessions),
		"pattern_rows", len(res.patterns),
		"took", time.Since(start),
	)
	return res
}

// row re-scans the whole partition for sessions matching pattern.
func (a *Aggregator) row(p Partition, typ domain.PatternType, pattern []string, support int, match func(seq, pattern []string) bool) domain.PatternRow {
	var (
		prices    []float64
		durations []float64
		buckets   []string
	)
	for _, s := range p.Sessions {
		if !match(s.Sequence, pattern) {
			continue
		}
		prices = append(prices, s.MeanPrice)
		durations = append(durations, s.DurationSec)
		buckets = append(buckets, s.TimeOfDay)
	}
	patternsSurfaced.WithLabelValues(string(typ)).Inc()

	return domain.PatternRow{
		Dimension:       p.Dimension,
		Subgroup:        p.Value,
		Type:            typ,
		Pattern:         pattern,
		Support:         support,
		MeanPrice:       domain.Mean(prices),
		ModalTimeOfDay:  sessions.ModeOr(buckets, domain.NoData),
		MeanDurationSec: domain.Mean(durations),
	}
}
