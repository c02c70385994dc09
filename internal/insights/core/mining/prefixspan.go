package mining

import (
	"slices"
	"sort"

	"clickstream-insights/internal/insights/core/domain"
)

const (
	DefaultSearchK = 500
	DefaultLimit   = 10
)

type Options struct {
	// SearchK bounds the number of patterns kept during search.
	SearchK int

	// Limit bounds the number of patterns returned.
	Limit int

	MinLen int

	// InteractionOnly keeps patterns with a cart, purchase or removal.
	InteractionOnly bool

	// MaxLen bounds pattern length; 0 means unbounded.
	MaxLen int

	// FilterBeforeTopK applies MinLen and InteractionOnly while searching,
	// so the top SearchK are chosen among qualifying patterns only. By
	// default filters run after selection and nothing is backfilled.
	FilterBeforeTopK bool
}

type Pattern struct {
	Sequence []string
	Support  int
}

// Stats describes the search effort of one Run.
type Stats struct {
	Explored int
	Pruned   int
}

// Miner is a top-k PrefixSpan over event-type sequences. It is stateless
// and safe for concurrent use.
type Miner struct {
	opts Options
}

func NewMiner(opts Options) *Miner {
	if opts.SearchK <= 0 {
		opts.SearchK = DefaultSearchK
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	return &Miner{opts: opts}
}

func (m *Miner) Options() Options { return m.opts }

// Mine returns the most frequent subsequences of sequences, ordered by
// support descending and then discovery order.
func (m *Miner) Mine(sequences [][]string) []Pattern {
	patterns, _ := m.Run(sequences)
	return patterns
}

// cursor marks the last matched position of a pattern in one sequence.
type cursor struct {
	sid int
	pos int
}

type node struct {
	pattern []int
	cursors []cursor
}

// Run is Mine plus search statistics.
func (m *Miner) Run(sequences [][]string) ([]Pattern, Stats) {
	var stats Stats

	alphabet, db := encode(sequences)
	if len(alphabet) == 0 {
		return []Pattern{}, stats
	}
	interaction := make([]bool, len(alphabet))
	for id, sym := range alphabet {
		interaction[id] = domain.ContainsInteraction([]string{sym})
	}

	qualifies := func(p []int) bool {
		if len(p) < m.opts.MinLen {
			return false
		}
		if !m.opts.InteractionOnly {
			return true
		}
		for _, id := range p {
			if interaction[id] {
				return true
			}
		}
		return false
	}

	best := &topK{k: m.opts.SearchK}
	discovered := 0

	// per-symbol scratch for child projection
	children := make([][]cursor, len(alphabet))
	lastSid := make([]int, len(alphabet))

	root := node{cursors: make([]cursor, len(db))}
	for sid := range db {
		root.cursors[sid] = cursor{sid: sid, pos: -1}
	}
	stack := []node{root}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if len(n.pattern) > 0 {
			support := len(n.cursors)
			if !best.beats(support) {
				stats.Pruned++
				continue
			}
			stats.Explored++
			if !m.opts.FilterBeforeTopK || qualifies(n.pattern) {
				best.offer(candidate{pattern: n.pattern, support: support, seq: discovered})
				discovered++
			}
		}

		if m.opts.MaxLen > 0 && len(n.pattern) >= m.opts.MaxLen {
			continue
		}

		for i := range lastSid {
			lastSid[i] = -1
		}
		var touched []int
		for _, c := range n.cursors {
			seq := db[c.sid]
			for pos := c.pos + 1; pos < len(seq); pos++ {
				sym := seq[pos]
				if lastSid[sym] == c.sid {
					continue
				}
				lastSid[sym] = c.sid
				if children[sym] == nil {
					touched = append(touched, sym)
				}
				children[sym] = append(children[sym], cursor{sid: c.sid, pos: pos})
			}
		}

		// strongest child on top of the stack
		sort.Slice(touched, func(i, j int) bool {
			a, b := touched[i], touched[j]
			if len(children[a]) != len(children[b]) {
				return len(children[a]) > len(children[b])
			}
			return a < b
		})
		for i := len(touched) - 1; i >= 0; i-- {
			sym := touched[i]
			p := make([]int, len(n.pattern)+1)
			copy(p, n.pattern)
			p[len(n.pattern)] = sym
			stack = append(stack, node{pattern: p, cursors: children[sym]})
			children[sym] = nil
		}
	}

	found := slices.Clone(best.items)
	sort.Slice(found, func(i, j int) bool {
		if found[i].support != found[j].support {
			return found[i].support > found[j].support
		}
		return found[i].seq < found[j].seq
	})

	out := make([]Pattern, 0, m.opts.Limit)
	for _, c := range found {
		if len(out) == m.opts.Limit {
			break
		}
		if !qualifies(c.pattern) {
			continue
		}
		out = append(out, Pattern{Sequence: decode(alphabet, c.pattern), Support: c.support})
	}
	return out, stats
}

// encode maps symbols to ids in sorted order.
func encode(sequences [][]string) ([]string, [][]int) {
	ids := make(map[string]int)
	for _, s := range sequences {
		for _, sym := range s {
			ids[sym] = 0
		}
	}
	alphabet := make([]string, 0, len(ids))
	for sym := range ids {
		alphabet = append(alphabet, sym)
	}
	slices.Sort(alphabet)
	for id, sym := range alphabet {
		ids[sym] = id
	}

	db := make([][]int, len(sequences))
	for sid, s := range sequences {
		enc := make([]int, len(s))
		for i, sym := range s {
			enc[i] = ids[sym]
		}
		db[sid] = enc
	}
	return alphabet, db
}

func decode(alphabet []string, p []int) []string {
	out := make([]string, len(p))
	for i, id := range p {
		out[i] = alphabet[id]
	}
	return out
}
