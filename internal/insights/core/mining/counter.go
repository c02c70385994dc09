package mining

import (
	"slices"
	"sort"
	"strings"
)

// keySep cannot appear in an event type.
const keySep = "\x1f"

type Count struct {
	Sequence []string
	N        int
}

// Counts tallies identical sequences, remembering first-seen order.
type Counts struct {
	index   map[string]int
	entries []Count
	total   int
}

// CountExact counts each distinct whole sequence.
func CountExact(sequences [][]string) *Counts {
	c := &Counts{index: make(map[string]int)}
	for _, s := range sequences {
		c.Add(s)
	}
	return c
}

func (c *Counts) Add(seq []string) {
	k := strings.Join(seq, keySep)
	c.total++
	if i, ok := c.index[k]; ok {
		c.entries[i].N++
		return
	}
	c.index[k] = len(c.entries)
	c.entries = append(c.entries, Count{Sequence: slices.Clone(seq), N: 1})
}

// Len is the number of distinct sequences.
func (c *Counts) Len() int { return len(c.entries) }

// Total is the number of sequences added.
func (c *Counts) Total() int { return c.total }

func (c *Counts) Get(seq []string) int {
	if i, ok := c.index[strings.Join(seq, keySep)]; ok {
		return c.entries[i].N
	}
	return 0
}

// MostCommon returns the n most frequent sequences by descending count,
// ties in first-seen order. n <= 0 returns all of them.
func (c *Counts) MostCommon(n int) []Count {
	out := slices.Clone(c.entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].N > out[j].N
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
