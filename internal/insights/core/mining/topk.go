package mining

import "container/heap"

type candidate struct {
	pattern []int
	support int
	seq     int
}

// topK holds the k best candidates. The root is the weakest: lowest
// support, and among equal supports the latest discovered.
type topK struct {
	k     int
	items []candidate
}

func (h *topK) Len() int { return len(h.items) }

func (h *topK) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if a.support != b.support {
		return a.support < b.support
	}
	return a.seq > b.seq
}

func (h *topK) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *topK) Push(x any) { h.items = append(h.items, x.(candidate)) }

func (h *topK) Pop() any {
	old := h.items
	n := len(old)
	x := old[n-1]
	h.items = old[:n-1]
	return x
}

func (h *topK) full() bool { return len(h.items) >= h.k }

// beats reports whether a candidate with this support could still enter.
func (h *topK) beats(support int) bool {
	return !h.full() || support > h.items[0].support
}

// offer inserts c if there is room or it strictly beats the weakest entry.
func (h *topK) offer(c candidate) bool {
	if !h.full() {
		heap.Push(h, c)
		return true
	}
	if c.support <= h.items[0].support {
		return false
	}
	h.items[0] = c
	heap.Fix(h, 0)
	return true
}
