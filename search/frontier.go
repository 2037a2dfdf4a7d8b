package search

import "container/heap"

// Entry pairs a state with the fitness it held when it was enqueued.
// Ordering between entries is defined by fitness alone; equal-fitness
// entries are order-equivalent and pop in arbitrary order.
type Entry[S comparable] struct {
	State   S
	Fitness float64
}

// Frontier is a max-first priority queue over not-yet-expanded entries.
// There is no decrease-key: a state is scored once, at enqueue time.
type Frontier[S comparable] struct {
	entries frontierHeap[S]
}

func NewFrontier[S comparable]() *Frontier[S] {
	return &Frontier[S]{}
}

// Push inserts an entry.
func (f *Frontier[S]) Push(e Entry[S]) {
	heap.Push(&f.entries, e)
}

// PopMax removes and returns the highest-fitness entry.
// The second return is false when the frontier is empty.
func (f *Frontier[S]) PopMax() (Entry[S], bool) {
	if f.entries.Len() == 0 {
		var zero Entry[S]
		return zero, false
	}
	return heap.Pop(&f.entries).(Entry[S]), true
}

// Peek returns the highest-fitness entry without removing it.
func (f *Frontier[S]) Peek() (Entry[S], bool) {
	if f.entries.Len() == 0 {
		var zero Entry[S]
		return zero, false
	}
	return f.entries[0], true
}

func (f *Frontier[S]) Len() int {
	return f.entries.Len()
}

// frontierHeap implements heap.Interface. Less is reversed so the
// highest-fitness entry sits at the root.
type frontierHeap[S comparable] []Entry[S]

func (h frontierHeap[S]) Len() int           { return len(h) }
func (h frontierHeap[S]) Less(i, j int) bool { return h[i].Fitness > h[j].Fitness }
func (h frontierHeap[S]) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *frontierHeap[S]) Push(x any) {
	*h = append(*h, x.(Entry[S]))
}

func (h *frontierHeap[S]) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}
