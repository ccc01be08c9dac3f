package fog

import (
	"container/heap"

	"fogsim/task"
)

// costHeap is a min-heap of tasks ordered by ascending Cost. Adapted from
// the teacher's scheduling TaskHeap — there a min-heap over an intelligence
// score, here a min-heap over the cost comparison §4.5's displacement
// branch needs for ReplaceableTasks.
type costHeap []*task.Task

func (h costHeap) Len() int           { return len(h) }
func (h costHeap) Less(i, j int) bool { return h[i].Cost < h[j].Cost }
func (h costHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *costHeap) Push(x any) {
	*h = append(*h, x.(*task.Task))
}

func (h *costHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// sortedByCost returns tasks sorted by ascending Cost, draining a costHeap
// exactly as the teacher's worker pool drains its TaskHeap.
func sortedByCost(tasks []*task.Task) []*task.Task {
	h := make(costHeap, len(tasks))
	copy(h, tasks)
	heap.Init(&h)
	out := make([]*task.Task, 0, len(tasks))
	for h.Len() > 0 {
		out = append(out, heap.Pop(&h).(*task.Task))
	}
	return out
}
