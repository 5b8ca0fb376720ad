package world

import "container/heap"

// regionCandidate is a lightweight handle into World.regions, not a copy of
// the region itself: the heap reorders candidates freely while the regions
// they point at stay put in World's slice.
type regionCandidate struct {
	index    int
	priority uint64
}

// priorityHeap is a max-heap of regionCandidate ordered by priority, highest
// first.
type priorityHeap []regionCandidate

func (h priorityHeap) Len() int            { return len(h) }
func (h priorityHeap) Less(i, j int) bool  { return h[i].priority > h[j].priority }
func (h priorityHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *priorityHeap) Push(x interface{}) { *h = append(*h, x.(regionCandidate)) }
func (h *priorityHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// selectRegions splits region indices [0,n) into indices to advance this
// frame and indices to skip, greedily popping the highest-effective-priority
// candidate until either the running estimate of chunk updates meets
// targetChunkUpdates or maxToUpdate candidates have been taken.
func selectRegions(priorities []uint64, estimates []uint64, targetChunkUpdates uint64, maxToUpdate int) (toUpdate, toSkip []int) {
	h := make(priorityHeap, len(priorities))
	for i, p := range priorities {
		h[i] = regionCandidate{index: i, priority: p}
	}
	heap.Init(&h)

	var estimated uint64
	for h.Len() > 0 && estimated < targetChunkUpdates && len(toUpdate) < maxToUpdate {
		cand := heap.Pop(&h).(regionCandidate)
		estimated += estimates[cand.index]
		toUpdate = append(toUpdate, cand.index)
	}

	for h.Len() > 0 {
		cand := heap.Pop(&h).(regionCandidate)
		toSkip = append(toSkip, cand.index)
	}

	return toUpdate, toSkip
}
