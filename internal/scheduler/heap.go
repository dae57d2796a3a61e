package scheduler

import "container/heap"

// timerHeap implements container/heap.Interface for timerEntry,
// ordered by wakeAt with the earliest on top. Ties break on event id
// so ordering is deterministic.
type timerHeap []timerEntry

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].wakeAt.Equal(h[j].wakeAt) {
		return h[i].eventID < h[j].eventID
	}
	return h[i].wakeAt.Before(h[j].wakeAt)
}

func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *timerHeap) Push(x any) {
	*h = append(*h, x.(timerEntry))
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// heapPush adds a timerEntry to the heap, maintaining heap invariant.
func heapPush(h *timerHeap, e timerEntry) {
	heap.Push(h, e)
}

// heapPop removes and returns the timerEntry with the earliest wakeAt.
// Panics if the heap is empty.
func heapPop(h *timerHeap) timerEntry {
	return heap.Pop(h).(timerEntry)
}

// heapRemoveByID removes every timerEntry with the given event id and
// returns the number of entries removed. A pending event has one live
// entry at a time, so this usually drops at most one.
func heapRemoveByID(h *timerHeap, id int64) int {
	kept := (*h)[:0]
	removed := 0
	for _, e := range *h {
		if e.eventID == id {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	if removed > 0 {
		*h = kept
		heap.Init(h)
	}
	return removed
}
