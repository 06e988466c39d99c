// -*- tab-width:2 -*-

package sim

// An item is an event held in the priority queue.
type item struct {
	ev  Event
	seq uint64 // insertion order, breaks ties on ev.Time
	// The index is needed by heap.Remove and is maintained by the heap.Interface methods.
	index int
}

// A pQueue implements heap.Interface and holds items.
type pQueue []*item

func (pq pQueue) Len() int { return len(pq) }

// Less orders by time, and among equal times the most recently
// scheduled item comes out first.
func (pq pQueue) Less(i, j int) bool {
	if pq[i].ev.Time != pq[j].ev.Time {
		return pq[i].ev.Time < pq[j].ev.Time
	}

	return pq[i].seq > pq[j].seq
}

func (pq pQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

// Push adds a value to the pqueue - called by
// heap.Interface
func (pq *pQueue) Push(x any) {
	n := len(*pq)
	it := x.(*item) //nolint:forcetypeassert
	it.index = n
	*pq = append(*pq, it)
}

// Pop removes a value from the pqueue -
// called by heap.Interface
func (pq *pQueue) Pop() any {
	old := *pq
	n := len(old)
	it := old[n-1]
	old[n-1] = nil // avoid memory leak
	it.index = -1  // for safety
	*pq = old[0 : n-1]

	return it
}
