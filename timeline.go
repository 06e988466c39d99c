// -*- tab-width:2 -*-

package sim

import (
	"container/heap"
)

// Timeline is the ordered list of pending events. It is not safe for
// concurrent use; the simulation is single threaded.
type Timeline struct {
	pq      pQueue
	counter uint64
}

// NewTimeline returns an empty timeline.
func NewTimeline() *Timeline {
	return &Timeline{}
}

// Len is the number of pending events.
func (t *Timeline) Len() int {
	return t.pq.Len()
}

// Schedule inserts ev. Among events with the same time the one
// scheduled last is dequeued first.
func (t *Timeline) Schedule(ev Event) {
	t.counter++
	heap.Push(&t.pq, &item{ev: ev, seq: t.counter})
}

// Next removes and returns the earliest event, or ErrTimelineEmpty.
func (t *Timeline) Next() (Event, error) {
	if t.pq.Len() == 0 {
		return Event{}, ErrTimelineEmpty
	}

	it := heap.Pop(&t.pq).(*item) //nolint:forcetypeassert

	return it.ev, nil
}

// Peek returns the earliest event without removing it.
func (t *Timeline) Peek() (Event, bool) {
	if t.pq.Len() == 0 {
		return Event{}, false
	}

	return t.pq[0].ev, true
}

// Cancel removes the first event, in dequeue order, that matches
// pred. It returns ErrNotFound when nothing matches.
func (t *Timeline) Cancel(pred func(Event) bool) (Event, error) {
	var first *item

	for _, it := range t.pq {
		if !pred(it.ev) {
			continue
		}

		if first == nil || t.pq.Less(it.index, first.index) {
			first = it
		}
	}

	if first == nil {
		return Event{}, ErrNotFound
	}

	heap.Remove(&t.pq, first.index)

	return first.ev, nil
}

// Find reports whether any pending event matches pred.
func (t *Timeline) Find(pred func(Event) bool) bool {
	for _, it := range t.pq {
		if pred(it.ev) {
			return true
		}
	}

	return false
}
